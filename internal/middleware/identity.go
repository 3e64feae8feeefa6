package middleware

// identity.go defines helper functions shared across middleware files. Currently
// it provides currentUserID, which reads the user identifier that JWTAuth
// stored in the Echo context. The rate limiter uses it to key per-user
// buckets; unauthenticated requests share the "anon" identity.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user's ID as a string, or
// "anon" when the request carries no valid token. JWT number claims
// decode as float64, so that case is handled alongside the string and
// integer forms.
func currentUserID(c echo.Context) string {
    switch v := c.Get("user_id").(type) {
    case string:
        if v != "" {
            return v
        }
    case float64:
        return strconv.FormatUint(uint64(v), 10)
    case uint64:
        return strconv.FormatUint(v, 10)
    case int64:
        return strconv.FormatInt(v, 10)
    }
    return "anon"
}
