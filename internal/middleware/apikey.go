package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAPIKey returns a middleware that guards machine-to-machine
// endpoints (the SMS webhook, the cleanup trigger) with a shared secret
// carried in the X-API-Key header.  The comparison is constant time so
// the key cannot be probed byte by byte.
func RequireAPIKey(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			got := c.Request().Header.Get("X-API-Key")
			if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid api key"})
			}
			return next(c)
		}
	}
}
