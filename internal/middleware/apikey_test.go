package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callWithKey(t *testing.T, configured, sent string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h := RequireAPIKey(configured)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/payment/sms-notify", nil)
	if sent != "" {
		req.Header.Set("X-API-Key", sent)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestRequireAPIKey(t *testing.T) {
	t.Run("matching key passes", func(t *testing.T) {
		rec := callWithKey(t, "s3cret", "s3cret")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		rec := callWithKey(t, "s3cret", "guess")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		rec := callWithKey(t, "s3cret", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	// An unset key must fail closed, not open the endpoint to everyone.
	t.Run("unconfigured key rejects everything", func(t *testing.T) {
		rec := callWithKey(t, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
