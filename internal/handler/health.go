package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health returns a liveness handler used by load balancers and
// monitoring.  When a database handle is supplied the check also pings
// it, so an unreachable MySQL flips the endpoint to 503.
func Health(db *sql.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "db": "down"})
			}
		}
		return c.String(http.StatusOK, "ok")
	}
}
