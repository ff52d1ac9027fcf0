package db

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports liveness plus database reachability. It runs before
// tenant resolution, so a broken tenant configuration never masks a healthy
// database and vice versa.
func HealthHandler(holder *PoolHolder) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		now := time.Now().UTC().Format(time.RFC3339)

		pool, err := holder.Get(ctx)
		if err == nil {
			err = pool.Ping(ctx)
		}
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":          "degraded",
				"database_status": "unreachable",
				"error":           err.Error(),
				"timestamp":       now,
			})
		}

		return c.JSON(http.StatusOK, map[string]string{
			"status":          "ok",
			"database_status": "connected",
			"timestamp":       now,
		})
	}
}
