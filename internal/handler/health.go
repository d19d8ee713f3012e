package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Health reports liveness for load balancers. A failing MySQL ping turns
// the answer into 503; Redis problems are only reported.
type Health struct {
	DB    *sql.DB
	Redis *redis.Client
}

func (h Health) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := echo.Map{"status": "ok"}
	code := http.StatusOK
	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			status["status"], status["db"] = "degraded", err.Error()
			code = http.StatusServiceUnavailable
		}
	}
	if h.Redis != nil {
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			// redis only backs caching and rate limiting, both of which fail open
			status["redis"] = err.Error()
		}
	}
	return c.JSON(code, status)
}
