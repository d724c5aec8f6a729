package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mb-platform/user-service/internal/api/metrics"
)

// AttemptLimiter abstracts the Redis-backed login limiter.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// LoginRateLimit throttles requests per client IP. A limiter error fails
// open: availability of login beats strictness of the throttle.
func LoginRateLimit(limiter AttemptLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				log.Warn().Err(err).Str("ip", c.RealIP()).Msg("login limiter unavailable, allowing request")
				return next(c)
			}
			if !ok {
				metrics.LoginsThrottledTotal.Inc()
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many login attempts"})
			}
			return next(c)
		}
	}
}
