package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// rateLimitExpiry is how long an idle client's bucket is kept.
const rateLimitExpiry = 3 * time.Minute

// NewRateLimiter limits each client IP to rps requests per second with the
// given burst. onDeny, when set, is called with the route pattern of every
// rejected request. It returns nil when rps is not positive.
func NewRateLimiter(rps float64, burst int, onDeny func(path string)) echo.MiddlewareFunc {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(rps),
				Burst:     burst,
				ExpiresIn: rateLimitExpiry,
			},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(ctx echo.Context, err error) error {
			return ctx.JSON(http.StatusForbidden, map[string]any{
				"error":   "Forbidden",
				"message": "Unable to identify client",
				"code":    http.StatusForbidden,
			})
		},
		DenyHandler: func(ctx echo.Context, identifier string, err error) error {
			if onDeny != nil {
				onDeny(ctx.Path())
			}
			return ctx.JSON(http.StatusTooManyRequests, map[string]any{
				"error":   "Too many requests",
				"message": "Rate limit exceeded, please wait before trying again",
				"code":    http.StatusTooManyRequests,
			})
		},
	})
}
