package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tphakala/calendar-go/internal/observability/metrics"
)

// unmatchedPath labels requests that hit no route, keeping label
// cardinality bounded.
const unmatchedPath = "unmatched"

// NewHTTPMetrics records request count, latency, response size and
// in-flight requests per route pattern. A nil m disables the middleware.
func NewHTTPMetrics(m *metrics.HTTPMetrics, skipper middleware.Skipper) echo.MiddlewareFunc {
	if skipper == nil {
		skipper = middleware.DefaultSkipper
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if m == nil {
			return next
		}
		return func(c echo.Context) error {
			if skipper(c) {
				return next(c)
			}

			m.RequestStarted()
			defer m.RequestFinished()

			start := time.Now()
			err := next(c)
			if err != nil {
				// commit the error response so the recorded status is final
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = unmatchedPath
			}
			method := c.Request().Method
			status := c.Response().Status

			m.RecordHTTPRequest(method, path, status, time.Since(start).Seconds())
			m.RecordHTTPResponseSize(method, path, c.Response().Size)
			if errType := statusClass(status); errType != "" {
				m.RecordHTTPRequestError(method, path, errType)
			}
			return err
		}
	}
}

// statusClass returns the error label for a status code, or "" for success.
func statusClass(status int) string {
	switch {
	case status >= 500:
		return "server_error"
	case status == 429:
		return "rate_limited"
	case status >= 400:
		return "client_error_" + strconv.Itoa(status)
	default:
		return ""
	}
}
