// Package httpserver wires the calendar API into an echo server with its
// middleware stack, metrics endpoint and lifecycle handling.
package httpserver

import "github.com/tphakala/calendar-go/internal/api"

// Interface is the lifecycle surface the serve command drives.
type Interface interface {
	// Start begins serving HTTP requests in a background goroutine and
	// returns immediately. Use Shutdown() to stop the server.
	Start()

	// Shutdown gracefully stops the server and releases resources.
	Shutdown() error

	// APIController returns the API controller, or nil before routes are set up.
	APIController() *api.Controller
}
