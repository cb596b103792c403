// Package api implements the calendar JSON endpoints on echo.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tphakala/calendar-go/internal/buildinfo"
	"github.com/tphakala/calendar-go/internal/calculator"
	"github.com/tphakala/calendar-go/internal/datastore"
	"github.com/tphakala/calendar-go/internal/datastore/entities"
	"github.com/tphakala/calendar-go/internal/datastore/repository"
	"github.com/tphakala/calendar-go/internal/errors"
	"github.com/tphakala/calendar-go/internal/holiday"
	"github.com/tphakala/calendar-go/internal/logger"
	"github.com/tphakala/calendar-go/internal/settings"
	"github.com/tphakala/calendar-go/internal/tz"
)

// Store is the persistence surface the handlers use.
type Store interface {
	CreateEvent(ctx context.Context, in datastore.NewEvent) datastore.Result[*entities.Event]
	GetEvent(ctx context.Context, id uint) datastore.Result[*entities.Event]
	GetEvents(ctx context.Context, start, end *time.Time) datastore.Result[[]entities.Event]
	UpdateEvent(ctx context.Context, id uint, patch datastore.EventPatch) datastore.Result[*entities.Event]
	DeleteEvent(ctx context.Context, id uint) datastore.Result[bool]

	UpsertNote(ctx context.Context, date time.Time, content string) datastore.Result[*entities.Note]
	AppendNote(ctx context.Context, date time.Time, content string) datastore.Result[*entities.Note]
	GetNotesForDate(ctx context.Context, date time.Time) datastore.Result[[]entities.Note]
	UpdateNoteByID(ctx context.Context, id uint, content string) datastore.Result[*entities.Note]
	DeleteNoteByID(ctx context.Context, id uint) datastore.Result[bool]
	DeleteNote(ctx context.Context, date time.Time) datastore.Result[bool]

	Ping(ctx context.Context) error
}

// Controller manages the API routes and handlers
type Controller struct {
	Echo  *echo.Echo
	Group *echo.Group

	store     Store
	settings  *settings.Service
	holidays  *holiday.Service
	zones     *tz.Service
	calc      *calculator.Calculator
	log       logger.Logger
	startTime time.Time

	// calculatorLimiter guards POST /calculator; nil disables limiting.
	calculatorLimiter echo.MiddlewareFunc
}

// Option is a functional option for configuring the Controller.
type Option func(*Controller)

// WithLogger sets the logger; handlers log under the "api" module.
func WithLogger(log logger.Logger) Option {
	return func(c *Controller) { c.log = log.Module("api") }
}

// WithCalculatorLimiter installs a rate limiting middleware on the calculator.
func WithCalculatorLimiter(mw echo.MiddlewareFunc) Option {
	return func(c *Controller) { c.calculatorLimiter = mw }
}

// WithTimezones overrides the timezone service.
func WithTimezones(zones *tz.Service) Option {
	return func(c *Controller) { c.zones = zones }
}

// WithCalculator overrides the calculator, e.g. to attach metrics.
func WithCalculator(calc *calculator.Calculator) Option {
	return func(c *Controller) { c.calc = calc }
}

// New creates the controller and registers its routes under /api.
func New(e *echo.Echo, store Store, settingsSvc *settings.Service, holidays *holiday.Service, opts ...Option) *Controller {
	c := &Controller{
		Echo:      e,
		Group:     e.Group("/api"),
		store:     store,
		settings:  settingsSvc,
		holidays:  holidays,
		zones:     tz.NewService(),
		calc:      calculator.New(nil),
		log:       logger.NewNopLogger().Module("api"),
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.initRoutes()
	return c
}

// initRoutes registers all API endpoints
func (c *Controller) initRoutes() {
	c.Group.GET("/health", c.HealthCheck)

	routeInitializers := []struct {
		name string
		fn   func()
	}{
		{"event routes", c.initEventRoutes},
		{"note routes", c.initNoteRoutes},
		{"holiday routes", c.initHolidayRoutes},
		{"calculator routes", c.initCalculatorRoutes},
		{"timezone routes", c.initTimezoneRoutes},
		{"settings routes", c.initSettingsRoutes},
	}

	for _, initializer := range routeInitializers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.log.Error("panic during route initialization",
						logger.String("routes", initializer.name),
						logger.Any("panic", r))
				}
			}()
			initializer.fn()
			c.log.Debug("routes initialized", logger.String("routes", initializer.name))
		}()
	}
}

// HealthCheck reports service status and database connectivity.
func (c *Controller) HealthCheck(ctx echo.Context) error {
	uptime := time.Since(c.startTime)
	build := buildinfo.Current()
	response := map[string]any{
		"status":          "healthy",
		"version":         build.Version,
		"build_date":      build.BuildDate,
		"database_status": "connected",
		"uptime":          uptime.String(),
		"uptime_seconds":  uptime.Seconds(),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	}

	status := http.StatusOK
	if err := c.store.Ping(ctx.Request().Context()); err != nil {
		response["status"] = "degraded"
		response["database_status"] = "disconnected"
		response["database_error"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	return ctx.JSON(status, response)
}

// ErrorResponse is the body of every 4xx/5xx answer.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"` // Unique identifier for tracking this error
}

// NewErrorResponse creates a new API error response
func NewErrorResponse(err error, message string, code int) *ErrorResponse {
	errorStr := message
	if err != nil {
		errorStr = err.Error()
	}
	return &ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: generateCorrelationID(),
	}
}

// generateCorrelationID returns the first block of a random UUID.
func generateCorrelationID() string {
	return uuid.NewString()[:8]
}

// HandleError logs the failure and writes an ErrorResponse.
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	resp := NewErrorResponse(publicError(err), message, code)

	fields := []logger.Field{
		logger.String("correlation_id", resp.CorrelationID),
		logger.String("message", message),
		logger.Int("code", code),
		logger.String("path", ctx.Request().URL.Path),
		logger.String("method", ctx.Request().Method),
		logger.String("ip", ctx.RealIP()),
	}
	if err != nil {
		fields = append(fields, logger.Error(err))
	}
	log := c.log.WithContext(ctx.Request().Context())
	if code >= http.StatusInternalServerError {
		log.Error("API error", fields...)
	} else {
		log.Debug("API error", fields...)
	}

	return ctx.JSON(code, resp)
}

// publicError returns err when its text is safe to show to clients.
// Store and internal failures are only logged.
func publicError(err error) error {
	if errors.IsValidation(err) {
		return err
	}
	return nil
}

// validationMessage strips the sentinel prefix from store validation errors.
func validationMessage(err error) string {
	if err == nil {
		return "Invalid request"
	}
	msg := strings.TrimPrefix(err.Error(), repository.ErrInvalidInput.Error()+": ")
	if msg == "" {
		return "Invalid request"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// handleResult maps a non-OK store outcome to an error response.
// faultCode is the status used for store faults.
func handleResult[T any](c *Controller, ctx echo.Context, res datastore.Result[T], notFound, failed string, faultCode int) error {
	switch res.Status {
	case datastore.StatusNotFound:
		return c.HandleError(ctx, nil, notFound, http.StatusNotFound)
	case datastore.StatusInvalid:
		return c.HandleError(ctx, res.Err, validationMessage(res.Err), http.StatusBadRequest)
	default:
		return c.HandleError(ctx, res.Err, failed, faultCode)
	}
}
