package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/tphakala/calendar-go/internal/api"
	"github.com/tphakala/calendar-go/internal/calculator"
	"github.com/tphakala/calendar-go/internal/conf"
	"github.com/tphakala/calendar-go/internal/holiday"
	mw "github.com/tphakala/calendar-go/internal/httpserver/middleware"
	"github.com/tphakala/calendar-go/internal/logger"
	"github.com/tphakala/calendar-go/internal/observability"
	"github.com/tphakala/calendar-go/internal/settings"
)

// Server is the HTTP server for the calendar API.
// It owns the echo instance, the middleware stack and the API controller.
type Server struct {
	echo     *echo.Echo
	config   *Config
	settings *conf.Settings
	root     logger.Logger // unscoped; components add their own module
	log      logger.Logger

	// Dependencies
	store       api.Store
	settingsSvc *settings.Service
	holidays    *holiday.Service
	metrics     *observability.Metrics

	apiController *api.Controller

	// Lifecycle management
	wg           sync.WaitGroup
	errCh        chan error
	shutdownOnce sync.Once
	shutdownErr  error
}

var _ Interface = (*Server)(nil)

// ServerOption is a functional option for configuring the Server.
type ServerOption func(*Server)

// WithLogger sets the logger; the server logs under the "httpserver" module.
func WithLogger(log logger.Logger) ServerOption {
	return func(s *Server) {
		if log != nil {
			s.root = log
			s.log = log.Module("httpserver")
		}
	}
}

// WithStore sets the datastore backing the API.
func WithStore(store api.Store) ServerOption {
	return func(s *Server) {
		s.store = store
	}
}

// WithSettingsService sets the settings façade.
func WithSettingsService(svc *settings.Service) ServerOption {
	return func(s *Server) {
		s.settingsSvc = svc
	}
}

// WithHolidayService sets the holiday service.
func WithHolidayService(svc *holiday.Service) ServerOption {
	return func(s *Server) {
		s.holidays = svc
	}
}

// WithMetrics sets the observability metrics for the server.
func WithMetrics(m *observability.Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// New creates a new HTTP server with the given settings and options.
func New(settings *conf.Settings, opts ...ServerOption) (*Server, error) {
	config := ConfigFromSettings(settings)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}

	s := &Server{
		config:   config,
		settings: settings,
		root:     logger.Global().Module(""),
		log:      GetLogger(),
		errCh:    make(chan error, 1),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil || s.settingsSvc == nil || s.holidays == nil {
		return nil, fmt.Errorf("store, settings and holiday services are required")
	}

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Debug = config.Debug

	s.echo.Server.ReadTimeout = config.ReadTimeout
	s.echo.Server.WriteTimeout = config.WriteTimeout
	s.echo.Server.IdleTimeout = config.IdleTimeout

	s.setupMiddleware()
	s.setupRoutes()

	s.log.Info("HTTP server initialized",
		logger.String("address", config.Address()),
		logger.Bool("metrics", config.MetricsEnabled),
		logger.Bool("debug", config.Debug))

	return s, nil
}

// setupMiddleware configures the echo middleware stack.
func (s *Server) setupMiddleware() {
	// Recovery middleware - should be first
	s.echo.Use(echomw.Recover())

	s.echo.Use(mw.NewRequestID())
	s.echo.Use(mw.NewRequestLogger(s.root))

	if s.metrics != nil {
		metricsPath := s.config.MetricsPath
		s.echo.Use(mw.NewHTTPMetrics(s.metrics.HTTP, func(c echo.Context) bool {
			return c.Path() == metricsPath
		}))
	}

	s.echo.Use(mw.NewCORS(s.config.AllowedOrigins))
	s.echo.Use(mw.NewBodyLimit(s.config.BodyLimit))
	s.echo.Use(mw.NewSecureHeaders())
}

// setupRoutes registers the API controller and the metrics endpoint.
func (s *Server) setupRoutes() {
	var onDeny func(string)
	calc := calculator.New(nil)
	if s.metrics != nil {
		onDeny = s.metrics.HTTP.RecordRateLimited
		calc = calculator.New(s.metrics.Calculator)
	}

	opts := []api.Option{
		api.WithLogger(s.root),
		api.WithCalculator(calc),
	}
	if limiter := mw.NewRateLimiter(s.config.RateLimit, s.config.RateBurst, onDeny); limiter != nil {
		opts = append(opts, api.WithCalculatorLimiter(limiter))
	}
	s.apiController = api.New(s.echo, s.store, s.settingsSvc, s.holidays, opts...)

	if s.metrics != nil && s.config.MetricsEnabled {
		s.echo.GET(s.config.MetricsPath, echo.WrapHandler(s.metrics.Handler()))
	}

	s.log.Debug("routes initialized", logger.Int("count", len(s.echo.Routes())))
}

// Start begins serving HTTP requests in a background goroutine and
// returns immediately. Use Shutdown() to stop the server.
func (s *Server) Start() {
	s.wg.Go(func() {
		if err := s.startBlocking(); err != nil {
			s.log.Error("server error", logger.Error(err))
			s.errCh <- err
		}
	})
}

// startBlocking begins serving HTTP requests and blocks until the server is shut down.
func (s *Server) startBlocking() error {
	addr := s.config.Address()
	s.log.Info("starting HTTP server", logger.String("address", addr))

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Errors delivers a listener failure, at most once.
func (s *Server) Errors() <-chan error {
	return s.errCh
}

// StartWithGracefulShutdown starts the server and blocks until SIGINT or
// SIGTERM arrives or the listener fails, then shuts down.
func (s *Server) StartWithGracefulShutdown() error {
	s.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		s.log.Info("shutdown signal received", logger.String("signal", sig.String()))
	case err := <-s.errCh:
		_ = s.Shutdown()
		return err
	}
	return s.Shutdown()
}

// Shutdown gracefully stops the server. It is safe to call more than once.
func (s *Server) Shutdown() error {
	s.shutdownOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		start := time.Now()
		if err := s.echo.Shutdown(ctx); err != nil {
			s.log.Error("error during server shutdown", logger.Error(err))
			s.shutdownErr = fmt.Errorf("shutdown error: %w", err)
		}
		s.wg.Wait()

		s.log.Info("server shutdown complete", logger.Duration("took", time.Since(start)))
	})
	return s.shutdownErr
}

// APIController returns the API controller.
func (s *Server) APIController() *api.Controller {
	return s.apiController
}

// Echo returns the underlying echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Config returns the effective server configuration.
func (s *Server) Config() *Config {
	return s.config
}
