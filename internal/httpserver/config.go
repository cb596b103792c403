package httpserver

import (
	"fmt"
	"net"
	"time"

	"github.com/tphakala/calendar-go/internal/conf"
	"github.com/tphakala/calendar-go/internal/errors"
	"github.com/tphakala/calendar-go/internal/logger"
)

// GetLogger returns the httpserver package logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("httpserver")
}

// Default constants for the HTTP server.
const (
	DefaultListen          = "0.0.0.0:5000"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultBodyLimit       = "1M"
	DefaultMetricsPath     = "/metrics"
)

// Config holds the HTTP server configuration derived from conf.Settings.
type Config struct {
	// Server binding
	Listen string // host:port to listen on

	AllowedOrigins []string // CORS allowed origins

	// Timeouts
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Limits
	BodyLimit string  // maximum request body size, e.g. "1M"
	RateLimit float64 // calculator requests per second per client, 0 disables
	RateBurst int

	// Metrics endpoint
	MetricsEnabled bool
	MetricsPath    string

	Debug bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:          DefaultListen,
		AllowedOrigins:  []string{"*"},
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		BodyLimit:       DefaultBodyLimit,
		MetricsPath:     DefaultMetricsPath,
	}
}

// ConfigFromSettings creates a Config from the application settings.
// Zero values in settings keep the defaults.
func ConfigFromSettings(settings *conf.Settings) *Config {
	cfg := DefaultConfig()
	if settings == nil {
		return cfg
	}

	ws := settings.WebServer
	if ws.Listen != "" {
		cfg.Listen = ws.Listen
	}
	if ws.BodyLimit != "" {
		cfg.BodyLimit = ws.BodyLimit
	}
	if ws.ShutdownTimeout > 0 {
		cfg.ShutdownTimeout = ws.ShutdownTimeout
	}
	cfg.RateLimit = ws.RateLimit
	cfg.RateBurst = ws.RateBurst

	cfg.MetricsEnabled = settings.Metrics.Enabled
	if settings.Metrics.Path != "" {
		cfg.MetricsPath = settings.Metrics.Path
	}

	cfg.Debug = settings.Debug
	return cfg
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return configError(fmt.Errorf("invalid listen address %q: %w", c.Listen, err))
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return configError(fmt.Errorf("read and write timeouts must be positive"))
	}
	if c.ShutdownTimeout <= 0 {
		return configError(fmt.Errorf("shutdown timeout must be positive"))
	}
	if c.RateLimit < 0 {
		return configError(fmt.Errorf("rate limit must not be negative"))
	}
	return nil
}

func configError(err error) error {
	return errors.New(err).
		Component("httpserver").
		Category(errors.CategoryConfiguration).
		Build()
}

// Address returns the address the server listens on.
func (c *Config) Address() string {
	return c.Listen
}

// String returns a human-readable representation of the config.
func (c *Config) String() string {
	rateLimit := "disabled"
	if c.RateLimit > 0 {
		rateLimit = fmt.Sprintf("%g/s burst %d", c.RateLimit, c.RateBurst)
	}
	return fmt.Sprintf("Server Config: address=%s, rate_limit=%s, metrics=%v, debug=%v",
		c.Address(), rateLimit, c.MetricsEnabled, c.Debug)
}
