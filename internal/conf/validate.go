// conf/validate.go

package conf

import (
	"fmt"
	"net"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/tphakala/calendar-go/internal/errors"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateWebServerSettings(&settings.WebServer); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateDatabaseSettings(&settings.Database); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateHolidaySettings(&settings.Holidays); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if settings.Metrics.Enabled && !strings.HasPrefix(settings.Metrics.Path, "/") {
		ve.Errors = append(ve.Errors, "metrics path must start with /")
	}

	if len(ve.Errors) > 0 {
		return errors.New(ve).
			Category(errors.CategoryConfiguration).
			Context("error_count", len(ve.Errors)).
			Build()
	}

	return nil
}

func validateWebServerSettings(s *WebServerSettings) error {
	if _, _, err := net.SplitHostPort(s.Listen); err != nil {
		return fmt.Errorf("invalid webserver listen address %q: %w", s.Listen, err)
	}
	if s.RateLimit < 0 {
		return fmt.Errorf("webserver ratelimit must not be negative")
	}
	if s.RateLimit > 0 && s.RateBurst < 1 {
		return fmt.Errorf("webserver rateburst must be at least 1 when rate limiting is enabled")
	}
	if s.ShutdownTimeout <= 0 {
		return fmt.Errorf("webserver shutdowntimeout must be positive")
	}
	return nil
}

func validateDatabaseSettings(s *DatabaseSettings) error {
	switch s.Driver {
	case DriverSQLite:
		if s.SQLite.Path == "" {
			return fmt.Errorf("database sqlite path is required")
		}
	case DriverMySQL:
		if s.MySQL.Host == "" || s.MySQL.Database == "" {
			return fmt.Errorf("database mysql host and database are required")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", s.Driver)
	}
	return nil
}

func validateHolidaySettings(s *HolidaySettings) error {
	if s.CacheTTL <= 0 {
		return fmt.Errorf("holidays cachettl must be positive")
	}
	if s.Warmup != "" {
		if _, err := cron.ParseStandard(s.Warmup); err != nil {
			return fmt.Errorf("invalid holidays warmup schedule %q: %w", s.Warmup, err)
		}
	}
	return nil
}
