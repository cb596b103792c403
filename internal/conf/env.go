// env.go - environment variable overrides and their validation
package conf

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// envBinding holds metadata for environment variable bindings (internal use)
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "CALENDAR_DEBUG", validateEnvBool},

		// Web server
		{"webserver.listen", "CALENDAR_LISTEN", validateEnvListen},
		{"webserver.ratelimit", "CALENDAR_RATELIMIT", validateEnvNonNegativeFloat},

		// Database
		{"database.driver", "CALENDAR_DB_DRIVER", validateEnvDriver},
		{"database.sqlite.path", "CALENDAR_DB_PATH", nil},
		{"database.mysql.host", "CALENDAR_MYSQL_HOST", nil},
		{"database.mysql.port", "CALENDAR_MYSQL_PORT", validateEnvPort},
		{"database.mysql.username", "CALENDAR_MYSQL_USER", nil},
		{"database.mysql.password", "CALENDAR_MYSQL_PASSWORD", nil},
		{"database.mysql.database", "CALENDAR_MYSQL_DATABASE", nil},

		// Holidays
		{"holidays.cachettl", "CALENDAR_HOLIDAY_CACHE_TTL", validateEnvDuration},
		{"holidays.warmup", "CALENDAR_HOLIDAY_WARMUP", nil},

		// Observability
		{"metrics.enabled", "CALENDAR_METRICS", validateEnvBool},
		{"logging.default_level", "CALENDAR_LOG_LEVEL", validateEnvLogLevel},
	}
}

// bindEnvVars sets up environment variable bindings with validation (internal)
func bindEnvVars() error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate != nil {
			if envValue := os.Getenv(binding.EnvVar); envValue != "" {
				if err := binding.Validate(envValue); err != nil {
					warnings = append(warnings, fmt.Sprintf("Invalid %s value '%s': %v", binding.EnvVar, envValue, err))
				}
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}

	return nil
}

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("must be true or false")
	}
	return nil
}

func validateEnvListen(value string) error {
	if _, _, err := net.SplitHostPort(value); err != nil {
		return fmt.Errorf("must be host:port: %w", err)
	}
	return nil
}

func validateEnvPort(value string) error {
	port, err := strconv.Atoi(value)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("must be a port number between 1 and 65535")
	}
	return nil
}

func validateEnvNonNegativeFloat(value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 {
		return fmt.Errorf("must be a non-negative number")
	}
	return nil
}

func validateEnvDriver(value string) error {
	switch value {
	case DriverSQLite, DriverMySQL:
		return nil
	}
	return fmt.Errorf("must be %q or %q", DriverSQLite, DriverMySQL)
}

func validateEnvDuration(value string) error {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fmt.Errorf("must be a positive duration such as 12h")
	}
	return nil
}

func validateEnvLogLevel(value string) error {
	switch strings.ToLower(value) {
	case "trace", "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("must be one of trace, debug, info, warn, error")
}

// configureEnvironmentVariables sets up environment variable support for Viper
func configureEnvironmentVariables() error {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return bindEnvVars()
}
