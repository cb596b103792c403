// config.go: settings struct for calendar-go and the functions that load it.
package conf

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/tphakala/calendar-go/internal/logger"
)

//go:embed config.yaml
var configFiles embed.FS

// Supported database drivers
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// WebServerSettings contains HTTP listener settings
type WebServerSettings struct {
	Listen          string        // address to listen on, e.g. 0.0.0.0:5000
	RateLimit       float64       // calculator requests per second per client, 0 disables
	RateBurst       int           // calculator burst size
	BodyLimit       string        // maximum request body size, e.g. "1M"
	ShutdownTimeout time.Duration // graceful shutdown timeout
}

// SQLiteSettings contains settings for the embedded SQLite store
type SQLiteSettings struct {
	Path string // database file path
}

// MySQLSettings contains settings for a MySQL store
type MySQLSettings struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// DatabaseSettings selects and configures the store backend
type DatabaseSettings struct {
	Driver        string        // sqlite or mysql
	SlowThreshold time.Duration // queries slower than this are logged at warn
	SQLite        SQLiteSettings
	MySQL         MySQLSettings
}

// HolidaySettings configures holiday lookup
type HolidaySettings struct {
	CacheTTL     time.Duration     // how long computed holiday years stay cached
	Warmup       string            // cron spec for cache warm-up, empty disables
	Subdivisions map[string]string // country code to subdivision, e.g. DE: BW
}

// MetricsSettings configures the prometheus endpoint
type MetricsSettings struct {
	Enabled bool
	Path    string
}

// Settings holds the complete application configuration
type Settings struct {
	Debug     bool
	WebServer WebServerSettings
	Database  DatabaseSettings
	Holidays  HolidaySettings
	Metrics   MetricsSettings
	Logging   logger.LoggingConfig
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads configuration from configFile, or from the default search
// paths when configFile is empty, applies env overrides and validates.
func Load(configFile string) (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(configFile); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper sets defaults, env bindings and reads the configuration file.
func initViper(configFile string) error {
	setDefaultConfig()

	if err := configureEnvironmentVariables(); err != nil {
		return err
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("fatal error reading config file %s: %w", configFile, err)
		}
		return nil
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return createDefaultConfig(configPaths[0])
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig writes the embedded config.yaml into dir and reads it back
func createDefaultConfig(dir string) error {
	configPath := filepath.Join(dir, "config.yaml")

	defaultConfig, err := getDefaultConfig()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	if err := os.WriteFile(configPath, defaultConfig, 0o644); err != nil { //nolint:gosec // config is not secret by default
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() ([]byte, error) {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		return nil, fmt.Errorf("error reading embedded config: %w", err)
	}
	return data, nil
}

// GetSettings returns the most recently loaded settings, or nil
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}
