package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a config file into a temp dir and resets viper state
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadEmbeddedDefaults(t *testing.T) {
	data, err := getDefaultConfig()
	require.NoError(t, err)

	settings, err := Load(writeConfig(t, string(data)))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5000", settings.WebServer.Listen)
	assert.InDelta(t, 10.0, settings.WebServer.RateLimit, 0)
	assert.Equal(t, 10*time.Second, settings.WebServer.ShutdownTimeout)
	assert.Equal(t, DriverSQLite, settings.Database.Driver)
	assert.Equal(t, "calendar_app.db", settings.Database.SQLite.Path)
	assert.Equal(t, 200*time.Millisecond, settings.Database.SlowThreshold)
	assert.Equal(t, 24*time.Hour, settings.Holidays.CacheTTL)
	assert.Equal(t, "0 3 * * *", settings.Holidays.Warmup)
	assert.Equal(t, map[string]string{"DE": "BW"}, NormalizeSubdivisions(settings.Holidays.Subdivisions))
	assert.True(t, settings.Metrics.Enabled)
	assert.Equal(t, "info", settings.Logging.DefaultLevel)
	require.NotNil(t, settings.Logging.Console)
	assert.True(t, settings.Logging.Console.Enabled)
	assert.Same(t, settings, GetSettings())
}

func TestLoadMinimalFileUsesDefaults(t *testing.T) {
	settings, err := Load(writeConfig(t, "debug: true\n"))
	require.NoError(t, err)

	assert.True(t, settings.Debug)
	assert.Equal(t, "0.0.0.0:5000", settings.WebServer.Listen)
	assert.Equal(t, "/metrics", settings.Metrics.Path)
}

func TestEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: sqlite\n")
	t.Setenv("CALENDAR_LISTEN", "127.0.0.1:8080")
	t.Setenv("CALENDAR_DB_PATH", "/tmp/other.db")
	t.Setenv("CALENDAR_HOLIDAY_CACHE_TTL", "1h")

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", settings.WebServer.Listen)
	assert.Equal(t, "/tmp/other.db", settings.Database.SQLite.Path)
	assert.Equal(t, time.Hour, settings.Holidays.CacheTTL)
}

func TestInvalidEnvironmentValueFailsLoad(t *testing.T) {
	path := writeConfig(t, "debug: false\n")
	t.Setenv("CALENDAR_DB_DRIVER", "postgres")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CALENDAR_DB_DRIVER")
}

func TestValidateSettings(t *testing.T) {
	valid := func() *Settings {
		return &Settings{
			WebServer: WebServerSettings{Listen: ":5000", RateLimit: 5, RateBurst: 10, ShutdownTimeout: time.Second},
			Database:  DatabaseSettings{Driver: DriverSQLite, SQLite: SQLiteSettings{Path: "x.db"}},
			Holidays:  HolidaySettings{CacheTTL: time.Hour, Warmup: "0 3 * * *"},
			Metrics:   MetricsSettings{Enabled: true, Path: "/metrics"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr string
	}{
		{"valid", func(*Settings) {}, ""},
		{"bad listen", func(s *Settings) { s.WebServer.Listen = "5000" }, "listen address"},
		{"negative rate", func(s *Settings) { s.WebServer.RateLimit = -1 }, "ratelimit"},
		{"unknown driver", func(s *Settings) { s.Database.Driver = "postgres" }, "unsupported database driver"},
		{"mysql without host", func(s *Settings) { s.Database.Driver = DriverMySQL }, "mysql host"},
		{"bad cron", func(s *Settings) { s.Holidays.Warmup = "every day" }, "warmup schedule"},
		{"empty cron disables warmup", func(s *Settings) { s.Holidays.Warmup = "" }, ""},
		{"zero ttl", func(s *Settings) { s.Holidays.CacheTTL = 0 }, "cachettl"},
		{"relative metrics path", func(s *Settings) { s.Metrics.Path = "metrics" }, "metrics path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := ValidateSettings(s)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNormalizeSubdivisions(t *testing.T) {
	got := NormalizeSubdivisions(map[string]string{"de": "bw", " us ": "", "": "X"})
	assert.Equal(t, map[string]string{"DE": "BW"}, got)
}
