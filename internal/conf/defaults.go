// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("webserver.listen", "0.0.0.0:5000")
	viper.SetDefault("webserver.ratelimit", 10.0)
	viper.SetDefault("webserver.rateburst", 20)
	viper.SetDefault("webserver.bodylimit", "1M")
	viper.SetDefault("webserver.shutdowntimeout", 10*time.Second)

	viper.SetDefault("database.driver", DriverSQLite)
	viper.SetDefault("database.slowthreshold", 200*time.Millisecond)
	viper.SetDefault("database.sqlite.path", "calendar_app.db")
	viper.SetDefault("database.mysql.host", "localhost")
	viper.SetDefault("database.mysql.port", "3306")
	viper.SetDefault("database.mysql.username", "")
	viper.SetDefault("database.mysql.password", "")
	viper.SetDefault("database.mysql.database", "calendar")

	viper.SetDefault("holidays.cachettl", 24*time.Hour)
	viper.SetDefault("holidays.warmup", "0 3 * * *")
	viper.SetDefault("holidays.subdivisions", map[string]string{"DE": "BW"})

	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.path", "/metrics")

	viper.SetDefault("logging.default_level", "info")
	viper.SetDefault("logging.timezone", "Local")
	viper.SetDefault("logging.console.enabled", true)
	viper.SetDefault("logging.console.level", "info")
	viper.SetDefault("logging.file_output.enabled", false)
	viper.SetDefault("logging.file_output.path", "logs/calendar.log")
	viper.SetDefault("logging.file_output.level", "info")
}
