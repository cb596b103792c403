// Package cmd assembles the calendar-go command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/calendar-go/cmd/holidays"
	"github.com/tphakala/calendar-go/cmd/serve"
	settingscmd "github.com/tphakala/calendar-go/cmd/settings"
	"github.com/tphakala/calendar-go/cmd/version"
	"github.com/tphakala/calendar-go/internal/conf"
	"github.com/tphakala/calendar-go/internal/logger"
)

// RootCommand creates and returns the root command. Subcommands share
// settings, which is filled in before any of them runs.
func RootCommand() *cobra.Command {
	settings := &conf.Settings{}
	var configFile string

	rootCmd := &cobra.Command{
		Use:          "calendar-go",
		Short:        "Single-user calendar service",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file")
	if err := setupFlags(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "error setting up flags: %v\n", err)
		os.Exit(1)
	}

	versionCmd := version.Command()
	subcommands := []*cobra.Command{
		serve.Command(settings),
		settingscmd.Command(settings),
		holidays.Command(settings),
		versionCmd,
	}
	rootCmd.AddCommand(subcommands...)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// version needs no configuration
		if cmd == versionCmd {
			return nil
		}
		return initialize(configFile, settings)
	}
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return logger.Global().Close()
	}

	return rootCmd
}

// initialize loads configuration into settings and installs the global logger.
func initialize(configFile string, settings *conf.Settings) error {
	loaded, err := conf.Load(configFile)
	if err != nil {
		return err
	}
	*settings = *loaded
	settings.Holidays.Subdivisions = conf.NormalizeSubdivisions(settings.Holidays.Subdivisions)

	if settings.Debug {
		settings.Logging.DefaultLevel = string(logger.LogLevelDebug)
		if settings.Logging.Console != nil {
			settings.Logging.Console.Level = string(logger.LogLevelDebug)
		}
	}

	cl, err := logger.NewCentralLogger(&settings.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.SetGlobal(cl)
	return nil
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command) error {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug output")

	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}
