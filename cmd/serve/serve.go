// Package serve implements the serve command that runs the HTTP service.
package serve

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tphakala/calendar-go/internal/conf"
	"github.com/tphakala/calendar-go/internal/datastore"
	"github.com/tphakala/calendar-go/internal/holiday"
	"github.com/tphakala/calendar-go/internal/httpserver"
	"github.com/tphakala/calendar-go/internal/logger"
	"github.com/tphakala/calendar-go/internal/observability"
	"github.com/tphakala/calendar-go/internal/scheduler"
	"github.com/tphakala/calendar-go/internal/settings"
)

// statsSchedule refreshes the datastore gauges.
const statsSchedule = "@every 1m"

// Command creates the serve command.
func Command(cfg *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the calendar HTTP service",
		Long:  "Open the database, warm the holiday cache and serve the JSON API until SIGINT or SIGTERM.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cfg)
		},
	}

	cobra.CheckErr(setupFlags(cmd))
	return cmd
}

// setupFlags configures flags specific to the serve command.
func setupFlags(cmd *cobra.Command) error {
	cmd.Flags().String("listen", "", "Listen address, e.g. 0.0.0.0:5000")
	cmd.Flags().String("db", "", "SQLite database path")

	// flag name to config key
	bindings := map[string]string{
		"listen": "webserver.listen",
		"db":     "database.sqlite.path",
	}
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := bindings[f.Name]
		if !ok || bindErr != nil {
			return
		}
		if err := viper.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("error binding flag %s: %w", f.Name, err)
		}
	})
	return bindErr
}

// Run wires the components together and blocks until shutdown. Components
// stop in reverse order: HTTP server, scheduler, database.
func Run(cfg *conf.Settings) error {
	// unscoped root; each component adds its own module
	log := logger.Global().Module("")
	mainLog := log.Module("main")

	m, err := observability.NewMetrics(log)
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	m.EnableErrorReporting()

	mgr, err := datastore.Open(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := mgr.Close(); err != nil {
			mainLog.Warn("failed to close database", logger.Error(err))
		}
	}()

	store := datastore.NewStore(mgr.DB(), log, datastore.WithMetrics(m.Datastore))

	holidays, err := holiday.NewService(
		holiday.WithCacheTTL(cfg.Holidays.CacheTTL),
		holiday.WithSubdivisions(cfg.Holidays.Subdivisions),
		holiday.WithMetrics(m.Holiday),
		holiday.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("failed to load holiday data: %w", err)
	}

	sched := scheduler.New(log)
	if err := sched.WarmNow(context.Background(), holidays); err != nil {
		mainLog.Warn("initial holiday warm-up failed", logger.Error(err))
	}
	if err := sched.AddHolidayWarmup(cfg.Holidays.Warmup, holidays); err != nil {
		return err
	}
	if cfg.Metrics.Enabled {
		if err := sched.AddJob("datastore-stats", statsSchedule, func(ctx context.Context) error {
			store.Stats(ctx)
			return nil
		}); err != nil {
			return err
		}
	}
	sched.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sched.Stop(ctx); err != nil {
			mainLog.Warn("scheduler did not stop cleanly", logger.Error(err))
		}
	}()

	srv, err := httpserver.New(cfg,
		httpserver.WithLogger(log),
		httpserver.WithMetrics(m),
		httpserver.WithStore(store),
		httpserver.WithSettingsService(settings.NewService(store, log)),
		httpserver.WithHolidayService(holidays),
	)
	if err != nil {
		return err
	}

	mainLog.Info("calendar service starting", logger.String("config", srv.Config().String()))
	return srv.StartWithGracefulShutdown()
}
