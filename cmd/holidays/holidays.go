// Package holidays implements the holidays command.
package holidays

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tphakala/calendar-go/internal/conf"
	"github.com/tphakala/calendar-go/internal/datastore"
	"github.com/tphakala/calendar-go/internal/holiday"
	"github.com/tphakala/calendar-go/internal/logger"
	"github.com/tphakala/calendar-go/internal/settings"
)

type options struct {
	year      int
	month     int
	countries []string
}

// Command creates the holidays command.
func Command(cfg *conf.Settings) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Print public holidays for a year or month",
		Long: "Print public holidays for the selected countries. Without --countries the " +
			"holiday_countries setting from the database is used.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, cfg, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.year, "year", "y", time.Now().Year(), "Year to list")
	cmd.Flags().IntVarP(&opts.month, "month", "m", 0, "Month to list (1-12), 0 for the whole year")
	cmd.Flags().StringSliceVar(&opts.countries, "countries", nil, "Country codes, e.g. US,DE")

	cmd.AddCommand(&cobra.Command{
		Use:   "countries",
		Short: "List supported country codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cfg)
			if err != nil {
				return err
			}
			for _, code := range svc.SupportedCountries() {
				line := code + "\t" + svc.CountryName(code)
				if sub := svc.Subdivision(code); sub != "" {
					line += " (" + sub + ")"
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
					return err
				}
			}
			return nil
		},
	})

	return cmd
}

func newService(cfg *conf.Settings) (*holiday.Service, error) {
	return holiday.NewService(
		holiday.WithCacheTTL(cfg.Holidays.CacheTTL),
		holiday.WithSubdivisions(cfg.Holidays.Subdivisions),
		holiday.WithLogger(logger.Global().Module("")),
	)
}

func run(cmd *cobra.Command, cfg *conf.Settings, opts options) error {
	if opts.year < 1 || opts.year > 9999 {
		return fmt.Errorf("invalid year %d", opts.year)
	}
	if opts.month < 0 || opts.month > 12 {
		return fmt.Errorf("invalid month %d", opts.month)
	}

	svc, err := newService(cfg)
	if err != nil {
		return err
	}

	codes := settings.NormalizeCountries(opts.countries)
	if len(codes) == 0 {
		if codes, err = storedCountries(cmd, cfg); err != nil {
			return err
		}
	}
	for _, code := range codes {
		if !svc.IsSupported(code) {
			return fmt.Errorf("unsupported country code %q", code)
		}
	}

	for _, h := range svc.Lookup(opts.year, codes) {
		if opts.month != 0 && h.Date.Month() != time.Month(opts.month) {
			continue
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n",
			h.Date.Format(holiday.DateLayout), h.Country, h.Name); err != nil {
			return err
		}
	}
	for _, gap := range svc.Gaps(opts.year, codes) {
		if _, err := fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s %s has no date for %d\n",
			gap.Country, gap.Name, gap.Year); err != nil {
			return err
		}
	}
	return nil
}

// storedCountries reads the holiday_countries setting.
func storedCountries(cmd *cobra.Command, cfg *conf.Settings) ([]string, error) {
	log := logger.Global().Module("")
	mgr, err := datastore.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	defer func() { _ = mgr.Close() }()

	svc := settings.NewService(datastore.NewStore(mgr.DB(), log), log)
	codes := svc.HolidayCountries(cmd.Context())
	if len(codes) == 0 {
		return nil, fmt.Errorf("no holiday countries configured")
	}
	return codes, nil
}
