// Package settings implements the settings command for inspecting and
// changing stored application settings.
package settings

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tphakala/calendar-go/internal/conf"
	"github.com/tphakala/calendar-go/internal/datastore"
	"github.com/tphakala/calendar-go/internal/logger"
	"github.com/tphakala/calendar-go/internal/settings"
)

// Command creates the settings command and its subcommands.
func Command(cfg *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change stored settings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Print every known setting with its effective value",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withService(cfg, func(svc *settings.Service) error {
					return printAll(cmd, svc)
				})
			},
		},
		&cobra.Command{
			Use:   "get KEY",
			Short: "Print the effective value of a setting",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withService(cfg, func(svc *settings.Service) error {
					value, ok := svc.Resolve(cmd.Context(), args[0])
					if !ok {
						return fmt.Errorf("setting %q not found", args[0])
					}
					_, err := fmt.Fprintln(cmd.OutOrStdout(), value)
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "set KEY VALUE",
			Short: "Store a setting",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				key, value := args[0], args[1]
				if key == settings.KeyHolidayCountries {
					value = strings.Join(settings.NormalizeCountries(strings.Split(value, ",")), ",")
				}
				if err := settings.Validate(key, value); err != nil {
					return err
				}
				return withService(cfg, func(svc *settings.Service) error {
					if !svc.Set(cmd.Context(), key, value) {
						return fmt.Errorf("failed to save setting %q", key)
					}
					_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key, value)
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Restore every setting to its default",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withService(cfg, func(svc *settings.Service) error {
					if !svc.ResetToDefaults(cmd.Context()) {
						return fmt.Errorf("failed to reset settings")
					}
					return printAll(cmd, svc)
				})
			},
		},
	)

	return cmd
}

// withService opens the configured database for the duration of fn.
func withService(cfg *conf.Settings, fn func(*settings.Service) error) error {
	log := logger.Global().Module("")
	mgr, err := datastore.Open(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = mgr.Close() }()

	return fn(settings.NewService(datastore.NewStore(mgr.DB(), log), log))
}

func printAll(cmd *cobra.Command, svc *settings.Service) error {
	return writeSorted(cmd.OutOrStdout(), svc.GetAll(cmd.Context()))
}

func writeSorted(w io.Writer, values map[string]string) error {
	for _, key := range slices.Sorted(maps.Keys(values)) {
		if _, err := fmt.Fprintf(w, "%s=%s\n", key, values[key]); err != nil {
			return err
		}
	}
	return nil
}
