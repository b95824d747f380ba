package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/kronos/internal/duration"
	"github.com/javiermolinar/kronos/internal/prefs"
)

func (a *App) prefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "View or change scheduling preferences",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			p, err := a.store.GetPreferences(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading preferences: %w", err)
			}
			printPrefs(cmd.OutOrStdout(), p)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a preference",
		Long: `Change a preference.

Keys:
  start_of_day             HH:MM
  end_of_day               HH:MM
  default_block_duration   any duration notation, e.g. 45m or 1.5
  theme                    light, dark or auto`,
		Example: `  kronos prefs set default_block_duration 1h 30m
  kronos prefs set start_of_day 08:00`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := cmd.Context()

			p, err := a.store.GetPreferences(ctx)
			if err != nil {
				return fmt.Errorf("loading preferences: %w", err)
			}
			if err := p.Set(args[0], strings.Join(args[1:], " ")); err != nil {
				return err
			}
			if err := a.store.UpdatePreferences(ctx, p); err != nil {
				return fmt.Errorf("saving preferences: %w", err)
			}
			printPrefs(cmd.OutOrStdout(), p)
			return nil
		},
	})

	return cmd
}

func printPrefs(w io.Writer, p *prefs.Preferences) {
	fmt.Fprintf(w, "  start_of_day           = %s\n", p.StartOfDay)
	fmt.Fprintf(w, "  end_of_day             = %s\n", p.EndOfDay)
	fmt.Fprintf(w, "  default_block_duration = %s\n", duration.Format(p.DefaultBlockDuration))
	fmt.Fprintf(w, "  theme                  = %s\n", p.Theme)
}
