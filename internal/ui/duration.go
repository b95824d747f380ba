package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/kronos/internal/duration"
)

func (a *App) durationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duration",
		Short: "Parse and format durations",
		Long: `Convert between human duration notations and minutes.

Accepted notations, first match wins:
  90        whole number of minutes
  1.5       decimal hours, rounded to the nearest minute
  90m       minutes with an "m" suffix
  1h 30m    hours and minutes
  2h        hours
  1:30      hours:minutes`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "parse <text>",
		Short:   "Convert a duration to minutes",
		Example: "  kronos duration parse 1h 30m\n  kronos duration parse 1.25",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			minutes, ok := duration.Normalize(text)
			if !ok {
				return duration.ErrUnrecognized
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%d minutes (%s)\n", minutes, duration.Format(minutes))
			if !duration.Validate(minutes) {
				fmt.Fprintln(w, formatWarn("note: time blocks must be between 1m and 24h"))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "format <minutes>",
		Short: "Render minutes in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("minutes must be a whole number, got %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), duration.Format(minutes))
			return nil
		},
	})

	return cmd
}
