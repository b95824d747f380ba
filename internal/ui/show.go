package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/kronos/internal/summary"
)

func (a *App) showCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the time blocks of a day",
		Long: `Display a day's time blocks with their todos, the scheduled total and
how it splits across categories.`,
		Example: `  kronos show
  kronos show --date=tomorrow`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runShow(cmd, date)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to show (YYYY-MM-DD, today, yesterday, -1, friday, last-friday...)")
	return cmd
}

func (a *App) runShow(cmd *cobra.Command, date string) error {
	if err := a.ensureRepo(); err != nil {
		return err
	}
	ctx := cmd.Context()

	day, err := a.parseDay(date)
	if err != nil {
		return err
	}
	ds, err := summary.BuildDaySummary(ctx, a.store, a.store, day)
	if err != nil {
		return fmt.Errorf("building day summary: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "=== %s ===\n\n", formatHeader(ds.Date.Format("Monday, January 2, 2006")))
	if len(ds.Blocks) == 0 {
		fmt.Fprintln(w, "No time blocks scheduled.")
		return nil
	}

	cats, err := a.loadCategories(ctx)
	if err != nil {
		return err
	}
	printDay(w, ds, cats, titleWidth(40))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total: %s in %d blocks\n", formatStats(ds.FormattedTotal()), len(ds.Blocks))
	printCategoryTotals(w, ds.CategoryMinutes, ds.TotalMinutes, cats)
	printMetrics(w, ds.Metrics)
	return nil
}

func printDay(w io.Writer, ds *summary.DaySummary, cats categoryIndex, maxTitle int) {
	todoIndent := strings.Repeat(" ", 2+idWidth+2)
	for _, bs := range ds.Blocks {
		printBlockRow(w, bs, cats, maxTitle)
		for _, t := range bs.Todos {
			printTodoRow(w, t, todoIndent)
		}
	}
}

func (a *App) weekCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show this week's time blocks",
		Long: `Display Monday through Sunday of the ISO week containing --date, with
per-day totals, category split and completion rates.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := cmd.Context()

			day, err := a.parseDay(date)
			if err != nil {
				return err
			}
			ws, err := summary.BuildWeekSummary(ctx, a.store, a.store, day)
			if err != nil {
				return fmt.Errorf("building week summary: %w", err)
			}

			w := cmd.OutOrStdout()
			header := fmt.Sprintf("WEEK: %s - %s", ws.Start.Format("Mon Jan 2"), ws.End.Format("Mon Jan 2, 2006"))
			fmt.Fprintf(w, "\n  %s\n", formatHeader(header))
			fmt.Fprintln(w, strings.Repeat("─", 74))

			if ws.BlockCount() == 0 {
				fmt.Fprintln(w, "No time blocks scheduled for this week.")
				return nil
			}

			cats, err := a.loadCategories(ctx)
			if err != nil {
				return err
			}
			maxTitle := titleWidth(30)
			for _, ds := range ws.Days {
				if len(ds.Blocks) == 0 {
					continue
				}
				fmt.Fprintf(w, "  %s  %s\n", formatHeader(ds.Date.Format("Mon Jan 2")), formatMuted(ds.FormattedTotal()))
				for _, bs := range ds.Blocks {
					printBlockRow(w, bs, cats, maxTitle)
				}
				fmt.Fprintln(w)
			}

			fmt.Fprintln(w, strings.Repeat("─", 74))
			fmt.Fprintf(w, "Total: %s in %d blocks\n", formatStats(ws.FormattedTotal()), ws.BlockCount())
			printCategoryTotals(w, ws.CategoryMinutes, ws.TotalMinutes, cats)
			printMetrics(w, ws.Metrics)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any day of the week to show (default: today)")
	return cmd
}
