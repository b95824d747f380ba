package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/kronos/internal/block"
	"github.com/javiermolinar/kronos/internal/dateutil"
	"github.com/javiermolinar/kronos/internal/db"
	"github.com/javiermolinar/kronos/internal/duration"
	"github.com/javiermolinar/kronos/internal/prefs"
	"github.com/javiermolinar/kronos/internal/scheduler"
	"github.com/javiermolinar/kronos/internal/summary"
)

func (a *App) blockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "block",
		Aliases: []string{"b"},
		Short:   "Manage time blocks",
	}

	cmd.AddCommand(a.blockAddCmd())
	cmd.AddCommand(a.blockListCmd())
	cmd.AddCommand(a.blockDeleteCmd())
	cmd.AddCommand(a.blockResizeCmd())
	cmd.AddCommand(a.blockMoveCmd())
	cmd.AddCommand(a.blockRenameCmd())
	return cmd
}

func (a *App) blockAddCmd() *cobra.Command {
	var (
		date     string
		start    string
		length   string
		category string
		next     bool
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Schedule a new time block",
		Long: `Schedule a new time block.

Without --start the block begins now, rounded to the configured snap grid.
With --next it goes into the first free slot of the day that is long enough.
Without --duration the default block duration from preferences is used.`,
		Example: `  kronos block add "Write report" --start=09:00 --duration="1h 30m" --category=work
  kronos block add "Standup" --date=2025-01-16 --start=10:00 --duration=15
  kronos block add "Review" --next --duration=45m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := cmd.Context()

			p, err := a.store.GetPreferences(ctx)
			if err != nil {
				return fmt.Errorf("loading preferences: %w", err)
			}
			if length == "" {
				length = duration.Format(p.DefaultBlockDuration)
			}
			day, err := a.parseDay(date)
			if err != nil {
				return err
			}
			switch {
			case next:
				start, err = a.nextFreeStart(ctx, p, day, length)
				if err != nil {
					return err
				}
			case start == "":
				start = defaultStart(a.now(), a.config.Schedule.SnapMinutes).Format(block.ClockLayout)
			}

			b, err := block.New(args[0], dateutil.FormatForDB(day), start, length)
			if err != nil {
				return err
			}
			if category != "" {
				id, err := a.findCategory(ctx, category)
				if err != nil {
					return err
				}
				b.CategoryID = &id
			}

			if err := a.store.CreateBlock(ctx, b); err != nil {
				return fmt.Errorf("creating block: %w", err)
			}
			a.logger.Debug("created block", "id", b.ID, "date", b.DateKey(), "minutes", b.DurationMinutes)

			w := cmd.OutOrStdout()
			printBlockCreated(w, "Created", b)
			if !p.WithinDay(b) {
				fmt.Fprintln(w, formatWarn(fmt.Sprintf("note: block falls outside your day (%s-%s)", p.StartOfDay, p.EndOfDay)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, today, tomorrow, monday..., default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, default: now)")
	cmd.Flags().StringVar(&length, "duration", "", "Duration, e.g. 90, 1.5, 1h 30m (default from preferences)")
	cmd.Flags().StringVar(&category, "category", "", "Category name or ID")
	cmd.Flags().BoolVar(&next, "next", false, "Start in the first free slot of the day")
	cmd.MarkFlagsMutuallyExclusive("start", "next")

	return cmd
}

// nextFreeStart finds where a block of the given length fits on day, within
// the preferred day bounds and never earlier than now.
func (a *App) nextFreeStart(ctx context.Context, p *prefs.Preferences, day time.Time, length string) (string, error) {
	minutes, err := duration.Parse(length)
	if err != nil {
		return "", err
	}
	sched, err := scheduler.FromPreferences(p, a.config.Schedule.SnapMinutes)
	if err != nil {
		return "", err
	}
	blocks, err := a.store.ListBlocksByDateRange(ctx, dateutil.PreviousDay(day), day)
	if err != nil {
		return "", fmt.Errorf("listing blocks: %w", err)
	}
	start, err := sched.NextStart(day, blocks, minutes, a.now())
	if err != nil {
		return "", err
	}
	a.logger.Debug("found free slot", "date", dateutil.FormatForDB(day), "start", start)
	return start, nil
}

func (a *App) blockListCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List time blocks in a date range",
		Long: `List all time blocks scheduled within a date range.

If no dates are specified, lists today's blocks.
If only --start is specified, lists blocks for that single day.
If both --start and --end are specified, lists blocks in that range (inclusive).`,
		Example: `  kronos block list
  kronos block list --start=2025-01-15 --end=2025-01-20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := cmd.Context()

			dateRange, err := dateutil.NewDateRange(startDate, endDate)
			if err != nil {
				return err
			}
			a.logger.Debug("listing blocks", "start", dateutil.FormatForDB(dateRange.Start), "days", dateRange.Days())
			blocks, err := a.store.ListBlocksByDateRange(ctx, dateRange.Start, dateRange.End)
			if err != nil {
				return fmt.Errorf("listing blocks: %w", err)
			}

			w := cmd.OutOrStdout()
			if len(blocks) == 0 {
				fmt.Fprintln(w, "No time blocks found in the specified date range.")
				return nil
			}

			cats, err := a.loadCategories(ctx)
			if err != nil {
				return err
			}
			maxTitle := titleWidth(30)

			var currentDate string
			for _, b := range blocks {
				if key := b.DateKey(); key != currentDate {
					if currentDate != "" {
						fmt.Fprintln(w)
					}
					fmt.Fprintf(w, "=== %s ===\n", formatHeader(dateutil.FormatForDisplay(b.Date)))
					currentDate = key
				}
				todos, err := a.store.ListTodosByBlock(ctx, b.ID)
				if err != nil {
					return fmt.Errorf("listing todos: %w", err)
				}
				printBlockRow(w, summary.BlockSummary{Block: b, Todos: todos}, cats, maxTitle)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD, defaults to start date)")

	return cmd
}

func (a *App) blockDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a time block and its todos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := a.findBlock(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.store.DeleteBlock(ctx, b.ID); err != nil {
				return fmt.Errorf("deleting block: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted block %s: %s\n", shortID(b.ID), b.Title)
			return nil
		},
	}
}

func (a *App) blockResizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "resize <id> <duration>",
		Short:   "Change how long a time block lasts",
		Example: `  kronos block resize 3f2a 1h 45m`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := a.findBlock(ctx, args[0])
			if err != nil {
				return err
			}
			minutes, err := duration.Parse(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if err := b.Resize(minutes); err != nil {
				return err
			}
			if err := a.store.UpdateBlock(ctx, b); err != nil {
				return fmt.Errorf("resizing block: %w", err)
			}
			printBlockCreated(cmd.OutOrStdout(), "Resized", b)
			return nil
		},
	}
}

func (a *App) blockMoveCmd() *cobra.Command {
	var (
		date  string
		start string
	)

	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Move a time block to a new date/time",
		Long: `Move a time block to a new start time, keeping its duration.

The block keeps its day unless --date is given.`,
		Example: `  kronos block move 3f2a --start=14:00
  kronos block move 3f2a --date=tomorrow --start=09:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := a.findBlock(ctx, args[0])
			if err != nil {
				return err
			}
			var dateKey string
			if date != "" {
				day, err := a.parseDay(date)
				if err != nil {
					return err
				}
				dateKey = dateutil.FormatForDB(day)
			}
			if err := b.Move(dateKey, start); err != nil {
				return err
			}
			if err := a.store.UpdateBlock(ctx, b); err != nil {
				return fmt.Errorf("moving block: %w", err)
			}
			printBlockCreated(cmd.OutOrStdout(), "Moved", b)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "New date (YYYY-MM-DD, today, tomorrow, monday...)")
	cmd.Flags().StringVar(&start, "start", "", "New start time (HH:MM, required)")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func (a *App) blockRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Change the title of a time block",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := a.findBlock(ctx, args[0])
			if err != nil {
				return err
			}
			if err := b.Rename(args[1]); err != nil {
				return err
			}
			if err := a.store.UpdateBlock(ctx, b); err != nil {
				return fmt.Errorf("renaming block: %w", err)
			}
			printBlockCreated(cmd.OutOrStdout(), "Renamed", b)
			return nil
		},
	}
}

// parseDay accepts YYYY-MM-DD, past days included, as well as the relative
// forms understood by dateutil.ParseRelativeDate. Empty means today.
func (a *App) parseDay(s string) (time.Time, error) {
	return dateutil.ParseRelativeDate(s, a.now())
}

// defaultStart is now rounded to the snap grid. Rounding never crosses
// midnight: from 23:53 on a 15 minute grid it gives 23:45, not 00:00.
func defaultStart(now time.Time, snap int) time.Time {
	snapped := dateutil.SnapToInterval(now, snap)
	if dateutil.TruncateToDay(snapped).After(dateutil.TruncateToDay(now)) {
		snapped = snapped.Add(-time.Duration(snap) * time.Minute)
	}
	return snapped
}

// findBlock loads the block whose ID starts with prefix.
func (a *App) findBlock(ctx context.Context, prefix string) (*block.TimeBlock, error) {
	id, err := a.resolve(ctx, db.TableBlocks, prefix)
	if err != nil {
		return nil, err
	}
	return a.store.GetBlock(ctx, id)
}

func printBlockCreated(w io.Writer, verb string, b *block.TimeBlock) {
	fmt.Fprintf(w, "%s block %s: %s %s %s-%s (%s)\n",
		verb,
		shortID(b.ID),
		b.Title,
		b.DateKey(),
		b.StartClock(),
		b.EndClock(),
		b.FormattedDuration(),
	)
}
