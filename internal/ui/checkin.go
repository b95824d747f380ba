package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/kronos/internal/dateutil"
	"github.com/javiermolinar/kronos/internal/db"
	"github.com/javiermolinar/kronos/internal/goal"
	"github.com/javiermolinar/kronos/internal/summary"
)

func (a *App) checkinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Record and review progress check-ins",
	}

	cmd.AddCommand(a.checkinAddCmd())
	cmd.AddCommand(a.checkinListCmd())
	return cmd
}

func (a *App) checkinAddCmd() *cobra.Command {
	var (
		goalRef    string
		sentiment  string
		response   string
		screentime float64
		days       int
	)

	cmd := &cobra.Command{
		Use:   "add <message>",
		Short: "Record a check-in with metrics from recent days",
		Long: `Record how things are going. Completion rates for todos and time
blocks over the last --days days, and how many active goals are on track,
are stored with the check-in.`,
		Example: `  kronos checkin add "Skipped the gym twice" --sentiment=confrontational --screentime=4.5
  kronos checkin add "Chapter 3 drafted" --goal=9c1e --days=14`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return errors.New("--days must be at least 1")
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := cmd.Context()

			in := goal.CheckInInput{
				Message:   strings.Join(args, " "),
				Response:  response,
				Sentiment: sentiment,
			}
			if goalRef != "" {
				id, err := a.resolve(ctx, db.TableGoals, goalRef)
				if err != nil {
					return err
				}
				in.GoalID = &id
			}
			if cmd.Flags().Changed("screentime") {
				in.ScreentimeHours = &screentime
			}

			today := dateutil.TruncateToDay(a.now())
			from := today.AddDate(0, 0, -(days - 1))
			metrics, err := summary.BuildRangeMetrics(ctx, a.store, a.store, from, today, today)
			if err != nil {
				return fmt.Errorf("computing metrics: %w", err)
			}

			c, err := goal.NewCheckIn(in, metrics)
			if err != nil {
				return err
			}
			if err := a.store.CreateCheckIn(ctx, c); err != nil {
				return fmt.Errorf("saving check-in: %w", err)
			}
			a.logger.Debug("saved check-in", "id", c.ID, "days", days, "sentiment", c.Sentiment)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Recorded check-in %s (%s)\n", shortID(c.ID), c.Sentiment)
			fmt.Fprintf(w, "Last %d days: ", days)
			printMetrics(w, c.Metrics)
			return nil
		},
	}

	cmd.Flags().StringVar(&goalRef, "goal", "", "Goal ID the check-in is about (default: general)")
	cmd.Flags().StringVar(&sentiment, "sentiment", "", "positive, neutral or confrontational (default: neutral)")
	cmd.Flags().StringVar(&response, "response", "", "Coach response to store with the check-in")
	cmd.Flags().Float64Var(&screentime, "screentime", 0, "Screen time in hours")
	cmd.Flags().IntVar(&days, "days", 7, "Number of days the metrics cover")

	return cmd
}

func (a *App) checkinListCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent check-ins, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := cmd.Context()

			var since time.Time
			if days > 0 {
				since = dateutil.TruncateToDay(a.now()).AddDate(0, 0, -(days - 1))
			}
			checkIns, err := a.store.ListCheckIns(ctx, since)
			if err != nil {
				return fmt.Errorf("listing check-ins: %w", err)
			}

			w := cmd.OutOrStdout()
			if len(checkIns) == 0 {
				fmt.Fprintln(w, "No check-ins found.")
				return nil
			}

			goals := make(map[string]string)
			width := termWidth() - 6
			for i, c := range checkIns {
				if i > 0 {
					fmt.Fprintln(w)
				}
				about := "general"
				if c.GoalID != nil {
					title, ok := goals[*c.GoalID]
					if !ok {
						title = shortID(*c.GoalID)
						if g, err := a.store.GetGoal(ctx, *c.GoalID); err == nil {
							title = g.Title
						}
						goals[*c.GoalID] = title
					}
					about = title
				}

				header := fmt.Sprintf("%s  %s  %s", formatMuted(shortID(c.ID)),
					formatHeader(c.CreatedAt.Local().Format("Mon Jan 2 15:04")), about)
				if c.Confrontational {
					header += "  " + formatWarn(string(c.Sentiment))
				} else {
					header += "  " + formatMuted(string(c.Sentiment))
				}
				fmt.Fprintln(w, header)
				wrapText(w, c.UserMessage, "    > ", width)
				if c.AIResponse != "" {
					wrapText(w, c.AIResponse, "    ", width)
				}
				fmt.Fprint(w, "    ")
				printMetrics(w, c.Metrics)
				if c.ScreentimeHours != nil {
					fmt.Fprintf(w, "    Screen time: %.1fh\n", *c.ScreentimeHours)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "Only show check-ins from the last N days (0 for all)")
	return cmd
}
