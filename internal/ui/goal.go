package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/kronos/internal/dateutil"
	"github.com/javiermolinar/kronos/internal/db"
	"github.com/javiermolinar/kronos/internal/goal"
)

func (a *App) goalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage long-term goals",
	}

	var description, target string
	add := &cobra.Command{
		Use:     "add <title>",
		Short:   "Add a goal",
		Example: `  kronos goal add "Run a half marathon" --target=2025-10-01 --description="Sub 2 hours"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			g, err := goal.New(args[0], description, target)
			if err != nil {
				return err
			}
			if err := a.store.CreateGoal(cmd.Context(), g); err != nil {
				return fmt.Errorf("creating goal: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created goal %s: %s (target %s)\n",
				shortID(g.ID), g.Title, dateutil.FormatForDB(g.TargetDate))
			return nil
		},
	}
	add.Flags().StringVar(&description, "description", "", "What the goal is about")
	add.Flags().StringVar(&target, "target", "", "Target date (YYYY-MM-DD, default: today)")
	cmd.AddCommand(add)

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := cmd.Context()

			var filter goal.Status
			if status != "all" {
				st, err := goal.ParseStatus(status)
				if err != nil {
					return err
				}
				filter = st
			}
			goals, err := a.store.ListGoals(ctx, filter)
			if err != nil {
				return fmt.Errorf("listing goals: %w", err)
			}

			w := cmd.OutOrStdout()
			if len(goals) == 0 {
				fmt.Fprintln(w, "No goals found.")
				return nil
			}
			today := dateutil.TruncateToDay(a.now())
			for _, g := range goals {
				milestones, err := a.store.ListMilestones(ctx, g.ID)
				if err != nil {
					return fmt.Errorf("listing milestones: %w", err)
				}
				printGoalRow(w, g, milestones, today)
			}
			return nil
		},
	}
	list.Flags().StringVar(&status, "status", string(goal.StatusActive), "Filter: active, completed, abandoned or all")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a goal and its milestones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := a.resolve(ctx, db.TableGoals, args[0])
			if err != nil {
				return err
			}
			g, err := a.store.GetGoal(ctx, id)
			if err != nil {
				return err
			}
			milestones, err := a.store.ListMilestones(ctx, id)
			if err != nil {
				return fmt.Errorf("listing milestones: %w", err)
			}

			w := cmd.OutOrStdout()
			today := dateutil.TruncateToDay(a.now())
			printGoalRow(w, g, milestones, today)
			if g.Description != "" {
				wrapText(w, g.Description, "    ", termWidth()-6)
			}
			for _, m := range milestones {
				printMilestoneRow(w, m, today, "    ")
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "status <id> <status>",
		Short:   "Mark a goal active, completed or abandoned",
		Example: `  kronos goal status 9c1e completed`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := goal.ParseStatus(args[1])
			if err != nil {
				return err
			}
			id, err := a.resolve(ctx, db.TableGoals, args[0])
			if err != nil {
				return err
			}
			if err := a.store.SetGoalStatus(ctx, id, st); err != nil {
				return fmt.Errorf("updating goal: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Goal %s is now %s\n", shortID(id), st)
			return nil
		},
	})

	return cmd
}

func (a *App) milestoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestone",
		Short: "Manage the milestones of a goal",
	}

	var due string
	add := &cobra.Command{
		Use:   "add <goal-id> <title>",
		Short: "Add a milestone to a goal",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			goalID, err := a.resolve(ctx, db.TableGoals, args[0])
			if err != nil {
				return err
			}
			m, err := goal.NewMilestone(goalID, strings.Join(args[1:], " "), due)
			if err != nil {
				return err
			}
			if err := a.store.CreateMilestone(ctx, m); err != nil {
				return fmt.Errorf("creating milestone: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added milestone %s: %s (due %s)\n",
				shortID(m.ID), m.Title, dateutil.FormatForDB(m.DueDate))
			return nil
		},
	}
	add.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD, default: today)")
	cmd.AddCommand(add)

	for _, toggle := range []struct {
		use, short, verb string
		completed        bool
	}{
		{"done", "Mark a milestone as done", "Completed", true},
		{"undo", "Mark a milestone as not done", "Reopened", false},
	} {
		cmd.AddCommand(&cobra.Command{
			Use:   toggle.use + " <id>",
			Short: toggle.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				id, err := a.resolve(ctx, db.TableMilestones, args[0])
				if err != nil {
					return err
				}
				if err := a.store.SetMilestoneCompleted(ctx, id, toggle.completed); err != nil {
					return fmt.Errorf("updating milestone: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s milestone %s\n", toggle.verb, shortID(id))
				return nil
			},
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <goal-id>",
		Short: "List the milestones of a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			goalID, err := a.resolve(ctx, db.TableGoals, args[0])
			if err != nil {
				return err
			}
			milestones, err := a.store.ListMilestones(ctx, goalID)
			if err != nil {
				return fmt.Errorf("listing milestones: %w", err)
			}

			w := cmd.OutOrStdout()
			if len(milestones) == 0 {
				fmt.Fprintln(w, "No milestones.")
				return nil
			}
			today := dateutil.TruncateToDay(a.now())
			for _, m := range milestones {
				printMilestoneRow(w, m, today, "  ")
			}
			return nil
		},
	})

	return cmd
}

func printGoalRow(w io.Writer, g *goal.Goal, milestones []*goal.Milestone, today time.Time) {
	done := 0
	for _, m := range milestones {
		if m.Completed {
			done++
		}
	}
	line := fmt.Sprintf("  %s  %s  %s", formatMuted(shortID(g.ID)), formatHeader(g.Title),
		formatMuted("target "+dateutil.FormatForDB(g.TargetDate)))
	if len(milestones) > 0 {
		line += fmt.Sprintf("  %s %d/%d", ProgressBar(done, len(milestones), 10), done, len(milestones))
	}
	if !g.IsActive() {
		line += "  " + formatMuted(string(g.Status))
	} else if g.TargetDate.Before(today) {
		line += "  " + formatWarn("past target")
	}
	fmt.Fprintln(w, line)
}

func printMilestoneRow(w io.Writer, m *goal.Milestone, today time.Time, indent string) {
	due := "due " + dateutil.FormatForDB(m.DueDate)
	switch {
	case m.Completed:
		fmt.Fprintf(w, "%s%s ✓ %s  %s\n", indent, formatMuted(shortID(m.ID)), formatDone(m.Title), formatMuted(due))
	case m.IsOverdue(today):
		fmt.Fprintf(w, "%s%s ○ %s  %s\n", indent, formatMuted(shortID(m.ID)), m.Title, formatWarn(due+" (overdue)"))
	default:
		fmt.Fprintf(w, "%s%s ○ %s  %s\n", indent, formatMuted(shortID(m.ID)), m.Title, formatMuted(due))
	}
}
