package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/javiermolinar/kronos/internal/block"
	"github.com/javiermolinar/kronos/internal/dateutil"
	"github.com/javiermolinar/kronos/internal/goal"
)

// BuildRangeMetrics computes progress metrics over the blocks between start
// and end (inclusive) and the goals held in goals. Milestones are judged
// overdue as of asOf.
func BuildRangeMetrics(ctx context.Context, blocks block.Repository, goals goal.Repository, start, end, asOf time.Time) (goal.Metrics, error) {
	start, end = dateutil.TruncateToDay(start), dateutil.TruncateToDay(end)
	if end.Before(start) {
		return goal.Metrics{}, fmt.Errorf("end date %s is before start date %s",
			dateutil.FormatForDB(end), dateutil.FormatForDB(start))
	}

	rangeBlocks, err := blocks.ListBlocksByDateRange(ctx, start, end)
	if err != nil {
		return goal.Metrics{}, fmt.Errorf("fetching blocks: %w", err)
	}
	todos, err := loadTodos(ctx, blocks, rangeBlocks)
	if err != nil {
		return goal.Metrics{}, err
	}

	gp, err := loadGoalProgress(ctx, goals)
	if err != nil {
		return goal.Metrics{}, err
	}

	return goal.ComputeMetrics(goal.MetricsInput{
		Blocks:     rangeBlocks,
		Todos:      todos,
		Goals:      gp.goals,
		Milestones: gp.milestones,
		AsOf:       asOf,
	}), nil
}

// goalProgress holds the active goals and their milestones.
type goalProgress struct {
	goals      []*goal.Goal
	milestones map[string][]*goal.Milestone // keyed by goal ID
}

func loadGoalProgress(ctx context.Context, goals goal.Repository) (goalProgress, error) {
	active, err := goals.ListGoals(ctx, goal.StatusActive)
	if err != nil {
		return goalProgress{}, fmt.Errorf("fetching goals: %w", err)
	}
	gp := goalProgress{
		goals:      active,
		milestones: make(map[string][]*goal.Milestone, len(active)),
	}
	for _, g := range active {
		ms, err := goals.ListMilestones(ctx, g.ID)
		if err != nil {
			return goalProgress{}, fmt.Errorf("fetching milestones for goal %s: %w", g.ID, err)
		}
		gp.milestones[g.ID] = ms
	}
	return gp, nil
}
