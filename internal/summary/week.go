package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/javiermolinar/kronos/internal/block"
	"github.com/javiermolinar/kronos/internal/dateutil"
	"github.com/javiermolinar/kronos/internal/duration"
	"github.com/javiermolinar/kronos/internal/goal"
)

// WeekSummary holds the seven days of an ISO week, Monday first.
type WeekSummary struct {
	Start           time.Time
	End             time.Time
	Days            []*DaySummary
	TotalMinutes    int
	CategoryMinutes map[string]int
	Metrics         goal.Metrics
}

// FormattedTotal returns the scheduled time for the week in canonical form.
func (w *WeekSummary) FormattedTotal() string {
	return duration.Format(w.TotalMinutes)
}

// BlockCount returns the number of blocks in the week.
func (w *WeekSummary) BlockCount() int {
	n := 0
	for _, d := range w.Days {
		n += len(d.Blocks)
	}
	return n
}

// SummarizeWeek builds a summary of the week containing weekStart, without
// goal progress.
func SummarizeWeek(weekStart time.Time, blocks []*block.TimeBlock, todos map[string][]*block.Todo) *WeekSummary {
	return summarizeWeek(weekStart, blocks, todos, goalProgress{})
}

func summarizeWeek(weekStart time.Time, blocks []*block.TimeBlock, todos map[string][]*block.Todo, gp goalProgress) *WeekSummary {
	start, end := dateutil.WeekRange(weekStart)

	w := &WeekSummary{
		Start:           start,
		End:             end,
		CategoryMinutes: make(map[string]int),
	}
	var weekBlocks []*block.TimeBlock
	for day := start; !day.After(end); day = dateutil.NextDay(day) {
		ds := summarizeDay(day, blocks, todos, gp)
		w.Days = append(w.Days, ds)
		w.TotalMinutes += ds.TotalMinutes
		for id, minutes := range ds.CategoryMinutes {
			w.CategoryMinutes[id] += minutes
		}
		for _, bs := range ds.Blocks {
			weekBlocks = append(weekBlocks, bs.Block)
		}
	}
	w.Metrics = goal.ComputeMetrics(goal.MetricsInput{
		Blocks:     weekBlocks,
		Todos:      todos,
		Goals:      gp.goals,
		Milestones: gp.milestones,
		AsOf:       end,
	})
	return w
}

// BuildWeekSummary loads the week containing weekStart and summarizes it.
// A zero weekStart means the current week. Goal progress is judged as of
// the week's Sunday.
func BuildWeekSummary(ctx context.Context, repo block.Repository, goals goal.Repository, weekStart time.Time) (*WeekSummary, error) {
	if weekStart.IsZero() {
		weekStart = time.Now()
	}

	start, end := dateutil.WeekRange(weekStart)
	blocks, err := repo.ListBlocksByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching blocks: %w", err)
	}
	todos, err := loadTodos(ctx, repo, blocks)
	if err != nil {
		return nil, err
	}
	gp, err := loadGoalProgress(ctx, goals)
	if err != nil {
		return nil, err
	}
	return summarizeWeek(start, blocks, todos, gp), nil
}
