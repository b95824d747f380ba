// Package summary aggregates time blocks into day and week views.
package summary

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/javiermolinar/kronos/internal/block"
	"github.com/javiermolinar/kronos/internal/dateutil"
	"github.com/javiermolinar/kronos/internal/duration"
	"github.com/javiermolinar/kronos/internal/goal"
)

// Uncategorized is the CategoryMinutes key for blocks without a category.
const Uncategorized = ""

// BlockSummary is a time block together with its todos.
type BlockSummary struct {
	Block *block.TimeBlock
	Todos []*block.Todo
}

// Done returns the number of completed todos.
func (b BlockSummary) Done() int {
	n := 0
	for _, t := range b.Todos {
		if t.Completed {
			n++
		}
	}
	return n
}

// DaySummary holds the blocks of one day and their totals.
type DaySummary struct {
	Date            time.Time
	Blocks          []BlockSummary
	TotalMinutes    int
	CategoryMinutes map[string]int // keyed by category ID
	Metrics         goal.Metrics
}

// FormattedTotal returns the scheduled time in canonical form, e.g. "6h 30m".
func (s *DaySummary) FormattedTotal() string {
	return duration.Format(s.TotalMinutes)
}

// SummarizeDay builds a day summary from blocks and their todos. Blocks from
// other days are ignored. Goals are not looked at, so Metrics.GoalsOnTrack
// is nil.
func SummarizeDay(date time.Time, blocks []*block.TimeBlock, todos map[string][]*block.Todo) *DaySummary {
	return summarizeDay(date, blocks, todos, goalProgress{})
}

func summarizeDay(date time.Time, blocks []*block.TimeBlock, todos map[string][]*block.Todo, gp goalProgress) *DaySummary {
	day := dateutil.TruncateToDay(date)
	key := dateutil.FormatForDB(day)

	var dayBlocks []*block.TimeBlock
	for _, b := range blocks {
		if b.DateKey() == key {
			dayBlocks = append(dayBlocks, b)
		}
	}
	sort.SliceStable(dayBlocks, func(i, j int) bool {
		return dayBlocks[i].Start.Before(dayBlocks[j].Start)
	})

	s := &DaySummary{
		Date:            day,
		CategoryMinutes: make(map[string]int),
	}
	for _, b := range dayBlocks {
		s.Blocks = append(s.Blocks, BlockSummary{Block: b, Todos: todos[b.ID]})
		s.TotalMinutes += b.DurationMinutes
		s.CategoryMinutes[categoryKey(b)] += b.DurationMinutes
	}
	s.Metrics = goal.ComputeMetrics(goal.MetricsInput{
		Blocks:     dayBlocks,
		Todos:      todos,
		Goals:      gp.goals,
		Milestones: gp.milestones,
		AsOf:       day,
	})
	return s
}

// BuildDaySummary loads the blocks and todos of date and summarizes them.
// Active goals count as on track when no milestone is overdue as of date.
func BuildDaySummary(ctx context.Context, repo block.Repository, goals goal.Repository, date time.Time) (*DaySummary, error) {
	day := dateutil.TruncateToDay(date)
	blocks, err := repo.ListBlocksByDateRange(ctx, day, day)
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
	return summarizeDay(day, blocks, todos, gp), nil
}

func loadTodos(ctx context.Context, repo block.Repository, blocks []*block.TimeBlock) (map[string][]*block.Todo, error) {
	todos := make(map[string][]*block.Todo, len(blocks))
	for _, b := range blocks {
		items, err := repo.ListTodosByBlock(ctx, b.ID)
		if err != nil {
			return nil, fmt.Errorf("fetching todos for block %s: %w", b.ID, err)
		}
		todos[b.ID] = items
	}
	return todos, nil
}

func categoryKey(b *block.TimeBlock) string {
	if b.CategoryID == nil {
		return Uncategorized
	}
	return *b.CategoryID
}
