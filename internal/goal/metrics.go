package goal

import (
	"time"

	"github.com/javiermolinar/kronos/internal/block"
)

// Metrics summarizes recent progress. A nil rate means there was nothing to
// measure.
type Metrics struct {
	TimeblockCompletionRate *float64
	TodoCompletionRate      *float64
	GoalsOnTrack            *int
}

// MetricsInput is the data a Metrics computation looks at.
type MetricsInput struct {
	Blocks     []*block.TimeBlock
	Todos      map[string][]*block.Todo // keyed by time block ID
	Goals      []*Goal
	Milestones map[string][]*Milestone // keyed by goal ID
	AsOf       time.Time
}

// ComputeMetrics derives completion rates and goal health.
//
// A time block is complete when it has at least one todo and all of them are
// done; blocks without todos are left out of the rate. An active goal is on
// track when none of its milestones is overdue as of in.AsOf.
func ComputeMetrics(in MetricsInput) Metrics {
	var m Metrics

	var todos, done, measured, complete int
	for _, b := range in.Blocks {
		items := in.Todos[b.ID]
		if len(items) == 0 {
			continue
		}
		measured++
		allDone := true
		for _, t := range items {
			todos++
			if t.Completed {
				done++
			} else {
				allDone = false
			}
		}
		if allDone {
			complete++
		}
	}
	m.TodoCompletionRate = ratio(done, todos)
	m.TimeblockCompletionRate = ratio(complete, measured)

	var active, onTrack int
	for _, g := range in.Goals {
		if !g.IsActive() {
			continue
		}
		active++
		if !anyOverdue(in.Milestones[g.ID], in.AsOf) {
			onTrack++
		}
	}
	if active > 0 {
		m.GoalsOnTrack = &onTrack
	}

	return m
}

func anyOverdue(milestones []*Milestone, asOf time.Time) bool {
	for _, ms := range milestones {
		if ms.IsOverdue(asOf) {
			return true
		}
	}
	return false
}

func ratio(n, d int) *float64 {
	if d == 0 {
		return nil
	}
	r := float64(n) / float64(d)
	return &r
}
