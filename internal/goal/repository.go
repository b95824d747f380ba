package goal

import (
	"context"
	"time"
)

// Repository defines the storage interface for goals and check-ins.
type Repository interface {
	CreateGoal(ctx context.Context, g *Goal) error
	GetGoal(ctx context.Context, id string) (*Goal, error)
	// ListGoals returns goals ordered by target date. An empty status lists all.
	ListGoals(ctx context.Context, status Status) ([]*Goal, error)
	SetGoalStatus(ctx context.Context, id string, status Status) error

	// CreateMilestone appends a milestone to the end of its goal's list.
	CreateMilestone(ctx context.Context, m *Milestone) error
	SetMilestoneCompleted(ctx context.Context, id string, completed bool) error
	ListMilestones(ctx context.Context, goalID string) ([]*Milestone, error)

	CreateCheckIn(ctx context.Context, c *CheckIn) error
	// ListCheckIns returns check-ins created at or after since, newest first.
	ListCheckIns(ctx context.Context, since time.Time) ([]*CheckIn, error)
}
