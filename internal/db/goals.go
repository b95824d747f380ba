package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/kronos/internal/dateutil"
	"github.com/javiermolinar/kronos/internal/goal"
)

const goalColumns = `id, title, description, target_date, status, created_at, updated_at`

// CreateGoal adds a new goal.
func (s *SQLite) CreateGoal(ctx context.Context, g *goal.Goal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (`+goalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID,
		g.Title,
		g.Description,
		dateutil.FormatForDB(g.TargetDate),
		g.Status,
		formatTime(g.CreatedAt),
		formatTime(g.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting goal: %w", err)
	}
	return nil
}

// GetGoal retrieves a goal by ID.
func (s *SQLite) GetGoal(ctx context.Context, id string) (*goal.Goal, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: goal %s", goal.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying goal: %w", err)
	}
	return g, nil
}

// ListGoals returns goals ordered by target date. An empty status lists all.
func (s *SQLite) ListGoals(ctx context.Context, status goal.Status) ([]*goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY target_date, title`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []*goal.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating goals: %w", err)
	}
	return goals, nil
}

// SetGoalStatus changes the lifecycle state of a goal.
func (s *SQLite) SetGoalStatus(ctx context.Context, id string, status goal.Status) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE goals SET status = ?, updated_at = ? WHERE id = ?`,
		status, formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("updating goal status: %w", err)
	}
	return expectOne(result, goal.ErrNotFound, "goal", id)
}

func scanGoal(row scanner) (*goal.Goal, error) {
	var (
		g                    goal.Goal
		target               string
		createdAt, updatedAt string
	)
	err := row.Scan(&g.ID, &g.Title, &g.Description, &target, &g.Status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	err = parseTimeFields(
		timeField{name: "target date", dst: &g.TargetDate, raw: target, date: true},
		timeField{name: "created at", dst: &g.CreatedAt, raw: createdAt},
		timeField{name: "updated at", dst: &g.UpdatedAt, raw: updatedAt},
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

const milestoneColumns = `id, goal_id, title, completed, due_date, order_index, created_at, updated_at`

// CreateMilestone appends a milestone to its goal and sets m.Order.
func (s *SQLite) CreateMilestone(ctx context.Context, m *goal.Milestone) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var next int
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(order_index) + 1, 0) FROM milestones WHERE goal_id = ?`,
			m.GoalID,
		).Scan(&next)
		if err != nil {
			return fmt.Errorf("finding milestone position: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO milestones (`+milestoneColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID,
			m.GoalID,
			m.Title,
			boolToInt(m.Completed),
			dateutil.FormatForDB(m.DueDate),
			next,
			formatTime(m.CreatedAt),
			formatTime(m.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("inserting milestone: %w", err)
		}
		m.Order = next
		return nil
	})
}

// SetMilestoneCompleted marks a milestone done or not done.
func (s *SQLite) SetMilestoneCompleted(ctx context.Context, id string, completed bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE milestones SET completed = ?, updated_at = ? WHERE id = ?`,
		boolToInt(completed), formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("updating milestone: %w", err)
	}
	return expectOne(result, goal.ErrNotFound, "milestone", id)
}

// ListMilestones returns the milestones of a goal in list order.
func (s *SQLite) ListMilestones(ctx context.Context, goalID string) ([]*goal.Milestone, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+milestoneColumns+`
		FROM milestones
		WHERE goal_id = ?
		ORDER BY order_index, created_at`,
		goalID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying milestones: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var milestones []*goal.Milestone
	for rows.Next() {
		var (
			m                         goal.Milestone
			completed                 int
			due, createdAt, updatedAt string
		)
		err := rows.Scan(&m.ID, &m.GoalID, &m.Title, &completed, &due, &m.Order, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning milestone: %w", err)
		}
		m.Completed = completed == 1
		err = parseTimeFields(
			timeField{name: "due date", dst: &m.DueDate, raw: due, date: true},
			timeField{name: "created at", dst: &m.CreatedAt, raw: createdAt},
			timeField{name: "updated at", dst: &m.UpdatedAt, raw: updatedAt},
		)
		if err != nil {
			return nil, err
		}
		milestones = append(milestones, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating milestones: %w", err)
	}
	return milestones, nil
}
