package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/javiermolinar/kronos/internal/goal"
)

// checkInTimeLayout is fixed width so created_at sorts and compares as text.
const checkInTimeLayout = "2006-01-02T15:04:05.000000000Z"

// CreateCheckIn stores a check-in. created_at is written in UTC so range
// queries can compare it as text.
func (s *SQLite) CreateCheckIn(ctx context.Context, c *goal.CheckIn) error {
	var onTrack sql.NullInt64
	if c.GoalsOnTrack != nil {
		onTrack = sql.NullInt64{Int64: int64(*c.GoalsOnTrack), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO check_ins (
			id, goal_id, user_message, ai_response, confrontational, sentiment,
			screentime_hours, timeblock_completion_rate, todo_completion_rate,
			goals_on_track, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		nullString(c.GoalID),
		c.UserMessage,
		c.AIResponse,
		boolToInt(c.Confrontational),
		c.Sentiment,
		nullFloat(c.ScreentimeHours),
		nullFloat(c.TimeblockCompletionRate),
		nullFloat(c.TodoCompletionRate),
		onTrack,
		c.CreatedAt.UTC().Format(checkInTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting check-in: %w", err)
	}
	return nil
}

// ListCheckIns returns check-ins created at or after since, newest first.
func (s *SQLite) ListCheckIns(ctx context.Context, since time.Time) ([]*goal.CheckIn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, goal_id, user_message, ai_response, confrontational, sentiment,
		       screentime_hours, timeblock_completion_rate, todo_completion_rate,
		       goals_on_track, created_at
		FROM check_ins
		WHERE created_at >= ?
		ORDER BY created_at DESC, rowid DESC`,
		since.UTC().Format(checkInTimeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("querying check-ins: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var checkIns []*goal.CheckIn
	for rows.Next() {
		var (
			c                     goal.CheckIn
			goalID                sql.NullString
			confrontational       int
			screentime, blockRate sql.NullFloat64
			todoRate              sql.NullFloat64
			onTrack               sql.NullInt64
			createdAt             string
		)
		err := rows.Scan(
			&c.ID,
			&goalID,
			&c.UserMessage,
			&c.AIResponse,
			&confrontational,
			&c.Sentiment,
			&screentime,
			&blockRate,
			&todoRate,
			&onTrack,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning check-in: %w", err)
		}

		c.GoalID = stringPtr(goalID)
		c.Confrontational = confrontational == 1
		c.ScreentimeHours = floatPtr(screentime)
		c.TimeblockCompletionRate = floatPtr(blockRate)
		c.TodoCompletionRate = floatPtr(todoRate)
		if onTrack.Valid {
			n := int(onTrack.Int64)
			c.GoalsOnTrack = &n
		}
		if c.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("parsing created at: %w", err)
		}
		checkIns = append(checkIns, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating check-ins: %w", err)
	}
	return checkIns, nil
}
