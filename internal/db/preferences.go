package db

import (
	"context"
	"fmt"
	"time"

	"github.com/javiermolinar/kronos/internal/prefs"
)

// GetPreferences returns the stored preferences row.
func (s *SQLite) GetPreferences(ctx context.Context) (*prefs.Preferences, error) {
	var (
		p                    prefs.Preferences
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, start_of_day, end_of_day, default_block_duration, theme, created_at, updated_at
		FROM user_preferences
		WHERE id = ?`,
		prefs.DefaultID,
	).Scan(&p.ID, &p.StartOfDay, &p.EndOfDay, &p.DefaultBlockDuration, &p.Theme, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying preferences: %w", err)
	}

	err = parseTimeFields(
		timeField{name: "created at", dst: &p.CreatedAt, raw: createdAt},
		timeField{name: "updated at", dst: &p.UpdatedAt, raw: updatedAt},
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePreferences validates and stores p.
func (s *SQLite) UpdatePreferences(ctx context.Context, p *prefs.Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_preferences (id, start_of_day, end_of_day, default_block_duration, theme, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_of_day = excluded.start_of_day,
			end_of_day = excluded.end_of_day,
			default_block_duration = excluded.default_block_duration,
			theme = excluded.theme,
			updated_at = excluded.updated_at`,
		prefs.DefaultID, p.StartOfDay, p.EndOfDay, p.DefaultBlockDuration, p.Theme,
		formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("updating preferences: %w", err)
	}
	return nil
}
