package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/kronos/internal/block"
	"github.com/javiermolinar/kronos/internal/dateutil"
)

const blockColumns = `id, title, category_id, start_time, end_time, duration_minutes, date, created_at, updated_at`

// CreateBlock adds a new time block.
// Returns block.ErrTimeBlockOverlap if the block overlaps an existing one.
func (s *SQLite) CreateBlock(ctx context.Context, b *block.TimeBlock) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkOverlap(ctx, tx, b); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO timeblocks (`+blockColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID,
			b.Title,
			nullString(b.CategoryID),
			formatTime(b.Start),
			formatTime(b.End),
			b.DurationMinutes,
			b.DateKey(),
			formatTime(b.CreatedAt),
			formatTime(b.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("inserting time block: %w", err)
		}
		return nil
	})
}

// GetBlock retrieves a time block by ID.
func (s *SQLite) GetBlock(ctx context.Context, id string) (*block.TimeBlock, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+blockColumns+` FROM timeblocks WHERE id = ?`, id)
	b, err := scanBlock(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: time block %s", block.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying time block: %w", err)
	}
	return b, nil
}

// UpdateBlock stores the title, category, times and duration of b.
// Returns block.ErrTimeBlockOverlap if the new times conflict with another block.
func (s *SQLite) UpdateBlock(ctx context.Context, b *block.TimeBlock) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkOverlap(ctx, tx, b); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE timeblocks
			SET title = ?, category_id = ?, start_time = ?, end_time = ?,
			    duration_minutes = ?, date = ?, updated_at = ?
			WHERE id = ?`,
			b.Title,
			nullString(b.CategoryID),
			formatTime(b.Start),
			formatTime(b.End),
			b.DurationMinutes,
			b.DateKey(),
			formatTime(time.Now()),
			b.ID,
		)
		if err != nil {
			return fmt.Errorf("updating time block: %w", err)
		}
		return expectOne(result, block.ErrNotFound, "time block", b.ID)
	})
}

// DeleteBlock removes a time block. Its todos are removed by the cascade.
func (s *SQLite) DeleteBlock(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM timeblocks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting time block: %w", err)
	}
	return expectOne(result, block.ErrNotFound, "time block", id)
}

// ListBlocksByDateRange returns all blocks whose day is within the range (inclusive).
func (s *SQLite) ListBlocksByDateRange(ctx context.Context, start, end time.Time) ([]*block.TimeBlock, error) {
	return listBlocks(ctx, s.db, dateutil.FormatForDB(start), dateutil.FormatForDB(end))
}

// ListAllBlocks returns every stored block ordered by day and start time.
func (s *SQLite) ListAllBlocks(ctx context.Context) ([]*block.TimeBlock, error) {
	return listBlocks(ctx, s.db, "0000-01-01", "9999-12-31")
}

func listBlocks(ctx context.Context, q querier, startKey, endKey string) ([]*block.TimeBlock, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+blockColumns+`
		FROM timeblocks
		WHERE date >= ? AND date <= ?
		ORDER BY date, start_time`,
		startKey, endKey,
	)
	if err != nil {
		return nil, fmt.Errorf("querying time blocks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var blocks []*block.TimeBlock
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning time block: %w", err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating time blocks: %w", err)
	}
	return blocks, nil
}

func scanBlock(row scanner) (*block.TimeBlock, error) {
	var (
		b                    block.TimeBlock
		categoryID           sql.NullString
		start, end, date     string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&b.ID,
		&b.Title,
		&categoryID,
		&start,
		&end,
		&b.DurationMinutes,
		&date,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CategoryID = stringPtr(categoryID)
	err = parseTimeFields(
		timeField{name: "start time", dst: &b.Start, raw: start},
		timeField{name: "end time", dst: &b.End, raw: end},
		timeField{name: "date", dst: &b.Date, raw: date, date: true},
		timeField{name: "created at", dst: &b.CreatedAt, raw: createdAt},
		timeField{name: "updated at", dst: &b.UpdatedAt, raw: updatedAt},
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// checkOverlap rejects b if it shares time with another block. A block may
// be up to a day long, so neighbours on the adjacent days are checked too.
func checkOverlap(ctx context.Context, q querier, b *block.TimeBlock) error {
	neighbours, err := listBlocks(ctx, q,
		dateutil.FormatForDB(dateutil.PreviousDay(b.Date)),
		dateutil.FormatForDB(dateutil.NextDay(b.Date)),
	)
	if err != nil {
		return fmt.Errorf("checking overlap: %w", err)
	}

	for _, other := range neighbours {
		if b.OverlapsWith(other) {
			return fmt.Errorf("%w: conflicts with %q on %s (%s-%s, %dm shared)",
				block.ErrTimeBlockOverlap, other.Title, other.DateKey(),
				other.StartClock(), other.EndClock(), block.OverlapMinutes(b, other))
		}
	}
	return nil
}
