package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/kronos/internal/block"
)

const todoColumns = `id, text, completed, timeblock_id, category_id, order_index, created_at, updated_at`

// CreateTodo appends a todo to the end of its block's list and sets t.Order.
func (s *SQLite) CreateTodo(ctx context.Context, t *block.Todo) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var next int
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(order_index) + 1, 0) FROM todos WHERE timeblock_id = ?`,
			t.TimeBlockID,
		).Scan(&next)
		if err != nil {
			return fmt.Errorf("finding todo position: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO todos (`+todoColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID,
			t.Text,
			boolToInt(t.Completed),
			t.TimeBlockID,
			nullString(t.CategoryID),
			next,
			formatTime(t.CreatedAt),
			formatTime(t.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("inserting todo: %w", err)
		}
		t.Order = next
		return nil
	})
}

// GetTodo retrieves a todo by ID.
func (s *SQLite) GetTodo(ctx context.Context, id string) (*block.Todo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = ?`, id)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: todo %s", block.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying todo: %w", err)
	}
	return t, nil
}

// SetTodoCompleted marks a todo done or not done.
func (s *SQLite) SetTodoCompleted(ctx context.Context, id string, completed bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE todos SET completed = ?, updated_at = ? WHERE id = ?`,
		boolToInt(completed), formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("updating todo: %w", err)
	}
	return expectOne(result, block.ErrNotFound, "todo", id)
}

// DeleteTodo removes a todo.
func (s *SQLite) DeleteTodo(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting todo: %w", err)
	}
	return expectOne(result, block.ErrNotFound, "todo", id)
}

// ListTodosByBlock returns the todos of a block in list order.
func (s *SQLite) ListTodosByBlock(ctx context.Context, blockID string) ([]*block.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+todoColumns+`
		FROM todos
		WHERE timeblock_id = ?
		ORDER BY order_index, created_at`,
		blockID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var todos []*block.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning todo: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating todos: %w", err)
	}
	return todos, nil
}

func scanTodo(row scanner) (*block.Todo, error) {
	var (
		t                    block.Todo
		completed            int
		categoryID           sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(
		&t.ID,
		&t.Text,
		&completed,
		&t.TimeBlockID,
		&categoryID,
		&t.Order,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Completed = completed == 1
	t.CategoryID = stringPtr(categoryID)
	err = parseTimeFields(
		timeField{name: "created at", dst: &t.CreatedAt, raw: createdAt},
		timeField{name: "updated at", dst: &t.UpdatedAt, raw: updatedAt},
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
