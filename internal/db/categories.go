package db

import (
	"context"
	"fmt"

	"github.com/javiermolinar/kronos/internal/block"
)

// CreateCategory adds a new category.
func (s *SQLite) CreateCategory(ctx context.Context, c *block.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Color, formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting category: %w", err)
	}
	return nil
}

// ListCategories returns all categories ordered by name.
func (s *SQLite) ListCategories(ctx context.Context) ([]*block.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, color, created_at, updated_at
		FROM categories
		ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []*block.Category
	for rows.Next() {
		var (
			c                    block.Category
			createdAt, updatedAt string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		err := parseTimeFields(
			timeField{name: "created at", dst: &c.CreatedAt, raw: createdAt},
			timeField{name: "updated at", dst: &c.UpdatedAt, raw: updatedAt},
		)
		if err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}
	return categories, nil
}

// DeleteCategory removes a category. Blocks and todos referencing it keep
// existing with no category.
func (s *SQLite) DeleteCategory(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	return expectOne(result, block.ErrNotFound, "category", id)
}
