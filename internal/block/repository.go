package block

import (
	"context"
	"time"
)

// Repository defines the storage interface for the scheduling domain.
type Repository interface {
	// CreateCategory adds a new category.
	CreateCategory(ctx context.Context, c *Category) error

	// ListCategories returns all categories ordered by name.
	ListCategories(ctx context.Context) ([]*Category, error)

	// DeleteCategory removes a category. Blocks and todos referencing it
	// become uncategorized.
	DeleteCategory(ctx context.Context, id string) error

	// CreateBlock adds a new time block.
	// Returns ErrTimeBlockOverlap if it overlaps an existing block.
	CreateBlock(ctx context.Context, b *TimeBlock) error

	// GetBlock retrieves a block by ID. Returns ErrNotFound if missing.
	GetBlock(ctx context.Context, id string) (*TimeBlock, error)

	// UpdateBlock stores the title, category, times and duration of b.
	// Returns ErrTimeBlockOverlap if the new times conflict with another block.
	UpdateBlock(ctx context.Context, b *TimeBlock) error

	// DeleteBlock removes a block and its todos.
	DeleteBlock(ctx context.Context, id string) error

	// ListBlocksByDateRange returns blocks whose day falls in the range (inclusive),
	// ordered by start time.
	ListBlocksByDateRange(ctx context.Context, start, end time.Time) ([]*TimeBlock, error)

	// CreateTodo appends a todo to the end of its block's list.
	CreateTodo(ctx context.Context, t *Todo) error

	// GetTodo retrieves a todo by ID. Returns ErrNotFound if missing.
	GetTodo(ctx context.Context, id string) (*Todo, error)

	// SetTodoCompleted marks a todo done or not done.
	SetTodoCompleted(ctx context.Context, id string, completed bool) error

	// DeleteTodo removes a todo.
	DeleteTodo(ctx context.Context, id string) error

	// ListTodosByBlock returns the todos of a block in list order.
	ListTodosByBlock(ctx context.Context, blockID string) ([]*Todo, error)

	// Close releases any resources held by the repository.
	Close() error
}
