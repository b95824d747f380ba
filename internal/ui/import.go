package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/kronos/internal/block"
	"github.com/javiermolinar/kronos/internal/db"
)

// ImportResult counts what an import copied.
type ImportResult struct {
	Categories int
	Blocks     int
	Todos      int
	Skipped    int // blocks that overlapped existing ones
}

func (a *App) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [database_path]",
		Short: "Import categories and time blocks from another database",
		Long: `Import all categories, time blocks and todos from another Kronos
database into the current one.

Categories are matched by name. Blocks that overlap an existing block are
skipped.

Example:
  kronos import /path/to/other.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			destPath, err := resolvePath(a.config.Storage.DBPath)
			if err != nil {
				return err
			}

			if sourcePath == destPath {
				return fmt.Errorf("source database matches current database")
			}

			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("source database does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking source database: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("source database path is a directory: %s", sourcePath)
			}

			if err := a.ensureRepo(); err != nil {
				return err
			}
			res, err := importSchedule(cmd.Context(), a.store, sourcePath)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d categories, %d blocks and %d todos from %s\n",
				res.Categories, res.Blocks, res.Todos, sourcePath)
			if res.Skipped > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatWarn(fmt.Sprintf("Skipped %d overlapping blocks", res.Skipped)))
			}
			return nil
		},
	}

	return cmd
}

// importSchedule copies the categories, blocks and todos of the database at
// sourcePath into dest under fresh IDs.
func importSchedule(ctx context.Context, dest block.Repository, sourcePath string) (ImportResult, error) {
	var res ImportResult

	source, err := db.New(sourcePath)
	if err != nil {
		return res, fmt.Errorf("opening source database: %w", err)
	}
	defer func() { _ = source.Close() }()

	categoryMap, err := importCategories(ctx, dest, source, &res)
	if err != nil {
		return res, err
	}

	blocks, err := source.ListAllBlocks(ctx)
	if err != nil {
		return res, fmt.Errorf("listing source blocks: %w", err)
	}

	for _, sourceBlock := range blocks {
		todos, err := source.ListTodosByBlock(ctx, sourceBlock.ID)
		if err != nil {
			return res, fmt.Errorf("listing source todos: %w", err)
		}

		newBlock := *sourceBlock
		newBlock.ID = uuid.NewString()
		newBlock.CategoryID = remap(categoryMap, sourceBlock.CategoryID)

		if err := dest.CreateBlock(ctx, &newBlock); err != nil {
			if errors.Is(err, block.ErrTimeBlockOverlap) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("importing block %q: %w", sourceBlock.Title, err)
		}
		res.Blocks++

		for _, sourceTodo := range todos {
			newTodo := *sourceTodo
			newTodo.ID = uuid.NewString()
			newTodo.TimeBlockID = newBlock.ID
			newTodo.CategoryID = remap(categoryMap, sourceTodo.CategoryID)
			if err := dest.CreateTodo(ctx, &newTodo); err != nil {
				return res, fmt.Errorf("importing todo %q: %w", sourceTodo.Text, err)
			}
			res.Todos++
		}
	}

	return res, nil
}

// importCategories maps every source category ID to a destination one,
// reusing destination categories with the same name.
func importCategories(ctx context.Context, dest, source block.Repository, res *ImportResult) (map[string]string, error) {
	existing, err := dest.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	byName := make(map[string]string, len(existing))
	for _, c := range existing {
		byName[strings.ToLower(c.Name)] = c.ID
	}

	categories, err := source.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing source categories: %w", err)
	}

	idMap := make(map[string]string, len(categories))
	for _, c := range categories {
		if id, ok := byName[strings.ToLower(c.Name)]; ok {
			idMap[c.ID] = id
			continue
		}
		now := time.Now()
		newCategory := &block.Category{
			ID:        uuid.NewString(),
			Name:      c.Name,
			Color:     c.Color,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := dest.CreateCategory(ctx, newCategory); err != nil {
			return nil, fmt.Errorf("importing category %q: %w", c.Name, err)
		}
		idMap[c.ID] = newCategory.ID
		byName[strings.ToLower(c.Name)] = newCategory.ID
		res.Categories++
	}
	return idMap, nil
}

func remap(idMap map[string]string, id *string) *string {
	if id == nil {
		return nil
	}
	newID, ok := idMap[*id]
	if !ok {
		return nil
	}
	return &newID
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
