package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/kronos/internal/block"
	"github.com/javiermolinar/kronos/internal/db"
)

func (a *App) todoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage the todos of a time block",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "add <block-id> <text>",
		Short:   "Add a todo to a time block",
		Example: `  kronos todo add 3f2a Outline the report`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := a.findBlock(ctx, args[0])
			if err != nil {
				return err
			}
			t, err := block.NewTodo(b.ID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			t.CategoryID = b.CategoryID
			if err := a.store.CreateTodo(ctx, t); err != nil {
				return fmt.Errorf("creating todo: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added todo %s to %q: %s\n", shortID(t.ID), b.Title, t.Text)
			return nil
		},
	})

	cmd.AddCommand(a.todoToggleCmd("done", "Mark a todo as done", true))
	cmd.AddCommand(a.todoToggleCmd("undo", "Mark a todo as not done", false))

	cmd.AddCommand(&cobra.Command{
		Use:   "list <block-id>",
		Short: "List the todos of a time block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := a.findBlock(ctx, args[0])
			if err != nil {
				return err
			}
			todos, err := a.store.ListTodosByBlock(ctx, b.ID)
			if err != nil {
				return fmt.Errorf("listing todos: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s\n", formatHeader(b.Title), formatMuted(fmt.Sprintf("%s %s-%s", b.DateKey(), b.StartClock(), b.EndClock())))
			if len(todos) == 0 {
				fmt.Fprintln(w, "  No todos.")
				return nil
			}
			for _, t := range todos {
				printTodoRow(w, t, "  ")
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := a.findTodo(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.store.DeleteTodo(ctx, t.ID); err != nil {
				return fmt.Errorf("deleting todo: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted todo %s: %s\n", shortID(t.ID), t.Text)
			return nil
		},
	})

	return cmd
}

func (a *App) todoToggleCmd(use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := a.findTodo(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.store.SetTodoCompleted(ctx, t.ID, completed); err != nil {
				return fmt.Errorf("updating todo: %w", err)
			}
			t.Completed = completed
			printTodoRow(cmd.OutOrStdout(), t, "")
			return nil
		},
	}
}

func (a *App) findTodo(ctx context.Context, prefix string) (*block.Todo, error) {
	id, err := a.resolve(ctx, db.TableTodos, prefix)
	if err != nil {
		return nil, err
	}
	return a.store.GetTodo(ctx, id)
}
