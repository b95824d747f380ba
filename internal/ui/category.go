package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/kronos/internal/block"
	"github.com/javiermolinar/kronos/internal/db"
)

func (a *App) categoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
	}

	var colorName string
	add := &cobra.Command{
		Use:     "add <name>",
		Short:   "Add a category",
		Example: `  kronos category add work --color=blue`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			c, err := block.NewCategory(args[0], colorName)
			if err != nil {
				return err
			}
			if err := a.store.CreateCategory(cmd.Context(), c); err != nil {
				return fmt.Errorf("creating category: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created category %s %s\n",
				shortID(c.ID), formatCategory(c.Name, c.Color))
			return nil
		},
	}
	add.Flags().StringVar(&colorName, "color", string(block.ColorBlue), "Color: "+joinColors())
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			categories, err := a.store.ListCategories(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing categories: %w", err)
			}

			w := cmd.OutOrStdout()
			if len(categories) == 0 {
				fmt.Fprintln(w, "No categories yet.")
				return nil
			}
			for _, c := range categories {
				fmt.Fprintf(w, "  %s  %-20s %s\n", formatMuted(shortID(c.ID)),
					formatCategory(c.Name, c.Color), formatMuted(string(c.Color)))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a category; its blocks become uncategorized",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := a.findCategory(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.store.DeleteCategory(ctx, id); err != nil {
				return fmt.Errorf("deleting category: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s\n", shortID(id))
			return nil
		},
	})

	return cmd
}

// findCategory matches ref against category names first, then ID prefixes.
func (a *App) findCategory(ctx context.Context, ref string) (string, error) {
	if err := a.ensureRepo(); err != nil {
		return "", err
	}
	categories, err := a.store.ListCategories(ctx)
	if err != nil {
		return "", fmt.Errorf("listing categories: %w", err)
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, strings.TrimSpace(ref)) {
			return c.ID, nil
		}
	}
	return a.resolve(ctx, db.TableCategories, ref)
}

func joinColors() string {
	names := make([]string, len(block.Colors))
	for i, c := range block.Colors {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
