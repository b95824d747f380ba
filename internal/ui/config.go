package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/kronos/internal/config"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View configuration",
		Long: `Print the configuration in effect, after defaults, the config file and
KRONOS_* environment overrides have been applied.

Example:
  kronos config
  kronos config init`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Config file: %s", a.configPath)
			if _, err := os.Stat(a.configPath); os.IsNotExist(err) {
				fmt.Fprint(w, formatMuted(" (not found, using defaults)"))
			}
			fmt.Fprint(w, "\n\n")
			printConfig(w, a.config)
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(a.configPath); err == nil && !force {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", a.configPath)
			}
			if err := config.Default().SaveTo(a.configPath); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", a.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	cmd.AddCommand(initCmd)

	return cmd
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[storage]")
	fmt.Fprintf(w, "  db_path      = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(w, "\n[schedule]")
	fmt.Fprintf(w, "  snap_minutes = %d\n", cfg.Schedule.SnapMinutes)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  color        = %s\n", cfg.UI.Color)
	fmt.Fprintln(w, "\n[log]")
	fmt.Fprintf(w, "  level        = %s\n", cfg.Log.Level)
}
