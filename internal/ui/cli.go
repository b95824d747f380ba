package ui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/kronos/internal/block"
	"github.com/javiermolinar/kronos/internal/config"
	"github.com/javiermolinar/kronos/internal/db"
	"github.com/javiermolinar/kronos/internal/goal"
	"github.com/javiermolinar/kronos/internal/prefs"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// Store is the storage the CLI works against.
type Store interface {
	block.Repository
	goal.Repository
	prefs.Store

	// ResolveID expands a unique ID prefix within table.
	ResolveID(ctx context.Context, table, prefix string) (string, error)
}

// App holds the CLI application state.
type App struct {
	store      Store
	config     *config.Config
	configPath string
	root       *cobra.Command
	logger     *slog.Logger
	debug      bool
	noColor    bool

	// now is the clock used for defaults such as today and the start time.
	now func() time.Time
}

// NewApp creates a new CLI application. A nil store is opened from the
// configured database path the first time a command needs it.
func NewApp(store Store, cfg *config.Config) *App {
	a := &App{
		store:      store,
		config:     cfg,
		configPath: config.DefaultConfigPath(),
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
	}

	a.root = &cobra.Command{
		Use:   "kronos",
		Short: "A CLI for time blocking your day",
		Long: `Kronos plans your day as time blocks with todos, tracks long-term
goals and their milestones, and records progress check-ins.

Durations can be written as 90, 1.5, 90m, 1h 30m, 2h or 1:30.
IDs can be shortened to any unique prefix.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runShow(cmd, "")
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging on stderr")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.durationCmd())
	a.root.AddCommand(a.categoryCmd())
	a.root.AddCommand(a.blockCmd())
	a.root.AddCommand(a.todoCmd())
	a.root.AddCommand(a.goalCmd())
	a.root.AddCommand(a.milestoneCmd())
	a.root.AddCommand(a.checkinCmd())
	a.root.AddCommand(a.prefsCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

// setup configures logging and color before any command runs.
func (a *App) setup(cmd *cobra.Command) {
	level := a.config.LogLevel()
	if a.debug {
		level = slog.LevelDebug
	}
	a.logger = newLogger(cmd.ErrOrStderr(), level)

	switch {
	case a.noColor || a.config.UI.Color == config.ColorNever:
		DisableColor()
	case a.config.UI.Color == config.ColorAlways:
		EnableColor()
	}
}

// ensureRepo opens the configured database unless a store is already set.
func (a *App) ensureRepo() error {
	if a.store != nil {
		return nil
	}

	path := a.config.Storage.DBPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}

	store, err := db.New(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.logger.Debug("opened database", "path", path)
	a.store = store
	return nil
}

// resolve expands an ID prefix after making sure the store is open.
func (a *App) resolve(ctx context.Context, table, prefix string) (string, error) {
	if err := a.ensureRepo(); err != nil {
		return "", err
	}
	id, err := a.store.ResolveID(ctx, table, prefix)
	if err != nil {
		return "", err
	}
	a.logger.Debug("resolved id", "table", table, "prefix", prefix, "id", id)
	return id, nil
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kronos %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.ExecuteContext(context.Background())
}

// ExecuteContext runs the CLI application with ctx.
func (a *App) ExecuteContext(ctx context.Context) error {
	err := a.root.ExecuteContext(ctx)
	if err != nil {
		a.logger.Debug("command failed", "error", err)
	}
	return err
}

// Close releases the store if one was opened.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
