// Package ui implements the runcal command line.
package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/runcal/internal/config"
	"github.com/javiermolinar/runcal/internal/db"
	"github.com/javiermolinar/runcal/internal/llm"
	"github.com/javiermolinar/runcal/internal/logging"
	"github.com/javiermolinar/runcal/internal/run"
	"github.com/javiermolinar/runcal/internal/scheduler"
	"github.com/javiermolinar/runcal/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo   run.Repository
	config *config.Config
	log    *zap.Logger
	root   *cobra.Command
	debug  bool

	newClient func(provider, model, baseURL string) (llm.Client, error)
}

// NewApp creates a new CLI application. A nil repo is opened lazily from
// cfg.Storage.DBPath by the commands that need one.
func NewApp(repo run.Repository, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg, newClient: llm.NewClient}

	a.root = &cobra.Command{
		Use:   "runcal",
		Short: "A terminal calendar for production runs",
		Long: `Runcal shows production runs on a month, week or day calendar.

Runs can be created, filtered by status and moved to another day by
dragging them in the calendar or with 'runcal reschedule'.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setupLogger()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			return tui.Run(a.repo, a.config, a.log)
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Write a debug log to "+logging.DebugLogPath)

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.rescheduleCmd())
	a.root.AddCommand(a.statusCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.summaryCmd())
	a.root.AddCommand(a.planCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "runcal %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the repository and flushes the logger.
func (a *App) Close() error {
	var errs []error
	if a.repo != nil {
		errs = append(errs, a.repo.Close())
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return errors.Join(errs...)
}

func (a *App) setupLogger() error {
	if a.log != nil {
		return nil
	}
	log, err := logging.New(a.config, a.debug)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	a.log = log
	return nil
}

// ensureRepo opens the configured database if no repository was injected.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	path := a.config.Storage.DBPath
	if path == "" {
		return errors.New("db_path is not configured")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := db.New(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.logger().Debug("database opened", zap.String("path", path))
	a.repo = repo
	return nil
}

func (a *App) logger() *zap.Logger {
	if a.log == nil {
		return zap.NewNop()
	}
	return a.log
}

func (a *App) scheduler() *scheduler.Scheduler {
	c := a.config.Calendar
	return scheduler.New(c.Workdays, c.ShiftStart, c.ShiftEnd)
}
