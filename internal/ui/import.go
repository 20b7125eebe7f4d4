package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/runcal/internal/db"
	"github.com/javiermolinar/runcal/internal/run"
)

func (a *App) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <database_path>",
		Short: "Import runs from another database",
		Long: `Import all runs from another runcal database into the current one.
Imported runs get new IDs.`,
		Example: `  runcal import /path/to/other.db`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

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

			count, err := importRuns(context.Background(), a.repo, sourcePath)
			if err != nil {
				return err
			}
			a.logger().Info("runs imported", zap.Int("count", count), zap.String("source", sourcePath))

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d runs from %s\n", count, sourcePath)
			return nil
		},
	}
}

// batchCreator is implemented by repositories that can insert many runs
// in one transaction.
type batchCreator interface {
	CreateRuns(ctx context.Context, runs []*run.Run) error
}

func importRuns(ctx context.Context, dest run.Repository, sourcePath string) (int, error) {
	source, err := db.New(sourcePath)
	if err != nil {
		return 0, fmt.Errorf("opening source database: %w", err)
	}
	defer func() { _ = source.Close() }()

	runs, err := source.ListRuns(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing source runs: %w", err)
	}

	copies := make([]*run.Run, len(runs))
	for i, r := range runs {
		c := r.Clone()
		c.ID = 0
		copies[i] = c
	}

	if batch, ok := dest.(batchCreator); ok {
		if err := batch.CreateRuns(ctx, copies); err != nil {
			return 0, fmt.Errorf("importing runs: %w", err)
		}
		return len(copies), nil
	}

	for i, c := range copies {
		if err := dest.CreateRun(ctx, c); err != nil {
			return i, fmt.Errorf("importing run %q: %w", c.ProductName, err)
		}
	}
	return len(copies), nil
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
