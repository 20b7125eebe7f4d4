package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/runcal/internal/run"
)

func (a *App) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <run-id> <status>",
		Short: "Change the status of a run",
		Long: `Change the status of a run.

Valid statuses: ` + strings.Join(statusKeys(), ", ") + `.
Spaces, dashes and underscores are interchangeable.`,
		Example: `  runcal status 12 material_shortage
  runcal status 12 "on track"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run ID: %w", err)
			}
			status, err := run.ParseStatus(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}

			updated, err := a.repo.UpdateRun(context.Background(), id, run.Update{Status: &status})
			if err != nil {
				return fmt.Errorf("updating run: %w", err)
			}
			a.logger().Info("run status changed", zap.Int64("run_id", id), zap.String("status", string(status)))

			fmt.Fprintf(cmd.OutOrStdout(), "Run #%d: %s is now %s\n",
				updated.ID, updated.Title(), formatStatus(updated.Status, string(updated.Status)))
			return nil
		},
	}
}

func statusKeys() []string {
	var keys []string
	for _, s := range run.Statuses() {
		keys = append(keys, s.Key())
	}
	return keys
}
