package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *App) deleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <run-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a run",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run ID: %w", err)
			}

			ctx := context.Background()
			r, err := a.repo.GetRun(ctx, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !yes && !promptYesNo(cmd.InOrStdin(), out, fmt.Sprintf("Delete run #%d %s?", r.ID, r.Title())) {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}

			if err := a.repo.DeleteRun(ctx, id); err != nil {
				return fmt.Errorf("deleting run: %w", err)
			}
			a.logger().Info("run deleted", zap.Int64("run_id", id))

			fmt.Fprintf(out, "Deleted run #%d\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
