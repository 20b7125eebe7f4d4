package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/runcal/internal/run"
)

func (a *App) addCmd() *cobra.Command {
	var p run.NewParams

	cmd := &cobra.Command{
		Use:   "add <product>",
		Short: "Add a production run",
		Long: `Add a production run to the calendar.

Without --start the run begins at the next available shift slot on a
plant workday. Without --end it ends when it starts.`,
		Example: `  runcal add "Granola" --recipe="Base mix" --start="2025-03-13 06:00" --end="2025-03-15 14:00" --quantity=1250 --unit=kg
  runcal add "Oat bars" --status="pending approval"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			p.ProductName = args[0]
			if p.Start == "" {
				p.Start = a.scheduler().NextAvailableStart(time.Now()).Format("2006-01-02 15:04")
			}

			r, err := run.New(p)
			if err != nil {
				return err
			}
			if err := a.repo.CreateRun(context.Background(), r); err != nil {
				return fmt.Errorf("creating run: %w", err)
			}
			a.logger().Info("run created", zap.Int64("run_id", r.ID), zap.Time("start", r.StartDate))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created run #%d: %s %s - %s [%s]\n",
				r.ID, r.Title(),
				r.StartDate.Format(listTimeLayout), r.EndDate.Format(listTimeLayout),
				r.Status)
			if warning := a.scheduler().Warning(r.StartDate); warning != "" {
				fmt.Fprintf(out, "%s\n", formatWarning("Note: "+warning))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&p.RecipeName, "recipe", "", "Recipe name")
	cmd.Flags().StringVar(&p.Start, "start", "", "Start (YYYY-MM-DD or YYYY-MM-DD HH:MM, default: next shift slot)")
	cmd.Flags().StringVar(&p.End, "end", "", "End (default: start)")
	cmd.Flags().Float64Var(&p.PlannedQuantity, "quantity", 0, "Planned quantity")
	cmd.Flags().StringVar(&p.Unit, "unit", "", "Unit of the planned quantity, e.g. kg")
	cmd.Flags().StringVar(&p.Status, "status", "", "Initial status (default: scheduled)")
	cmd.Flags().StringVar(&p.Notes, "notes", "", "Free-form notes")

	return cmd
}
