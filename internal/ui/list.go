package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/runcal/internal/dateutil"
	"github.com/javiermolinar/runcal/internal/run"
)

func (a *App) listCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
		status    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List runs in a date range",
		Long: `List the runs that touch a date range.

If no dates are specified, lists today's runs.
If only --start is specified, lists runs for that single day.
If both --start and --end are specified, lists runs in that range (inclusive).`,
		Example: `  runcal list
  runcal list --start=2025-03-10 --end=2025-03-16
  runcal list --start=2025-03-01 --end=2025-03-31 --status="material shortage"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			dateRange, err := dateutil.NewDateRange(startDate, endDate)
			if err != nil {
				return err
			}

			var filter run.Status
			if status != "" {
				if filter, err = run.ParseStatus(status); err != nil {
					return err
				}
			}

			runs, err := a.repo.ListRunsInRange(context.Background(), dateRange.Start, dateRange.End)
			if err != nil {
				return fmt.Errorf("listing runs: %w", err)
			}
			runs = run.FilterByStatus(runs, filter)

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs found in the specified date range.")
				return nil
			}

			width := titleWidth(termWidth())
			for _, r := range runs {
				printRunRow(out, r, width)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD, defaults to start date)")
	cmd.Flags().StringVar(&status, "status", "", "Only list runs with this status")

	return cmd
}
