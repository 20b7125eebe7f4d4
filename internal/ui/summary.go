package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/runcal/internal/dateutil"
	"github.com/javiermolinar/runcal/internal/summary"
)

func (a *App) summaryCmd() *cobra.Command {
	var (
		viewName string
		date     string
		status   string
		model    string
		insight  bool
		noColor  bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize the runs of a week, month or day",
		Long: `Count runs per status, total the planned quantities per unit and
list the runs blocked by material shortage.

With --insight the schedule is also reviewed by the configured LLM.`,
		Example: `  runcal summary
  runcal summary --view=month --insight`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			if viewName == "" {
				viewName = "week"
			}
			s, err := a.initialState(viewName, status)
			if err != nil {
				return err
			}
			ref := time.Now()
			if date != "" {
				if ref, err = dateutil.ResolveDate(date, ref); err != nil {
					return err
				}
			}
			if model == "" {
				model = a.config.LLM.Model
			}

			sum, err := summary.Build(context.Background(), a.repo, summary.BuildOptions{
				Reference:      ref,
				View:           s.View,
				Status:         s.StatusFilter,
				IncludeInsight: insight,
				Provider:       a.config.LLM.Provider,
				Model:          model,
				BaseURL:        a.config.LLM.BaseURL,
			})
			if err != nil {
				return fmt.Errorf("building summary: %w", err)
			}

			printSummary(cmd.OutOrStdout(), sum)
			return nil
		},
	}

	cmd.Flags().StringVar(&viewName, "view", "week", "month, week or day")
	cmd.Flags().StringVar(&date, "date", "", "Reference date (default: today)")
	cmd.Flags().StringVar(&status, "status", "", "Only count runs with this status")
	cmd.Flags().StringVar(&model, "model", "", "LLM model to use (default from config)")
	cmd.Flags().BoolVar(&insight, "insight", false, "Ask the LLM to review the schedule")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func printSummary(w io.Writer, s *summary.Summary) {
	rule := strings.Repeat("─", 60)

	fmt.Fprintf(w, "\n  %s\n%s\n", formatHeader("RUNS: "+s.Title()), rule)
	if s.Stats.Total == 0 {
		fmt.Fprintln(w, "  No runs scheduled in this period.")
		return
	}

	width := titleWidth(termWidth())
	for _, r := range s.Runs {
		printRunRow(w, r, width)
	}
	fmt.Fprintln(w, rule)

	for _, line := range strings.Split(strings.TrimRight(s.StatsText(), "\n"), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}

	if s.Insight != "" {
		fmt.Fprintf(w, "\n  %s\n%s\n", formatHeader("INSIGHT"), rule)
		for _, line := range strings.Split(s.Insight, "\n") {
			fmt.Fprintf(w, "  %s\n", formatInsight(line))
		}
	}
	fmt.Fprintln(w)
}
