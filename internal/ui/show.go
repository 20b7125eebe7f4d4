package ui

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/runcal/internal/board"
	"github.com/javiermolinar/runcal/internal/calendar"
	"github.com/javiermolinar/runcal/internal/dateutil"
	"github.com/javiermolinar/runcal/internal/run"
)

func (a *App) showCmd() *cobra.Command {
	var (
		viewName string
		date     string
		status   string
		noColor  bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the calendar",
		Long: `Print a month grid, or the hourly agenda of a week or day.

Defaults come from the [calendar] section of the configuration.`,
		Example: `  runcal show
  runcal show --view=week --date=next-monday
  runcal show --status="material shortage"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			s, err := a.initialState(viewName, status)
			if err != nil {
				return err
			}
			if date != "" {
				ref, err := dateutil.ResolveDate(date, time.Now())
				if err != nil {
					return err
				}
				s.Reference = ref
			}

			s = board.NewStore(a.repo, a.logger(), s).Dispatch(context.Background(), board.RunsRequested{})
			if s.Err != nil {
				return s.Err
			}

			out := cmd.OutOrStdout()
			switch s.View {
			case calendar.ViewMonth:
				renderMonth(out, s, termWidth())
			case calendar.ViewWeek:
				renderHours(out, s, s.WeekPlacement())
			case calendar.ViewDay:
				day := calendar.DayPlacement{Cell: s.Grid().Cells[0], Hours: s.DayPlacement()}
				renderHours(out, s, []calendar.DayPlacement{day})
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&viewName, "view", "", "month, week or day (default from config)")
	cmd.Flags().StringVar(&date, "date", "", "Reference date (YYYY-MM-DD, today, tomorrow, monday, ...)")
	cmd.Flags().StringVar(&status, "status", "", "Only show runs with this status")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

// initialState builds the board state from flags, falling back to config.
func (a *App) initialState(viewName, status string) (board.State, error) {
	view := a.config.View()
	if viewName != "" {
		v, err := calendar.ParseView(viewName)
		if err != nil {
			return board.State{}, err
		}
		view = v
	}

	filter := a.config.StatusFilter()
	if status != "" {
		st, err := run.ParseStatus(status)
		if err != nil {
			return board.State{}, err
		}
		filter = st
	}
	return board.New(time.Now(), view, filter), nil
}
