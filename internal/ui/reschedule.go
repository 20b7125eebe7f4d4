package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/runcal/internal/board"
	"github.com/javiermolinar/runcal/internal/calendar"
	"github.com/javiermolinar/runcal/internal/dateutil"
	"github.com/javiermolinar/runcal/internal/reschedule"
)

func (a *App) rescheduleCmd() *cobra.Command {
	var (
		to  string
		yes bool
	)

	cmd := &cobra.Command{
		Use:   "reschedule <run-id>",
		Short: "Move a run to another day",
		Long: `Move a run so that it starts on another day.

The run keeps its start time and duration; only the day changes. This is
the same operation as dropping a run on a calendar day in the TUI and
asks for the same confirmation.`,
		Example: `  runcal reschedule 12 --to=2025-03-14
  runcal reschedule 12 --to=next-monday --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run ID: %w", err)
			}
			target, err := dateutil.ResolveDate(to, time.Now())
			if err != nil {
				return fmt.Errorf("invalid --to: %w", err)
			}

			ctx := context.Background()
			r, err := a.repo.GetRun(ctx, id)
			if err != nil {
				return err
			}

			// Load the month holding the run so the drag can find it.
			initial := board.New(time.Now(), calendar.ViewMonth, "")
			initial.Reference = dateutil.LocalDay(r.StartDate)
			store := board.NewStore(a.repo, a.logger(), initial)
			if s := store.Dispatch(ctx, board.RunsRequested{}); s.Err != nil {
				return s.Err
			}

			store.Dispatch(ctx, board.DragEvent{Event: reschedule.DragStarted{RunID: id}})
			s := store.Dispatch(ctx, board.DragEvent{Event: reschedule.Dropped{Target: target}})

			out := cmd.OutOrStdout()
			draft, ok := s.Draft()
			if !ok {
				fmt.Fprintf(out, "Run #%d already starts on %s; nothing to do.\n", id, target.Format("Jan 2"))
				return nil
			}

			if warning := s.Warning(a.scheduler()); warning != "" {
				fmt.Fprintf(out, "%s\n", formatWarning(warning))
			}
			if !yes && !promptYesNo(cmd.InOrStdin(), out, draft.Prompt()) {
				store.Dispatch(ctx, board.DragEvent{Event: reschedule.Cancelled{}})
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}

			s = store.Dispatch(ctx, board.DragEvent{Event: reschedule.Confirmed{}})
			if s.CommitErr != nil {
				return s.CommitErr
			}
			if s.LastCommitted == nil {
				return errors.New("reschedule was not committed")
			}

			moved := s.LastCommitted
			fmt.Fprintf(out, "%s: %s - %s\n", s.Notice,
				moved.StartDate.Format(listTimeLayout), moved.EndDate.Format(listTimeLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Target day (YYYY-MM-DD, tomorrow, monday, next-week, ...)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
