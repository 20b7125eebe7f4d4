package reschedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/runcal/internal/run"
)

// KindReschedule is the only command kind.
const KindReschedule = "reschedule"

// ErrUnknownCommand is returned by Commit for commands it cannot run.
var ErrUnknownCommand = errors.New("unknown command kind")

// Command is a request to shift a run by a number of days, decoupled from
// the gesture that produced it.
type Command struct {
	Kind      string
	RunID     int64
	DaysDelta int
}

// NewCommand builds the reschedule command for a confirmed draft.
func NewCommand(d Draft) Command {
	return Command{Kind: KindReschedule, RunID: d.RunID, DaysDelta: d.DaysDelta}
}

// Apply returns r's dates shifted by delta days. The start keeps its time
// of day and the end keeps the exact original duration.
func Apply(r *run.Run, delta int) (start, end time.Time) {
	start = r.StartDate.AddDate(0, 0, delta)
	end = start.Add(r.EndDate.Sub(r.StartDate))
	return start, end
}

// Commit loads the run, shifts it and writes the new dates as a partial
// update. The caller refetches afterwards.
func Commit(ctx context.Context, repo run.Repository, cmd Command) (*run.Run, error) {
	if cmd.Kind != KindReschedule {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Kind)
	}

	r, err := repo.GetRun(ctx, cmd.RunID)
	if err != nil {
		return nil, fmt.Errorf("load run %d: %w", cmd.RunID, err)
	}

	start, end := Apply(r, cmd.DaysDelta)
	updated, err := repo.UpdateRun(ctx, cmd.RunID, run.Update{StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, fmt.Errorf("reschedule run %d: %w", cmd.RunID, err)
	}
	return updated, nil
}
