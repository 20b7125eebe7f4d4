package board

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/javiermolinar/runcal/internal/reschedule"
	"github.com/javiermolinar/runcal/internal/run"
)

// Execute performs one effect against repo and returns the action that
// reports its outcome.
func Execute(ctx context.Context, repo run.Repository, e Effect) Action {
	switch e := e.(type) {
	case FetchRuns:
		runs, err := repo.ListRunsInRange(ctx, e.Start, e.End)
		if err != nil {
			return RunsFailed{Err: err}
		}
		return RunsLoaded{Runs: runs}

	case CommitReschedule:
		updated, err := reschedule.Commit(ctx, repo, e.Command)
		if err != nil {
			return RescheduleFailed{Command: e.Command, Err: err}
		}
		return RescheduleCommitted{Run: updated}
	}
	return nil
}

// Store owns a State and runs its effects synchronously.
type Store struct {
	mu    sync.Mutex
	state State
	repo  run.Repository
	log   *zap.Logger
}

// NewStore creates a store starting at initial.
func NewStore(repo run.Repository, log *zap.Logger, initial State) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{state: initial, repo: repo, log: log}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch reduces a, runs the resulting effects and feeds their outcomes
// back until no effects remain. It returns the final state.
func (s *Store) Dispatch(ctx context.Context, a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue := []Action{a}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		var effects []Effect
		s.state, effects = Reduce(s.state, next)
		LogAction(s.log, s.state, next)

		for _, e := range effects {
			if result := Execute(ctx, s.repo, e); result != nil {
				queue = append(queue, result)
			}
		}
	}
	return s.state
}

// LogAction records a reduced action and the state it produced.
func LogAction(log *zap.Logger, s State, a Action) {
	switch a := a.(type) {
	case RunsLoaded:
		log.Debug("runs loaded", zap.Int("count", len(a.Runs)))
	case RunsFailed:
		log.Error("fetching runs failed", zap.Error(a.Err))
	case Navigated, WentToday, Focused, ViewChanged:
		log.Debug("reference changed",
			zap.String("view", s.View.String()),
			zap.Time("reference", s.Reference))
	case DragEvent:
		log.Debug("drag event",
			zap.String("event", eventName(a.Event)),
			zap.String("state", reschedule.Name(s.Drag)))
	case RescheduleCommitted:
		if a.Run != nil {
			log.Info("run rescheduled",
				zap.Int64("run_id", a.Run.ID),
				zap.Time("start", a.Run.StartDate),
				zap.Time("end", a.Run.EndDate))
		}
	case RescheduleFailed:
		log.Error("reschedule failed",
			zap.Int64("run_id", a.Command.RunID),
			zap.Int("days_delta", a.Command.DaysDelta),
			zap.Error(a.Err))
	}
}

func eventName(e reschedule.Event) string {
	switch e.(type) {
	case reschedule.DragStarted:
		return "drag_started"
	case reschedule.DragAborted:
		return "drag_aborted"
	case reschedule.Dropped:
		return "dropped"
	case reschedule.Confirmed:
		return "confirmed"
	case reschedule.Cancelled:
		return "cancelled"
	}
	return "unknown"
}
