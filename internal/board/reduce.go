package board

import (
	"fmt"
	"time"

	"github.com/javiermolinar/runcal/internal/calendar"
	"github.com/javiermolinar/runcal/internal/reschedule"
	"github.com/javiermolinar/runcal/internal/run"
)

// Action is an input to Reduce.
type Action interface {
	action()
}

// RunsRequested asks for the runs of the current grid range.
type RunsRequested struct{}

// RunsLoaded delivers a fetched snapshot.
type RunsLoaded struct {
	Runs []*run.Run
}

// RunsFailed reports a fetch failure.
type RunsFailed struct {
	Err error
}

// Navigated moves the reference date one step.
type Navigated struct {
	Dir calendar.Direction
}

// WentToday resets the reference date to the current day.
type WentToday struct {
	Now time.Time
}

// Focused moves the reference date to the day under the cursor.
type Focused struct {
	Date time.Time
}

// ViewChanged switches between month, week and day.
type ViewChanged struct {
	View calendar.View
}

// FilterChanged selects which status participates in placement.
type FilterChanged struct {
	Status run.Status
}

// Hovered records the day under the cursor.
type Hovered struct {
	Date time.Time
}

// DragEvent feeds a gesture event to the reschedule state machine.
type DragEvent struct {
	Event reschedule.Event
}

// RescheduleCommitted reports a stored reschedule.
type RescheduleCommitted struct {
	Run *run.Run
}

// RescheduleFailed reports a reschedule that could not be stored.
type RescheduleFailed struct {
	Command reschedule.Command
	Err     error
}

func (RunsRequested) action()       {}
func (RunsLoaded) action()          {}
func (RunsFailed) action()          {}
func (Navigated) action()           {}
func (WentToday) action()           {}
func (Focused) action()             {}
func (ViewChanged) action()         {}
func (FilterChanged) action()       {}
func (Hovered) action()             {}
func (DragEvent) action()           {}
func (RescheduleCommitted) action() {}
func (RescheduleFailed) action()    {}

// Effect is work Reduce asks the caller to perform.
type Effect interface {
	effect()
}

// FetchRuns loads the runs intersecting [Start, End].
type FetchRuns struct {
	Start time.Time
	End   time.Time
}

// CommitReschedule stores a confirmed reschedule.
type CommitReschedule struct {
	Command reschedule.Command
}

func (FetchRuns) effect()        {}
func (CommitReschedule) effect() {}

// Reduce returns the state after a and the effects it requires. It never
// mutates s.
func Reduce(s State, a Action) (State, []Effect) {
	if s.Drag == nil {
		s.Drag = reschedule.Idle{}
	}

	switch a := a.(type) {
	case RunsRequested:
		return fetch(s)

	case RunsLoaded:
		s.Runs = a.Runs
		if c := s.Carried; c != nil {
			if fresh := run.FindByID(a.Runs, c.ID); fresh != nil {
				s.Carried = fresh
			} else if s.covers(c) {
				// The fetch spanned the run's days and did not return it.
				s.Carried = nil
			}
		}
		s.Loading = false
		s.Err = nil
		return s, nil

	case RunsFailed:
		s.Loading = false
		s.Err = a.Err
		return s, nil

	case Navigated:
		s.Reference = calendar.Navigate(s.Reference, s.View, a.Dir)
		return fetch(s)

	case WentToday:
		s.Today = calendar.Today(a.Now)
		s.Reference = s.Today
		return fetch(s)

	case Focused:
		start, end := s.Range()
		s.Reference = calendar.Today(a.Date)
		if ns, ne := s.Range(); ns.Equal(start) && ne.Equal(end) {
			return s, nil
		}
		return fetch(s)

	case ViewChanged:
		if a.View == s.View {
			return s, nil
		}
		s.View = a.View
		return fetch(s)

	case FilterChanged:
		s.StatusFilter = a.Status
		return s, nil

	case Hovered:
		s.Hover = a.Date
		return s, nil

	case DragEvent:
		next, cmd := reschedule.Transition(s.Drag, a.Event, s.dropRuns())
		s.Drag = next
		if _, idle := next.(reschedule.Idle); idle {
			s.Carried = nil
		} else if ev, ok := a.Event.(reschedule.DragStarted); ok {
			s.Carried = run.FindByID(s.Runs, ev.RunID)
		}
		if cmd == nil {
			return s, nil
		}
		s.Notice = "Saving…"
		s.CommitErr = nil
		return s, []Effect{CommitReschedule{Command: *cmd}}

	case RescheduleCommitted:
		s.LastCommitted = a.Run
		s.CommitErr = nil
		if a.Run != nil {
			s.Notice = fmt.Sprintf("Rescheduled %s to %s", a.Run.ProductName, a.Run.StartDate.Format("Jan 2"))
		}
		return fetch(s)

	case RescheduleFailed:
		s.CommitErr = a.Err
		s.Notice = fmt.Sprintf("Reschedule of run %d failed: %v", a.Command.RunID, a.Err)
		return s, nil
	}

	return s, nil
}

func fetch(s State) (State, []Effect) {
	s.Loading = true
	start, end := s.Range()
	return s, []Effect{FetchRuns{Start: start, End: end}}
}
