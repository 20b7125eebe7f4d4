// Package reschedule implements drag-to-reschedule as an explicit state
// machine that produces reschedule commands.
package reschedule

import (
	"time"

	"github.com/javiermolinar/runcal/internal/dateutil"
	"github.com/javiermolinar/runcal/internal/run"
)

// Point is a screen position used to anchor the confirmation popover.
type Point struct {
	X, Y int
}

// State is one of Idle, Dragging, DropPending or Confirming.
type State interface {
	state()
}

// Idle means no gesture is in progress.
type Idle struct{}

// Dragging tracks the run being carried.
type Dragging struct {
	RunID int64
}

// DropPending is the moment between a drop and its resolution.
type DropPending struct {
	RunID  int64
	Target time.Time
	At     Point
}

// Confirming holds a draft waiting for the user's answer.
type Confirming struct {
	Draft Draft
	At    Point
}

func (Idle) state()        {}
func (Dragging) state()    {}
func (DropPending) state() {}
func (Confirming) state()  {}

// Event is an input to Transition.
type Event interface {
	event()
}

// DragStarted picks up a run.
type DragStarted struct {
	RunID int64
}

// DragAborted drops the carried run without a target.
type DragAborted struct{}

// Dropped releases the carried run over a day.
type Dropped struct {
	Target time.Time
	At     Point
}

// Confirmed accepts the pending draft.
type Confirmed struct{}

// Cancelled rejects the pending draft.
type Cancelled struct{}

func (DragStarted) event() {}
func (DragAborted) event() {}
func (Dropped) event()     {}
func (Confirmed) event()   {}
func (Cancelled) event()   {}

// Draft is a staged reschedule awaiting confirmation.
type Draft struct {
	RunID      int64
	DaysDelta  int
	TargetDate time.Time
}

// Prompt is the question shown in the confirmation popover.
func (d Draft) Prompt() string {
	return "Reschedule to " + d.TargetDate.Format("Jan 2") + "?"
}

// Transition applies e to s. It returns the next state and, when a draft
// is confirmed, the command to execute. runs is the current snapshot used
// to resolve drops.
func Transition(s State, e Event, runs []*run.Run) (State, *Command) {
	if s == nil {
		s = Idle{}
	}

	switch ev := e.(type) {
	case DragStarted:
		// A new drag replaces whatever was tracked.
		return Dragging{RunID: ev.RunID}, nil

	case DragAborted, Cancelled:
		return Idle{}, nil

	case Dropped:
		d, ok := s.(Dragging)
		if !ok {
			return s, nil
		}
		return Resolve(DropPending{RunID: d.RunID, Target: ev.Target, At: ev.At}, runs), nil

	case Confirmed:
		c, ok := s.(Confirming)
		if !ok {
			return s, nil
		}
		cmd := NewCommand(c.Draft)
		return Idle{}, &cmd
	}

	return s, nil
}

// Resolve settles a pending drop. A run missing from runs or a drop on the
// run's own start day returns Idle; anything else asks for confirmation.
func Resolve(p DropPending, runs []*run.Run) State {
	r := run.FindByID(runs, p.RunID)
	if r == nil {
		return Idle{}
	}
	delta := dateutil.DaysBetween(r.StartDate, p.Target)
	if delta == 0 {
		return Idle{}
	}
	return Confirming{
		Draft: Draft{
			RunID:      r.ID,
			DaysDelta:  delta,
			TargetDate: dateutil.LocalDay(p.Target),
		},
		At: p.At,
	}
}

// DraggedRun returns the ID of the run being carried, if any.
func DraggedRun(s State) (int64, bool) {
	if d, ok := s.(Dragging); ok {
		return d.RunID, true
	}
	return 0, false
}

// PendingDraft returns the draft awaiting confirmation, if any.
func PendingDraft(s State) (Draft, bool) {
	if c, ok := s.(Confirming); ok {
		return c.Draft, true
	}
	return Draft{}, false
}

// Name returns a short label for logs and status lines.
func Name(s State) string {
	switch s.(type) {
	case Dragging:
		return "dragging"
	case DropPending:
		return "drop_pending"
	case Confirming:
		return "confirming"
	default:
		return "idle"
	}
}
