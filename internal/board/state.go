// Package board holds the calendar's application state. State changes go
// through Reduce, which returns the next state and the effects to run.
package board

import (
	"slices"
	"time"

	"github.com/javiermolinar/runcal/internal/calendar"
	"github.com/javiermolinar/runcal/internal/dateutil"
	"github.com/javiermolinar/runcal/internal/reschedule"
	"github.com/javiermolinar/runcal/internal/run"
	"github.com/javiermolinar/runcal/internal/scheduler"
)

// State is a snapshot of everything the calendar shows.
type State struct {
	Runs         []*run.Run // last fetched snapshot, never mutated in place
	Reference    time.Time
	View         calendar.View
	StatusFilter run.Status // empty shows every status
	Drag         reschedule.State
	Carried      *run.Run  // run picked up, kept while the grid moves off its days
	Hover        time.Time // day under the cursor while dragging
	Today        time.Time

	Loading       bool
	Err           error // fetch failure, shown page-wide
	CommitErr     error // last reschedule failure
	Notice        string
	LastCommitted *run.Run
}

// New returns the initial state focused on today.
func New(now time.Time, view calendar.View, filter run.Status) State {
	today := calendar.Today(now)
	return State{
		Reference:    today,
		View:         view,
		StatusFilter: filter,
		Drag:         reschedule.Idle{},
		Today:        today,
	}
}

// Visible returns the runs that pass the status filter.
func (s State) Visible() []*run.Run {
	return run.FilterByStatus(s.Runs, s.StatusFilter)
}

// Range returns the first and last day of the current grid.
func (s State) Range() (start, end time.Time) {
	return calendar.Range(s.Reference, s.View)
}

// Grid builds the cells for the current reference date and view.
func (s State) Grid() calendar.Grid {
	opts := calendar.Options{Today: s.Today}
	if _, ok := reschedule.DraggedRun(s.Drag); ok {
		opts.DragOver = s.Hover
	}
	return calendar.Build(s.Reference, s.View, opts)
}

// MonthPlacement places the visible runs on the month grid.
func (s State) MonthPlacement() []calendar.CellPlacement {
	return calendar.PlaceMonth(s.Grid(), s.Visible())
}

// WeekPlacement places the visible runs into the hourly slots of each grid day.
func (s State) WeekPlacement() []calendar.DayPlacement {
	return calendar.PlaceWeek(s.Grid(), s.Visible())
}

// DayPlacement places the visible runs into the reference day's hours.
func (s State) DayPlacement() []calendar.HourPlacement {
	return calendar.PlaceHours(s.Reference, s.Visible())
}

// Draft returns the reschedule awaiting confirmation, if any.
func (s State) Draft() (reschedule.Draft, bool) {
	return reschedule.PendingDraft(s.Drag)
}

// DraggedRun returns the run being carried, if any.
func (s State) DraggedRun() *run.Run {
	id, ok := reschedule.DraggedRun(s.Drag)
	if !ok {
		return nil
	}
	return s.FindRun(id)
}

// FindRun returns the run with id from the snapshot or the carried run.
func (s State) FindRun(id int64) *run.Run {
	return run.FindByID(s.dropRuns(), id)
}

// dropRuns is the snapshot drops resolve against: the fetched runs plus
// the carried run when the grid no longer shows it.
func (s State) dropRuns() []*run.Run {
	if s.Carried == nil || run.FindByID(s.Runs, s.Carried.ID) != nil {
		return s.Runs
	}
	return append(slices.Clip(s.Runs), s.Carried)
}

// covers reports whether the current grid range includes any day of r.
func (s State) covers(r *run.Run) bool {
	start, end := s.Range()
	return !dateutil.LocalDay(r.StartDate).After(dateutil.LocalDay(end)) &&
		!dateutil.LocalDay(r.EndDate).Before(dateutil.LocalDay(start))
}

// Warning returns the plant calendar warning for the pending draft, or "".
func (s State) Warning(sched *scheduler.Scheduler) string {
	d, ok := s.Draft()
	if !ok || sched == nil {
		return ""
	}
	return sched.Warning(d.TargetDate)
}

// Title is the grid header for the current reference date and view.
func (s State) Title() string {
	title := calendar.Title(s.Reference, s.View)
	if s.StatusFilter != "" {
		title += " · " + string(s.StatusFilter)
	}
	return title
}
