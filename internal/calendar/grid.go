// Package calendar builds the month, week and day grids of the run
// calendar, places runs onto them and moves the reference date around.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/runcal/internal/dateutil"
)

// MonthCells is the fixed size of a month grid: 6 rows of 7 days.
const MonthCells = 42

// View is the granularity the calendar is shown at.
type View int

const (
	ViewMonth View = iota
	ViewWeek
	ViewDay
)

// Views returns the views in cycling order.
func Views() []View {
	return []View{ViewMonth, ViewWeek, ViewDay}
}

func (v View) String() string {
	switch v {
	case ViewMonth:
		return "month"
	case ViewWeek:
		return "week"
	case ViewDay:
		return "day"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

// ParseView parses "month", "week" or "day" (case-insensitive).
func ParseView(s string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "month", "monthly", "m":
		return ViewMonth, nil
	case "week", "weekly", "w":
		return ViewWeek, nil
	case "day", "daily", "d":
		return ViewDay, nil
	}
	return ViewMonth, fmt.Errorf("unknown view %q (want month, week or day)", s)
}

// MonthGrid returns the 42 dates of the month view for ref, starting on the
// Sunday on or before the first of ref's month.
func MonthGrid(ref time.Time) []time.Time {
	first := dateutil.StartOfWeek(dateutil.FirstOfMonth(dateutil.LocalDay(ref)))
	return consecutiveDays(first, MonthCells)
}

// WeekGrid returns Sunday through Saturday of the week containing ref.
func WeekGrid(ref time.Time) []time.Time {
	return consecutiveDays(dateutil.StartOfWeek(dateutil.LocalDay(ref)), 7)
}

// DayGrid returns the single date of ref.
func DayGrid(ref time.Time) []time.Time {
	return []time.Time{dateutil.LocalDay(ref)}
}

// Dates returns the grid dates for ref in the given view.
func Dates(ref time.Time, view View) []time.Time {
	switch view {
	case ViewWeek:
		return WeekGrid(ref)
	case ViewDay:
		return DayGrid(ref)
	default:
		return MonthGrid(ref)
	}
}

func consecutiveDays(first time.Time, n int) []time.Time {
	days := make([]time.Time, n)
	for i := range days {
		days[i] = first.AddDate(0, 0, i)
	}
	return days
}

// Slot is a half-open [Start, End) hour of a day.
type Slot struct {
	Start time.Time
	End   time.Time
}

// Hour returns the slot's hour of day.
func (s Slot) Hour() int {
	return s.Start.Hour()
}

// HourSlots returns the 24 hourly slots of day in local time.
func HourSlots(day time.Time) []Slot {
	d := dateutil.LocalDay(day)
	slots := make([]Slot, 24)
	for h := range slots {
		slots[h] = Slot{
			Start: time.Date(d.Year(), d.Month(), d.Day(), h, 0, 0, 0, time.Local),
			End:   time.Date(d.Year(), d.Month(), d.Day(), h+1, 0, 0, 0, time.Local),
		}
	}
	return slots
}

// Cell is one rendered day of a grid.
type Cell struct {
	Date       time.Time
	IsDimmed   bool // outside the focused month (month view only)
	IsToday    bool
	IsDragOver bool
}

// Options carries the per-render inputs of Build.
type Options struct {
	Today    time.Time
	DragOver time.Time // zero when nothing is being dragged
}

// Grid is the set of cells for a reference date and view.
type Grid struct {
	View      View
	Reference time.Time
	Cells     []Cell
}

// Build computes the cells to render for ref in view.
func Build(ref time.Time, view View, opts Options) Grid {
	ref = dateutil.LocalDay(ref)
	dates := Dates(ref, view)
	cells := make([]Cell, len(dates))
	for i, d := range dates {
		cells[i] = Cell{
			Date:       d,
			IsDimmed:   view == ViewMonth && (d.Month() != ref.Month() || d.Year() != ref.Year()),
			IsToday:    !opts.Today.IsZero() && dateutil.SameDay(d, opts.Today),
			IsDragOver: !opts.DragOver.IsZero() && dateutil.SameDay(d, opts.DragOver),
		}
	}
	return Grid{View: view, Reference: ref, Cells: cells}
}

// Rows splits the grid into weeks. A day grid is a single row of one cell.
func (g Grid) Rows() [][]Cell {
	var rows [][]Cell
	for i := 0; i < len(g.Cells); i += 7 {
		end := min(i+7, len(g.Cells))
		rows = append(rows, g.Cells[i:end])
	}
	return rows
}

// Start returns the first date of the grid.
func (g Grid) Start() time.Time {
	if len(g.Cells) == 0 {
		return time.Time{}
	}
	return g.Cells[0].Date
}

// End returns the last date of the grid.
func (g Grid) End() time.Time {
	if len(g.Cells) == 0 {
		return time.Time{}
	}
	return g.Cells[len(g.Cells)-1].Date
}

// Index returns the position of date in the grid, or -1.
func (g Grid) Index(date time.Time) int {
	for i, c := range g.Cells {
		if dateutil.SameDay(c.Date, date) {
			return i
		}
	}
	return -1
}

// Contains reports whether date is one of the grid's days.
func (g Grid) Contains(date time.Time) bool {
	return g.Index(date) >= 0
}
