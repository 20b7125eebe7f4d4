package calendar

import (
	"time"

	"github.com/javiermolinar/runcal/internal/dateutil"
)

// Direction moves the reference date backward or forward.
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// Navigate moves ref one step in dir: a month, a week or a day depending on
// the view. Month steps use AddDate, so Jan 31 + 1 month is Mar 2 or 3.
func Navigate(ref time.Time, view View, dir Direction) time.Time {
	n := int(dir)
	switch view {
	case ViewWeek:
		return ref.AddDate(0, 0, 7*n)
	case ViewDay:
		return ref.AddDate(0, 0, n)
	default:
		return ref.AddDate(0, n, 0)
	}
}

// Today returns the local midnight of now.
func Today(now time.Time) time.Time {
	return dateutil.LocalDay(now)
}

// Range returns the first and last day shown for ref in view.
func Range(ref time.Time, view View) (start, end time.Time) {
	dates := Dates(ref, view)
	return dates[0], dates[len(dates)-1]
}

// Title is the header shown above the grid.
func Title(ref time.Time, view View) string {
	ref = dateutil.LocalDay(ref)
	switch view {
	case ViewWeek:
		start, end := Range(ref, view)
		if start.Year() != end.Year() {
			return start.Format("Jan 2, 2006") + " - " + end.Format("Jan 2, 2006")
		}
		return start.Format("Jan 2") + " - " + end.Format("Jan 2, 2006")
	case ViewDay:
		return ref.Format("Monday, Jan 2 2006")
	default:
		return ref.Format("January 2006")
	}
}
