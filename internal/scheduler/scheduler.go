// Package scheduler provides the plant's working calendar: which days the
// line runs and when a shift starts.
package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/runcal/internal/dateutil"
)

// Scheduler answers workday and shift questions for a plant.
type Scheduler struct {
	workdays   map[time.Weekday]bool
	shiftStart string // "HH:MM"
	shiftEnd   string // "HH:MM"
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// New creates a Scheduler. Unknown weekday names are ignored.
func New(workdays []string, shiftStart, shiftEnd string) *Scheduler {
	wd := make(map[time.Weekday]bool)
	for _, d := range workdays {
		if w, ok := weekdays[strings.ToLower(strings.TrimSpace(d))]; ok {
			wd[w] = true
		}
	}
	return &Scheduler{
		workdays:   wd,
		shiftStart: shiftStart,
		shiftEnd:   shiftEnd,
	}
}

// IsWorkday returns true if t falls on a configured workday.
func (s *Scheduler) IsWorkday(t time.Time) bool {
	return s.workdays[t.In(time.Local).Weekday()]
}

// NextWorkday returns the first workday strictly after from, at midnight.
// With no workdays configured it returns the next day.
func (s *Scheduler) NextWorkday(from time.Time) time.Time {
	next := dateutil.LocalDay(from).AddDate(0, 0, 1)
	for range 7 {
		if s.IsWorkday(next) {
			return next
		}
		next = next.AddDate(0, 0, 1)
	}
	return dateutil.LocalDay(from).AddDate(0, 0, 1)
}

// NextAvailableStart returns when a run created at now should start by
// default. Before the shift that is today's shift start, during the shift
// it is now rounded up to 15 minutes, and otherwise it is the next
// workday's shift start.
func (s *Scheduler) NextAvailableStart(now time.Time) time.Time {
	now = now.In(time.Local)
	clock := now.Format("15:04")

	if s.IsWorkday(now) {
		if clock < s.shiftStart {
			return s.atShiftStart(now)
		}
		if clock < s.shiftEnd {
			rounded := roundUpTo15Min(now)
			if rounded.Format("15:04") < s.shiftEnd && dateutil.SameDay(rounded, now) {
				return rounded
			}
		}
	}
	return s.atShiftStart(s.NextWorkday(now))
}

// ShiftBounds returns the shift start and end on day.
func (s *Scheduler) ShiftBounds(day time.Time) (start, end time.Time) {
	d := dateutil.LocalDay(day)
	return atClock(d, s.shiftStart), atClock(d, s.shiftEnd)
}

// Warning describes why day is a questionable target, or "" when it is fine.
func (s *Scheduler) Warning(day time.Time) string {
	if len(s.workdays) == 0 || s.IsWorkday(day) {
		return ""
	}
	return fmt.Sprintf("%s is not a plant workday", day.In(time.Local).Format("Mon Jan 2"))
}

// WorkdaysBetween counts the workdays in [start, end] by local day.
func (s *Scheduler) WorkdaysBetween(start, end time.Time) int {
	n := 0
	last := dateutil.LocalDay(end)
	for d := dateutil.LocalDay(start); !d.After(last); d = d.AddDate(0, 0, 1) {
		if s.IsWorkday(d) {
			n++
		}
	}
	return n
}

// ShiftStart returns the configured shift start time.
func (s *Scheduler) ShiftStart() string {
	return s.shiftStart
}

// ShiftEnd returns the configured shift end time.
func (s *Scheduler) ShiftEnd() string {
	return s.shiftEnd
}

func (s *Scheduler) atShiftStart(day time.Time) time.Time {
	start, _ := s.ShiftBounds(day)
	return start
}

// roundUpTo15Min rounds a time up to the next 15-minute boundary.
func roundUpTo15Min(t time.Time) time.Time {
	remainder := t.Minute() % 15
	if remainder == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t
	}
	return t.Add(time.Duration(15-remainder) * time.Minute).Truncate(time.Minute)
}

// atClock returns day at the "HH:MM" wall-clock time.
func atClock(day time.Time, clock string) time.Time {
	var h, m int
	if len(clock) >= 5 {
		h = int(clock[0]-'0')*10 + int(clock[1]-'0')
		m = int(clock[3]-'0')*10 + int(clock[4]-'0')
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location())
}
