package calendar

import (
	"slices"
	"time"

	"github.com/javiermolinar/runcal/internal/dateutil"
	"github.com/javiermolinar/runcal/internal/run"
)

// IsRunOnDay reports whether r is visible on day.
func IsRunOnDay(r *run.Run, day time.Time) bool {
	return r.OccursOn(day)
}

// OccupiesSlot reports whether [s.Start, s.End) overlaps [r.Start, r.End).
func OccupiesSlot(r *run.Run, s Slot) bool {
	return r.StartDate.Before(s.End) && s.Start.Before(r.EndDate)
}

// SpanCard is the single card drawn for a run within one week row.
type SpanCard struct {
	Run             *run.Run
	Date            time.Time // anchor day
	Row             int
	Column          int
	Columns         int
	ContinuesBefore bool // the run started in an earlier row
	ContinuesAfter  bool // the run goes on past this row
}

// Badge returns the badge of the card's run status.
func (c SpanCard) Badge() run.Badge {
	return c.Run.Status.Badge()
}

// CellPlacement lists the cards anchored on a cell and the runs that touch
// the cell but are already covered by a card to their left.
type CellPlacement struct {
	Cell       Cell
	Cards      []SpanCard
	Suppressed []*run.Run
}

// PlaceMonth maps runs onto a week-aligned grid. Each run gets one card per
// row it crosses: on its start day, or on Sunday when it continues from the
// previous row.
func PlaceMonth(g Grid, runs []*run.Run) []CellPlacement {
	ordered := sortRuns(runs)
	placements := make([]CellPlacement, len(g.Cells))
	for i, cell := range g.Cells {
		p := CellPlacement{Cell: cell}
		col := int(cell.Date.Weekday())
		for _, r := range ordered {
			if !IsRunOnDay(r, cell.Date) {
				continue
			}
			startsHere := dateutil.SameDay(cell.Date, r.StartDate)
			if !startsHere && col != 0 {
				p.Suppressed = append(p.Suppressed, r)
				continue
			}
			remaining := dateutil.DaysBetween(cell.Date, r.EndDate) + 1
			span := min(remaining, 7-col)
			p.Cards = append(p.Cards, SpanCard{
				Run:             r,
				Date:            cell.Date,
				Row:             i / 7,
				Column:          col,
				Columns:         span,
				ContinuesBefore: !startsHere,
				ContinuesAfter:  remaining > span,
			})
		}
		placements[i] = p
	}
	return placements
}

// Cards flattens the cards of every placement in grid order.
func Cards(placements []CellPlacement) []SpanCard {
	var cards []SpanCard
	for _, p := range placements {
		cards = append(cards, p.Cards...)
	}
	return cards
}

// Lanes stacks the cards of one week row so that cards in the same lane
// never share a column.
func Lanes(week []CellPlacement) [][]SpanCard {
	cards := Cards(week)
	slices.SortStableFunc(cards, func(a, b SpanCard) int {
		return a.Column - b.Column
	})

	var out [][]SpanCard
	var ends []int
	for _, c := range cards {
		placed := false
		for i, end := range ends {
			if c.Column > end {
				out[i] = append(out[i], c)
				ends[i] = c.Column + c.Columns - 1
				placed = true
				break
			}
		}
		if !placed {
			out = append(out, []SpanCard{c})
			ends = append(ends, c.Column+c.Columns-1)
		}
	}
	return out
}

// HourPlacement lists the runs occupying an hour slot and the runs whose
// card is drawn in it.
type HourPlacement struct {
	Slot     Slot
	Occupied []*run.Run
	Cards    []*run.Run
}

// DayPlacement is the hourly placement of one grid day.
type DayPlacement struct {
	Cell  Cell
	Hours []HourPlacement
}

// PlaceHours maps runs onto the 24 slots of day. A run's card sits in its
// start hour on its start day and in hour 0 on every later day it covers.
func PlaceHours(day time.Time, runs []*run.Run) []HourPlacement {
	ordered := sortRuns(runs)
	slots := HourSlots(day)
	hours := make([]HourPlacement, len(slots))
	for h, s := range slots {
		hours[h].Slot = s
		for _, r := range ordered {
			if OccupiesSlot(r, s) {
				hours[h].Occupied = append(hours[h].Occupied, r)
			}
		}
	}
	for _, r := range ordered {
		if !IsRunOnDay(r, day) {
			continue
		}
		h := 0
		if dateutil.SameDay(day, r.StartDate) {
			h = r.StartDate.In(time.Local).Hour()
		}
		hours[h].Cards = append(hours[h].Cards, r)
	}
	return hours
}

// PlaceWeek runs PlaceHours for every cell of the grid.
func PlaceWeek(g Grid, runs []*run.Run) []DayPlacement {
	days := make([]DayPlacement, len(g.Cells))
	for i, cell := range g.Cells {
		days[i] = DayPlacement{Cell: cell, Hours: PlaceHours(cell.Date, runs)}
	}
	return days
}

// RunsOn returns the runs visible on day, in placement order.
func RunsOn(day time.Time, runs []*run.Run) []*run.Run {
	var result []*run.Run
	for _, r := range sortRuns(runs) {
		if IsRunOnDay(r, day) {
			result = append(result, r)
		}
	}
	return result
}

// sortRuns orders runs by start time, then ID, skipping nils.
func sortRuns(runs []*run.Run) []*run.Run {
	ordered := make([]*run.Run, 0, len(runs))
	for _, r := range runs {
		if r != nil {
			ordered = append(ordered, r)
		}
	}
	slices.SortStableFunc(ordered, func(a, b *run.Run) int {
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return ordered
}
