package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/runcal/internal/board"
	"github.com/javiermolinar/runcal/internal/calendar"
	"github.com/javiermolinar/runcal/internal/dateutil"
	"github.com/javiermolinar/runcal/internal/run"
)

const (
	listTimeLayout = "Jan 2 15:04"
	minCellWidth   = 8
)

// runLabel is the badge icon followed by the run title.
func runLabel(r *run.Run) string {
	if icon := r.Status.Badge().Icon; icon != "" {
		return icon + " " + r.Title()
	}
	return r.Title()
}

// printRunRow prints a single run with consistent formatting:
//
//	#12  Mar 13 06:00 - Mar 15 14:00  Granola · Base mix  1250 kg  [Material Shortage]
func printRunRow(w io.Writer, r *run.Run, maxTitle int) {
	title := ansi.Truncate(runLabel(r), maxTitle, "…")
	pad := max(maxTitle-ansi.StringWidth(title), 0)
	fmt.Fprintf(w, "  #%-4d %s - %s  %s%s  %-10s %s\n",
		r.ID,
		r.StartDate.Format(listTimeLayout),
		r.EndDate.Format(listTimeLayout),
		formatStatus(r.Status, title), strings.Repeat(" ", pad),
		r.Quantity(),
		formatMuted("["+string(r.Status)+"]"))
}

// titleWidth is the space left for run titles after the fixed columns.
func titleWidth(termCols int) int {
	const overhead = 68
	return max(termCols-overhead, 20)
}

// renderMonth draws the 6x7 month grid. Every multi-day run is one bar per
// week row; bars that continue from or into another row are marked ◀ or ▶.
func renderMonth(w io.Writer, s board.State, width int) {
	cw := max((width-1)/7-1, minCellWidth)
	border := "+" + strings.Repeat(strings.Repeat("-", cw)+"+", 7)

	fmt.Fprintf(w, "%s\n", formatHeader(s.Title()))
	fmt.Fprintln(w, border)
	var head strings.Builder
	head.WriteString("|")
	for _, d := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		head.WriteString(pad(d, cw) + "|")
	}
	fmt.Fprintln(w, head.String())
	fmt.Fprintln(w, border)

	placements := s.MonthPlacement()
	for row := 0; row*7 < len(placements); row++ {
		week := placements[row*7 : row*7+7]

		var days strings.Builder
		days.WriteString("|")
		for _, p := range week {
			label := pad(fmt.Sprintf("%2d", p.Cell.Date.Day()), cw)
			switch {
			case p.Cell.IsToday:
				label = formatToday(label)
			case p.Cell.IsDimmed:
				label = formatMuted(label)
			}
			days.WriteString(label + "|")
		}
		fmt.Fprintln(w, days.String())

		for _, lane := range calendar.Lanes(week) {
			fmt.Fprintln(w, renderLane(lane, cw))
		}
		fmt.Fprintln(w, border)
	}
}

func renderLane(cards []calendar.SpanCard, cw int) string {
	var sb strings.Builder
	sb.WriteString("|")
	col := 0
	for _, c := range cards {
		for ; col < c.Column; col++ {
			sb.WriteString(strings.Repeat(" ", cw) + "|")
		}
		span := cw*c.Columns + c.Columns - 1
		label := runLabel(c.Run)
		if c.ContinuesBefore {
			label = "◀ " + label
		}
		if c.ContinuesAfter {
			label = ansi.Truncate(label, span-2, "…")
			label = pad(label, span-2) + " ▶"
		}
		sb.WriteString(formatStatus(c.Run.Status, pad(label, span)) + "|")
		col += c.Columns
	}
	for ; col < 7; col++ {
		sb.WriteString(strings.Repeat(" ", cw) + "|")
	}
	return sb.String()
}

// renderHours prints each day of a week or day view with the runs that
// start, or continue, at each hour.
func renderHours(w io.Writer, s board.State, days []calendar.DayPlacement) {
	fmt.Fprintf(w, "%s\n", formatHeader(s.Title()))
	for _, d := range days {
		header := d.Cell.Date.Format("Mon Jan 2")
		if d.Cell.IsToday {
			header = formatToday(header + " (today)")
		}
		fmt.Fprintf(w, "\n%s\n", header)

		empty := true
		for _, h := range d.Hours {
			for _, r := range h.Cards {
				empty = false
				note := ""
				if dateutil.LocalDay(r.StartDate).Before(d.Cell.Date) {
					note = formatMuted(" (continued)")
				}
				fmt.Fprintf(w, "  %02d:00  %s%s\n", h.Slot.Hour(), formatStatus(r.Status, runLabel(r)), note)
			}
		}
		if empty {
			fmt.Fprintf(w, "  %s\n", formatMuted("no runs"))
		}
	}
}

// pad truncates or right-pads s to exactly width columns.
func pad(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	if n := ansi.StringWidth(s); n < width {
		s += strings.Repeat(" ", width-n)
	}
	return s
}
