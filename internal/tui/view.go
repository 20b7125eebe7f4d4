package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/runcal/internal/calendar"
	"github.com/javiermolinar/runcal/internal/dateutil"
	"github.com/javiermolinar/runcal/internal/reschedule"
	"github.com/javiermolinar/runcal/internal/run"
)

const timeLayout = "Jan 2 15:04"

var weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// View renders the TUI.
func (m Model) View() string {
	lines := []string{m.renderTitle(), m.renderWeekdays()}
	lines = append(lines, m.renderGrid()...)
	lines = append(lines, m.renderStatus(), m.renderHelp())
	base := strings.Join(lines, "\n")

	if c, ok := m.state.Drag.(reschedule.Confirming); ok {
		box := m.renderPopover(c.Draft)
		boxW, boxH := lipgloss.Size(box)
		x := min(c.At.X, m.width-boxW)
		y := c.At.Y + 1
		if y+boxH > m.height {
			y = c.At.Y - boxH
		}
		base = placeOverlay(base, box, max(x, 0), max(y, 0), m.width, m.height)
	}

	if m.mode == ModeSummary {
		box := m.renderSummaryModal()
		boxW, boxH := lipgloss.Size(box)
		base = placeOverlay(base, box, (m.width-boxW)/2, (m.height-boxH)/2, m.width, m.height)
	}

	return base
}

// Layout

func (m Model) colWidth() int {
	return max((m.width-6)/7, minColWidth)
}

func (m Model) gridHeight() int {
	return max(m.height-headerLines-footerLines, 6)
}

// monthRowLines is the height of a week row: the day line plus its lanes.
func (m Model) monthRowLines() int {
	return max(m.gridHeight()/6, 2)
}

// cellPoint is the screen position of day's top-left corner.
func (m Model) cellPoint(day time.Time) reschedule.Point {
	cw := m.colWidth()
	g := m.state.Grid()
	idx := g.Index(day)
	if idx < 0 || m.state.View == calendar.ViewDay {
		return reschedule.Point{X: 0, Y: headerLines}
	}
	if m.state.View == calendar.ViewWeek {
		return reschedule.Point{X: idx * (cw + 1), Y: headerLines}
	}
	return reschedule.Point{
		X: (idx % 7) * (cw + 1),
		Y: headerLines + (idx/7)*m.monthRowLines(),
	}
}

// Header

func (m Model) renderTitle() string {
	title := m.styles.TitleStyle.Render("Runcal") + m.styles.PeriodStyle.Render(m.state.Title())
	if m.state.Loading {
		title += m.spinner.View()
	}

	var views []string
	for _, v := range calendar.Views() {
		name := v.String()
		label := "[" + name[:1] + "]" + name[1:]
		if v == m.state.View {
			views = append(views, m.styles.HelpKeyStyle.Render(label))
		} else {
			views = append(views, m.styles.HelpStyle.Render(label))
		}
	}
	right := strings.Join(views, " ")

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		return ansi.Truncate(title, m.width, "")
	}
	return title + strings.Repeat(" ", gap) + right
}

func (m Model) renderWeekdays() string {
	cw := m.colWidth()
	switch m.state.View {
	case calendar.ViewDay:
		return m.styles.WeekdayStyle.Render(m.state.Reference.Format("Monday, January 2"))
	case calendar.ViewWeek:
		var cols []string
		for _, c := range m.state.Grid().Cells {
			label := pad(c.Date.Format("Mon 2"), cw)
			cols = append(cols, m.dayStyle(c).Render(label))
		}
		return strings.Join(cols, " ")
	default:
		cols := make([]string, len(weekdays))
		for i, d := range weekdays {
			cols[i] = m.styles.WeekdayStyle.Render(pad(d, cw))
		}
		return strings.Join(cols, " ")
	}
}

// dayStyle picks the style of a day label. Drag-over wins over the cursor,
// which wins over today.
func (m Model) dayStyle(c calendar.Cell) lipgloss.Style {
	switch {
	case c.IsDragOver:
		return m.styles.DayDragOver
	case c.Date.Equal(m.state.Reference):
		return m.styles.DayCursor
	case c.IsToday:
		return m.styles.DayToday
	case c.IsDimmed:
		return m.styles.DayDimmed
	}
	return m.styles.DayStyle
}

// Grid

func (m Model) renderGrid() []string {
	var lines []string
	switch m.state.View {
	case calendar.ViewDay:
		lines = m.renderDay()
	case calendar.ViewWeek:
		lines = m.renderWeek()
	default:
		lines = m.renderMonth()
	}

	h := m.gridHeight()
	if m.state.Err != nil && len(lines) > 0 {
		lines[0] = m.styles.ErrorStyle.Render("Could not load runs: " + m.state.Err.Error())
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return lines[:h]
}

func (m Model) renderMonth() []string {
	cw := m.colWidth()
	laneSlots := m.monthRowLines() - 1
	placements := m.state.MonthPlacement()

	var lines []string
	for row := 0; row*7 < len(placements); row++ {
		week := placements[row*7 : row*7+7]

		days := make([]string, len(week))
		for i, p := range week {
			days[i] = m.dayStyle(p.Cell).Render(pad(fmt.Sprintf(" %d", p.Cell.Date.Day()), cw))
		}
		lines = append(lines, strings.Join(days, " "))

		lanes := calendar.Lanes(week)
		shown := lanes
		if len(lanes) > laneSlots {
			shown = lanes[:max(laneSlots-1, 0)]
		}
		for _, lane := range shown {
			lines = append(lines, m.renderLane(lane, cw))
		}
		if len(shown) < len(lanes) {
			lines = append(lines, m.renderMore(lanes[len(shown):], cw))
		}
		for i := len(shown) + boolInt(len(shown) < len(lanes)); i < laneSlots; i++ {
			lines = append(lines, "")
		}
	}
	return lines
}

// renderLane draws one lane of span cards. Cards that continue from or
// into another row are marked ◀ or ▶.
func (m Model) renderLane(cards []calendar.SpanCard, cw int) string {
	var sb strings.Builder
	col := 0
	for _, c := range cards {
		for ; col < c.Column; col++ {
			sb.WriteString(strings.Repeat(" ", cw+1))
		}
		span := cw*c.Columns + c.Columns - 1
		label := runLabel(c.Run)
		if c.ContinuesBefore {
			label = "◀ " + label
		}
		if c.ContinuesAfter {
			label = pad(label, span-2) + " ▶"
		}
		sb.WriteString(m.cardStyle(c.Run, c.Run.OccursOn(m.state.Reference)).Render(pad(label, span)))
		col += c.Columns
		if col < 7 {
			sb.WriteString(" ")
		}
	}
	return sb.String()
}

// renderMore counts the cards of hidden lanes per column.
func (m Model) renderMore(hidden [][]calendar.SpanCard, cw int) string {
	var counts [7]int
	for _, lane := range hidden {
		for _, c := range lane {
			for col := c.Column; col < c.Column+c.Columns && col < 7; col++ {
				counts[col]++
			}
		}
	}
	cols := make([]string, 7)
	for i, n := range counts {
		label := ""
		if n > 0 {
			label = fmt.Sprintf(" +%d more", n)
		}
		cols[i] = m.styles.HelpStyle.Render(pad(label, cw))
	}
	return strings.Join(cols, " ")
}

func (m Model) renderWeek() []string {
	cw := m.colWidth()
	h := m.gridHeight()

	columns := make([][]string, 0, 7)
	for _, day := range m.state.WeekPlacement() {
		col := m.hourLines(day.Cell.Date, day.Hours, cw, h)
		for len(col) < h {
			col = append(col, strings.Repeat(" ", cw))
		}
		columns = append(columns, col)
	}

	lines := make([]string, h)
	for i := range lines {
		parts := make([]string, len(columns))
		for j, col := range columns {
			parts[j] = col[i]
		}
		lines[i] = strings.Join(parts, " ")
	}
	return lines
}

// hourLines lists the cards of one day, one per line, capped at limit.
func (m Model) hourLines(day time.Time, hours []calendar.HourPlacement, cw, limit int) []string {
	var entries []*run.Run
	var starts []int
	for _, h := range hours {
		for _, r := range h.Cards {
			entries = append(entries, r)
			starts = append(starts, h.Slot.Hour())
		}
	}
	if len(entries) == 0 {
		return []string{m.styles.EmptyDayStyle.Render(pad(" no runs", cw))}
	}

	var lines []string
	for i, r := range entries {
		if len(lines) == limit-1 && len(entries) > limit {
			lines = append(lines, m.styles.HelpStyle.Render(pad(fmt.Sprintf(" +%d more", len(entries)-i), cw)))
			break
		}
		prefix := fmt.Sprintf("%02d:00 ", starts[i])
		if dateutil.LocalDay(r.StartDate).Before(day) {
			prefix = "◀ "
		}
		selected := day.Equal(m.state.Reference) && m.isSelected(r)
		lines = append(lines, m.cardStyle(r, selected).Render(pad(prefix+runLabel(r), cw)))
	}
	return lines
}

func (m Model) renderDay() []string {
	h := m.gridHeight()
	hours := m.state.DayPlacement()

	top := 0
	if h < len(hours) {
		first := 6
		for _, hp := range hours {
			if len(hp.Cards) > 0 {
				first = hp.Slot.Hour()
				break
			}
		}
		top = min(max(first-1, 0), len(hours)-h)
	}

	var lines []string
	for _, hp := range hours[top:] {
		line := m.styles.HourStyle.Render(fmt.Sprintf("%02d:00 ", hp.Slot.Hour()))
		switch {
		case len(hp.Cards) > 0:
			var cards []string
			for _, r := range hp.Cards {
				label := fmt.Sprintf(" %s  %s  [%s] ", runLabel(r), r.Quantity(), r.Status)
				cards = append(cards, m.cardStyle(r, m.isSelected(r)).Render(label))
			}
			line += strings.Join(cards, " ")
		case len(hp.Occupied) > 0:
			line += m.styles.AccentStyle(hp.Occupied[0].Status.Badge().Style).Render("│")
		}
		lines = append(lines, ansi.Truncate(line, m.width, "…"))
	}
	return lines
}

// cardStyle styles a run card. The carried run is drawn reversed and the
// selected run underlined.
func (m Model) cardStyle(r *run.Run, highlight bool) lipgloss.Style {
	past := r.EndDate.Before(m.state.Today)
	style := m.styles.CardStyle(r.Status.Badge().Style, past)
	if dragged := m.state.DraggedRun(); dragged != nil && dragged.ID == r.ID {
		return style.Reverse(true)
	}
	if highlight && m.isSelected(r) {
		return style.Bold(true).Underline(true)
	}
	return style
}

func (m Model) isSelected(r *run.Run) bool {
	sel := m.selectedRun()
	return sel != nil && sel.ID == r.ID
}

// Footer

func (m Model) renderStatus() string {
	var line string
	switch {
	case m.state.Notice != "" && m.state.CommitErr != nil:
		line = m.styles.ErrorStyle.Render(m.state.Notice)
	case m.state.Notice != "":
		line = m.styles.StatusStyle.Render(m.state.Notice)
	case m.status != "":
		line = m.styles.StatusStyle.Render(m.status)
	default:
		if r := m.selectedRun(); r != nil {
			line = m.styles.HelpStyle.Render(fmt.Sprintf("#%d %s  %s - %s  %s  [%s]",
				r.ID, r.Title(),
				r.StartDate.Format(timeLayout), r.EndDate.Format(timeLayout),
				r.Quantity(), r.Status))
		}
	}
	return ansi.Truncate(line, m.width, "…")
}

func (m Model) renderHelp() string {
	var keys [][2]string
	switch {
	case m.mode == ModeSummary:
		keys = [][2]string{{"↑↓", "scroll"}, {"c", "copy"}, {"i", "insight"}, {"esc", "close"}}
	case m.isConfirming():
		keys = [][2]string{{"y", "confirm"}, {"n", "cancel"}}
	case m.isDragging():
		keys = [][2]string{{"←→↑↓", "move"}, {"[ ]", "period"}, {"space", "drop"}, {"esc", "cancel"}}
	default:
		keys = [][2]string{
			{"←→↑↓", "move"}, {"tab", "next run"}, {"[ ]", "period"}, {"t", "today"},
			{"m/w/d", "view"}, {"f", "filter"}, {"space", "pick up"}, {"s", "summary"}, {"q", "quit"},
		}
	}

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = m.styles.HelpKeyStyle.Render(k[0]) + " " + m.styles.HelpStyle.Render(k[1])
	}
	return ansi.Truncate(strings.Join(parts, m.styles.HelpStyle.Render(" · ")), m.width, "…")
}

// Popover and modal

func (m Model) renderPopover(d reschedule.Draft) string {
	lines := []string{m.styles.ModalTitle.Render(d.Prompt())}
	if r := m.state.FindRun(d.RunID); r != nil {
		start, end := reschedule.Apply(r, d.DaysDelta)
		lines = append(lines,
			runLabel(r),
			m.styles.ModalMuted.Render(start.Format(timeLayout)+" → "+end.Format(timeLayout)))
	}
	if w := m.state.Warning(m.sched); w != "" {
		lines = append(lines, m.styles.PopoverWarning.Render("⚠ "+w))
	}
	lines = append(lines, "", m.styles.HelpKeyStyle.Render("y")+" confirm  "+m.styles.HelpKeyStyle.Render("n")+" cancel")
	return m.styles.PopoverStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) summarySize() (int, int) {
	return max(min(m.width-4, 90), 20), max(m.height-4, 8)
}

func (m *Model) resizeSummary() {
	w, h := m.summarySize()
	m.summaryView.Width = w - 4
	m.summaryView.Height = h - 4
	if m.summary != nil {
		m.summaryView.SetContent(m.summaryContent())
	}
}

func (m Model) summaryContent() string {
	s := m.summary
	if s == nil {
		return ""
	}
	var sb strings.Builder
	if len(s.Runs) == 0 {
		sb.WriteString("No runs in this period.\n")
	}
	for _, r := range s.Runs {
		fmt.Fprintf(&sb, "#%-4d %s - %s  %s  %s\n",
			r.ID, r.StartDate.Format(timeLayout), r.EndDate.Format(timeLayout),
			m.styles.AccentStyle(r.Status.Badge().Style).Render(runLabel(r)), r.Quantity())
	}
	sb.WriteString("\n" + s.StatsText())
	if s.Insight != "" {
		sb.WriteString("\n" + m.styles.ModalTitle.Render("INSIGHT") + "\n" + s.Insight + "\n")
	}
	return lipgloss.NewStyle().Width(m.summaryView.Width).Render(sb.String())
}

func (m Model) renderSummaryModal() string {
	w, _ := m.summarySize()
	title := "Summary"
	if m.summary != nil {
		title = "RUNS: " + m.summary.Title()
	}

	body := m.summaryView.View()
	if m.summaryLoading {
		msg := "Building summary…"
		if m.summary != nil {
			msg = "Asking for insight…"
		}
		body = m.spinner.View() + " " + msg + "\n" + body
	}
	hint := m.styles.ModalMuted.Render("c copy · i insight · esc close")
	content := m.styles.ModalTitle.Render(title) + "\n" + body + "\n" + hint
	return m.styles.ModalStyle.Width(w - 2).Render(content)
}

// runLabel is the badge icon followed by the run title.
func runLabel(r *run.Run) string {
	if icon := r.Status.Badge().Icon; icon != "" {
		return icon + " " + r.Title()
	}
	return r.Title()
}

// pad truncates or right-pads s to exactly width columns.
func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	if n := ansi.StringWidth(s); n < width {
		s += strings.Repeat(" ", width-n)
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
