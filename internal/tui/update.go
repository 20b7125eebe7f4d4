package tui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/runcal/internal/board"
	"github.com/javiermolinar/runcal/internal/calendar"
	"github.com/javiermolinar/runcal/internal/dateutil"
	"github.com/javiermolinar/runcal/internal/reschedule"
	"github.com/javiermolinar/runcal/internal/run"
	"github.com/javiermolinar/runcal/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeSummary()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case commands.EffectDoneMsg:
		return m.handleEffectDone(msg)

	case commands.SummaryMsg:
		m.summaryLoading = false
		m.summary = msg.Summary
		m.summaryView.SetContent(m.summaryContent())
		m.summaryView.GotoTop()
		return m, nil

	case commands.ErrMsg:
		m.summaryLoading = false
		m.status = "Error: " + msg.Err.Error()
		m.log.Error("tui command failed", zap.Error(msg.Err))
		return m, commands.ClearStatusAfter(commands.StatusTimeout)

	case commands.ClearStatusMsg:
		m.status = ""
		m.state.Notice = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m Model) handleEffectDone(msg commands.EffectDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Action == nil {
		return m, nil
	}
	// A fetch for a range the user already left is dropped.
	if f, ok := msg.Effect.(board.FetchRuns); ok {
		start, end := m.state.Range()
		if !f.Start.Equal(start) || !f.End.Equal(end) {
			return m, nil
		}
	}

	next, cmd := m.dispatch(msg.Action)
	switch msg.Action.(type) {
	case board.RescheduleCommitted, board.RescheduleFailed:
		cmd = tea.Batch(cmd, commands.ClearStatusAfter(commands.StatusTimeout))
	}
	return next, cmd
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch {
	case m.mode == ModeSummary:
		return m.handleSummaryKeys(msg)
	case m.isConfirming():
		return m.handleConfirmKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys when no modal or popover is open.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ref := m.state.Reference

	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Day navigation
	case "h", "left":
		return m.focus(ref.AddDate(0, 0, -1))
	case "l", "right":
		return m.focus(ref.AddDate(0, 0, 1))
	case "k", "up":
		if m.state.View == calendar.ViewMonth {
			return m.focus(ref.AddDate(0, 0, -7))
		}
		return m.cycleRun(-1), nil
	case "j", "down":
		if m.state.View == calendar.ViewMonth {
			return m.focus(ref.AddDate(0, 0, 7))
		}
		return m.cycleRun(1), nil
	case "tab":
		return m.cycleRun(1), nil
	case "shift+tab":
		return m.cycleRun(-1), nil

	// Period navigation
	case "[", "pgup":
		return m.navigate(board.Navigated{Dir: calendar.Prev})
	case "]", "pgdown":
		return m.navigate(board.Navigated{Dir: calendar.Next})
	case "t":
		return m.navigate(board.WentToday{Now: m.now()})
	case "r":
		return m.dispatch(board.RunsRequested{})

	// Views and filter
	case "m":
		return m.dispatch(board.ViewChanged{View: calendar.ViewMonth})
	case "w":
		return m.dispatch(board.ViewChanged{View: calendar.ViewWeek})
	case "d":
		return m.dispatch(board.ViewChanged{View: calendar.ViewDay})
	case "f":
		m.selected = 0
		return m.dispatch(board.FilterChanged{Status: nextFilter(m.state.StatusFilter)})

	// Reschedule
	case " ", "enter":
		return m.pickOrDrop()
	case "esc":
		if m.isDragging() {
			m.status = "Move cancelled"
			return m.dispatch(board.DragEvent{Event: reschedule.DragAborted{}})
		}

	// Summary
	case "s":
		return m.openSummary(false)
	}

	return m, nil
}

// handleConfirmKeys answers the reschedule popover.
func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.status = ""
		return m.dispatch(board.DragEvent{Event: reschedule.Confirmed{}})
	case "n", "N", "esc", "q":
		m.status = "Reschedule cancelled"
		return m.dispatch(board.DragEvent{Event: reschedule.Cancelled{}})
	}
	return m, nil
}

// handleSummaryKeys handles keys while the summary modal is open.
func (m Model) handleSummaryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "s":
		m.mode = ModeNormal
		m.summary = nil
		return m, nil
	case "i":
		if m.summaryLoading {
			return m, nil
		}
		return m.openSummary(true)
	case "c", "y":
		if m.summary == nil {
			return m, nil
		}
		if err := clipboard.WriteAll(m.summary.Text()); err != nil {
			m.status = "Copy failed: " + err.Error()
		} else {
			m.status = "Summary copied to clipboard"
		}
		return m, commands.ClearStatusAfter(commands.StatusTimeout)
	}

	var cmd tea.Cmd
	m.summaryView, cmd = m.summaryView.Update(msg)
	return m, cmd
}

// focus moves the cursor to day, refetching when it leaves the grid.
func (m Model) focus(day time.Time) (tea.Model, tea.Cmd) {
	return m.navigate(board.Focused{Date: day})
}

// navigate applies a reference-changing action and keeps the drag hover
// on the focused day.
func (m Model) navigate(a board.Action) (tea.Model, tea.Cmd) {
	next, cmd := m.dispatch(a)
	next.selected = 0
	if next.isDragging() {
		next, _ = next.dispatch(board.Hovered{Date: next.state.Reference})
	}
	return next, cmd
}

// cycleRun selects the next or previous run on the focused day.
func (m Model) cycleRun(delta int) Model {
	n := len(m.cursorRuns())
	if n == 0 {
		m.selected = 0
		return m
	}
	m.selected = ((m.selected+delta)%n + n) % n
	return m
}

// pickOrDrop picks up the selected run, or drops the carried run on the
// focused day.
func (m Model) pickOrDrop() (tea.Model, tea.Cmd) {
	if m.isDragging() {
		target := m.state.Reference
		carried := m.state.DraggedRun()
		next, cmd := m.dispatch(board.DragEvent{Event: reschedule.Dropped{
			Target: target,
			At:     m.cellPoint(target),
		}})
		if _, ok := next.state.Draft(); !ok {
			// A run that vanished from the snapshot is dropped silently.
			next.status = ""
			if carried != nil && dateutil.DaysBetween(carried.StartDate, target) == 0 {
				next.status = "Run already starts on " + target.Format("Jan 2")
			}
		}
		return next, cmd
	}

	r := m.selectedRun()
	if r == nil {
		m.status = "No run on " + m.state.Reference.Format("Mon Jan 2")
		return m, commands.ClearStatusAfter(commands.StatusTimeout)
	}
	next, cmd := m.dispatch(board.DragEvent{Event: reschedule.DragStarted{RunID: r.ID}})
	next, _ = next.dispatch(board.Hovered{Date: next.state.Reference})
	next.status = fmt.Sprintf("Moving %s: pick a day and press space", r.Title())
	return next, cmd
}

// openSummary opens the summary modal and builds the summary for the
// current view.
func (m Model) openSummary(insight bool) (tea.Model, tea.Cmd) {
	wasBusy := m.busy()
	m.mode = ModeSummary
	m.summaryLoading = true
	m.resizeSummary()

	s := m.state
	cmd := commands.Summary(m.config, m.repo, s.Reference, s.View, s.StatusFilter, insight)
	if !wasBusy {
		cmd = tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}

// nextFilter cycles through "all" and every status.
func nextFilter(current run.Status) run.Status {
	statuses := run.Statuses()
	if current == "" {
		return statuses[0]
	}
	for i, s := range statuses {
		if s == current && i+1 < len(statuses) {
			return statuses[i+1]
		}
	}
	return ""
}
