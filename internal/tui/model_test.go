package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/runcal/internal/board"
	"github.com/javiermolinar/runcal/internal/calendar"
	"github.com/javiermolinar/runcal/internal/config"
	"github.com/javiermolinar/runcal/internal/reschedule"
	"github.com/javiermolinar/runcal/internal/run"
	"github.com/javiermolinar/runcal/internal/run/runtest"
	"github.com/javiermolinar/runcal/internal/summary"
	"github.com/javiermolinar/runcal/internal/tui/commands"
)

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.Local)
}

func sampleRuns() []*run.Run {
	return []*run.Run{
		{ID: 1, ProductName: "Sourdough", StartDate: at(2024, 3, 10, 8), EndDate: at(2024, 3, 12, 8), Status: run.StatusOnTrack},
		{ID: 2, ProductName: "Granola", StartDate: at(2024, 3, 13, 6), EndDate: at(2024, 3, 13, 14), Status: run.StatusMaterialShortage},
		{ID: 3, ProductName: "Muesli", StartDate: at(2024, 3, 20, 6), EndDate: at(2024, 3, 22, 14), Status: run.StatusScheduled},
	}
}

// newTestModel returns a sized model focused on Sun Mar 10 2024 with the
// month's runs loaded.
func newTestModel(t *testing.T) (Model, *runtest.Memory) {
	t.Helper()
	repo := runtest.NewMemory(sampleRuns()...)
	m := New(repo, config.Default(), zap.NewNop(), WithClock(func() time.Time {
		return at(2024, 3, 10, 9)
	}))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	start, end := m.State().Range()
	m, _ = complete(t, m, repo, board.FetchRuns{Start: start, End: end})
	if len(m.State().Runs) != 3 {
		t.Fatalf("loaded %d runs, want 3", len(m.State().Runs))
	}
	return m, repo
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

// complete runs effect against repo and feeds the outcome back, the way
// the command from commands.Effects would.
func complete(t *testing.T, m Model, repo run.Repository, e board.Effect) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, commands.EffectDoneMsg{
		Effect: e,
		Action: board.Execute(context.Background(), repo, e),
	})
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m, _ = update(t, m, keyMsg(k))
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestNew_StartsLoading(t *testing.T) {
	repo := runtest.NewMemory()
	m := New(repo, config.Default(), nil, WithClock(func() time.Time { return at(2024, 3, 15, 17) }))

	s := m.State()
	if !s.Loading {
		t.Error("expected the initial fetch to be in flight")
	}
	if s.View != calendar.ViewMonth || !m.Cursor().Equal(at(2024, 3, 15, 0)) {
		t.Errorf("view=%s cursor=%v", s.View, m.Cursor())
	}
	if m.Init() == nil {
		t.Error("Init should fetch runs")
	}
}

func TestModel_DragAndConfirm(t *testing.T) {
	m, repo := newTestModel(t)

	m = press(t, m, "space")
	if dragged := m.State().DraggedRun(); dragged == nil || dragged.ID != 1 {
		t.Fatalf("expected Sourdough picked up, got %#v", m.State().Drag)
	}

	m = press(t, m, "l", "l", "l", "right")
	if !m.State().Hover.Equal(at(2024, 3, 14, 0)) {
		t.Errorf("hover = %v, want Mar 14", m.State().Hover)
	}

	m = press(t, m, "space")
	draft, ok := m.State().Draft()
	if !ok || draft.DaysDelta != 4 {
		t.Fatalf("got draft %+v, want delta 4", draft)
	}
	view := m.View()
	if !strings.Contains(view, "Reschedule to Mar 14?") {
		t.Errorf("popover missing from view:\n%s", view)
	}
	if !strings.Contains(view, "Mar 14 08:00 → Mar 16 08:00") {
		t.Errorf("popover should show the new dates:\n%s", view)
	}

	m, cmd := update(t, m, keyMsg("y"))
	if cmd == nil {
		t.Fatal("confirming should schedule the commit")
	}
	if m.State().Notice != "Saving…" {
		t.Errorf("notice = %q", m.State().Notice)
	}

	commit := board.CommitReschedule{Command: reschedule.Command{Kind: reschedule.KindReschedule, RunID: 1, DaysDelta: 4}}
	m, cmd = complete(t, m, repo, commit)
	if len(repo.Updates) != 1 {
		t.Fatalf("got %d updates, want 1", len(repo.Updates))
	}
	if cmd == nil {
		t.Error("a commit should trigger a refetch")
	}
	if got := m.State().Notice; got != "Rescheduled Sourdough to Mar 14" {
		t.Errorf("notice = %q", got)
	}
	if !strings.Contains(m.View(), "Rescheduled Sourdough to Mar 14") {
		t.Error("notice should be shown in the footer")
	}
}

func TestModel_CancelKeepsRun(t *testing.T) {
	m, repo := newTestModel(t)

	m = press(t, m, "space", "l", "l", "space", "n")
	if _, ok := m.State().Drag.(reschedule.Idle); !ok {
		t.Errorf("drag state = %#v, want Idle", m.State().Drag)
	}
	if len(repo.Updates) != 0 {
		t.Errorf("cancel should not write, got %d updates", len(repo.Updates))
	}
	if strings.Contains(m.View(), "Reschedule to") {
		t.Error("popover should be closed")
	}
}

func TestModel_EscAbortsDrag(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "space", "l", "esc")
	if m.isDragging() {
		t.Error("esc should drop the carried run")
	}
	g := m.State().Grid()
	for _, c := range g.Cells {
		if c.IsDragOver {
			t.Errorf("%v still marked drag-over", c.Date)
		}
	}
}

func TestModel_DropOnSameDay(t *testing.T) {
	m, repo := newTestModel(t)

	m = press(t, m, "space", "space")
	if _, ok := m.State().Draft(); ok {
		t.Error("dropping on the start day should not ask for confirmation")
	}
	if m.status != "Run already starts on Mar 10" {
		t.Errorf("status = %q", m.status)
	}
	if len(repo.Updates) != 0 {
		t.Error("nothing should be written")
	}
}

func TestModel_CarryIntoNextMonth(t *testing.T) {
	m, repo := newTestModel(t)

	m = press(t, m, "space", "]")
	if got := m.State().Title(); got != "April 2024" {
		t.Fatalf("title = %q", got)
	}
	start, end := m.State().Range()
	m, _ = complete(t, m, repo, board.FetchRuns{Start: start, End: end})
	if len(m.State().Runs) != 0 {
		t.Fatalf("April snapshot has %d runs, want 0", len(m.State().Runs))
	}
	if dragged := m.State().DraggedRun(); dragged == nil || dragged.ID != 1 {
		t.Fatalf("Sourdough should still be carried, got %+v", dragged)
	}

	m = press(t, m, "space")
	draft, ok := m.State().Draft()
	if !ok || draft.DaysDelta != 31 {
		t.Fatalf("got draft %+v, want delta 31", draft)
	}
	if strings.Contains(m.status, "already starts") {
		t.Errorf("status = %q", m.status)
	}
	if view := m.View(); !strings.Contains(view, "Apr 10 08:00 → Apr 12 08:00") {
		t.Errorf("popover should show the new dates:\n%s", view)
	}

	m, cmd := update(t, m, keyMsg("y"))
	if cmd == nil {
		t.Fatal("confirming should schedule the commit")
	}
	commit := board.CommitReschedule{Command: reschedule.Command{Kind: reschedule.KindReschedule, RunID: 1, DaysDelta: 31}}
	m, _ = complete(t, m, repo, commit)
	if len(repo.Updates) != 1 {
		t.Fatalf("got %d updates, want 1", len(repo.Updates))
	}
	if got := repo.Snapshot(1).StartDate; !got.Equal(at(2024, 4, 10, 8)) {
		t.Errorf("stored start = %v, want Apr 10 08:00", got)
	}
	if got := m.State().Notice; got != "Rescheduled Sourdough to Apr 10" {
		t.Errorf("notice = %q", got)
	}
}

func TestModel_DropOfDeletedRunIsSilent(t *testing.T) {
	m, repo := newTestModel(t)

	m = press(t, m, "space", "l", "l")
	if err := repo.DeleteRun(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	m = press(t, m, "r")
	start, end := m.State().Range()
	m, _ = complete(t, m, repo, board.FetchRuns{Start: start, End: end})

	m = press(t, m, "space")
	if _, ok := m.State().Drag.(reschedule.Idle); !ok {
		t.Errorf("drag state = %#v, want Idle", m.State().Drag)
	}
	if m.status != "" {
		t.Errorf("status = %q, want none", m.status)
	}
	if strings.Contains(m.View(), "Reschedule to") {
		t.Error("no popover expected")
	}
	if len(repo.Updates) != 0 {
		t.Errorf("got %d updates, want none", len(repo.Updates))
	}
}

func TestModel_PickOnEmptyDay(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "h", "space")
	if m.isDragging() {
		t.Error("nothing to pick up on Mar 9")
	}
	if m.status != "No run on Sat Mar 9" {
		t.Errorf("status = %q", m.status)
	}
}

func TestModel_WarningInPopover(t *testing.T) {
	m, _ := newTestModel(t)

	// Granola on Wed Mar 13, dropped on Sat Mar 16.
	m = press(t, m, "l", "l", "l", "space", "l", "l", "l", "space")
	if !strings.Contains(m.View(), "Sat Mar 16 is not a plant workday") {
		t.Errorf("expected workday warning:\n%s", m.View())
	}
}

func TestModel_CommitFailure(t *testing.T) {
	m, repo := newTestModel(t)
	repo.UpdateErr = errors.New("database is locked")

	m = press(t, m, "space", "l", "space", "y")
	commit := board.CommitReschedule{Command: reschedule.Command{Kind: reschedule.KindReschedule, RunID: 1, DaysDelta: 1}}
	m, _ = complete(t, m, repo, commit)

	if !errors.Is(m.State().CommitErr, repo.UpdateErr) {
		t.Errorf("commit error = %v", m.State().CommitErr)
	}
	if !strings.Contains(m.View(), "Reschedule of run 1 failed") {
		t.Error("failure should be shown in the footer")
	}
}

func TestModel_StaleFetchIsDropped(t *testing.T) {
	m, repo := newTestModel(t)
	marchStart, marchEnd := m.State().Range()

	m = press(t, m, "]")
	if got := m.State().Title(); got != "April 2024" {
		t.Fatalf("title = %q", got)
	}

	m, _ = update(t, m, commands.EffectDoneMsg{
		Effect: board.FetchRuns{Start: marchStart, End: marchEnd},
		Action: board.RunsLoaded{},
	})
	if len(m.State().Runs) != 3 || !m.State().Loading {
		t.Errorf("stale result applied: runs=%d loading=%v", len(m.State().Runs), m.State().Loading)
	}

	start, end := m.State().Range()
	m, _ = complete(t, m, repo, board.FetchRuns{Start: start, End: end})
	if m.State().Loading {
		t.Error("current fetch should finish loading")
	}
}

func TestModel_MovingPastGridFetches(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "w")
	if m.State().View != calendar.ViewWeek {
		t.Fatalf("view = %s", m.State().View)
	}
	// Mar 10 is the first day of its week.
	m, cmd := update(t, m, keyMsg("h"))
	if cmd == nil || !m.State().Loading {
		t.Error("leaving the week should fetch the previous one")
	}
	if got := m.State().Title(); got != "Mar 3 - Mar 9, 2024" {
		t.Errorf("title = %q", got)
	}
}

func TestModel_FilterAndViews(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "f")
	if m.State().StatusFilter != run.Statuses()[0] {
		t.Errorf("filter = %q, want first status", m.State().StatusFilter)
	}

	m = press(t, m, "d")
	if m.State().View != calendar.ViewDay {
		t.Errorf("view = %s, want day", m.State().View)
	}
	if !strings.Contains(m.View(), "Sunday, March 10") {
		t.Errorf("day view header missing:\n%s", m.View())
	}
}

func TestModel_WeekViewShowsRuns(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "w")

	view := m.View()
	for _, want := range []string{"Sun 10", "08:00 ✓ Sour", "◀ ✓ Sourdough", "06:00 ⚠ Granola"} {
		if !strings.Contains(view, want) {
			t.Errorf("week view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_SummaryModal(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := update(t, m, keyMsg("s"))
	if m.mode != ModeSummary || cmd == nil {
		t.Fatalf("mode=%v cmd=%v, want summary modal and a command", m.mode, cmd)
	}
	if !strings.Contains(m.View(), "Building summary") {
		t.Error("expected a loading message")
	}

	s := summary.Summarize(at(2024, 3, 1, 0), at(2024, 3, 31, 0), sampleRuns())
	m, _ = update(t, m, commands.SummaryMsg{Summary: s})
	view := m.View()
	if !strings.Contains(view, "RUNS: Mar 1 - Mar 31, 2024") || !strings.Contains(view, "Runs: 3") {
		t.Errorf("summary modal missing content:\n%s", view)
	}

	m = press(t, m, "esc")
	if m.mode != ModeNormal || m.summary != nil {
		t.Error("esc should close the summary")
	}
}

func TestNextFilter(t *testing.T) {
	statuses := run.Statuses()
	seen := map[run.Status]bool{}
	f := run.Status("")
	for range len(statuses) + 2 {
		f = nextFilter(f)
		seen[f] = true
	}
	if f != statuses[0] {
		t.Errorf("cycle should wrap through all, ended at %q", f)
	}
	if len(seen) != len(statuses)+1 {
		t.Errorf("saw %d filters, want %d", len(seen), len(statuses)+1)
	}
}
