// Package tui provides the terminal calendar of production runs.
package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/runcal/internal/board"
	"github.com/javiermolinar/runcal/internal/calendar"
	"github.com/javiermolinar/runcal/internal/config"
	"github.com/javiermolinar/runcal/internal/reschedule"
	"github.com/javiermolinar/runcal/internal/run"
	"github.com/javiermolinar/runcal/internal/scheduler"
	"github.com/javiermolinar/runcal/internal/summary"
	"github.com/javiermolinar/runcal/internal/tui/commands"
	"github.com/javiermolinar/runcal/internal/tui/theme"
)

// Mode represents the current interaction mode. Drag state lives in the
// board state, not here.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSummary
)

// Layout rows outside the grid.
const (
	headerLines = 2 // title bar and weekday row
	footerLines = 2 // status and help
)

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo   run.Repository
	config *config.Config
	log    *zap.Logger
	sched  *scheduler.Scheduler
	now    func() time.Time

	styles *Styles

	state    board.State // Reference is the focused day
	initial  []board.Effect
	selected int       // index into the runs of the focused day
	mode     Mode
	status   string

	// Summary modal
	summary        *summary.Summary
	summaryView    viewport.Model
	summaryLoading bool

	spinner spinner.Model

	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithClock overrides the clock used for "today".
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// New creates a model reading and writing runs through repo.
func New(repo run.Repository, cfg *config.Config, log *zap.Logger, opts ...Option) Model {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		log.Warn("loading theme", zap.Error(err))
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	m := Model{
		repo:    repo,
		config:  cfg,
		log:     log,
		sched:   scheduler.New(cfg.Calendar.Workdays, cfg.Calendar.ShiftStart, cfg.Calendar.ShiftEnd),
		now:     time.Now,
		styles:  NewStyles(t),
		width:   80,
		height:  24,
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.state, m.initial = board.Reduce(board.New(m.now(), cfg.View(), cfg.StatusFilter()), board.RunsRequested{})
	m.summaryView = viewport.New(0, 0)
	s.Style = m.styles.StatusStyle
	m.spinner = s
	return m
}

// Init loads the runs of the initial grid.
func (m Model) Init() tea.Cmd {
	return tea.Batch(commands.Effects(m.repo, m.initial), m.spinner.Tick)
}

// State returns the board state behind the model.
func (m Model) State() board.State {
	return m.state
}

// Cursor returns the focused day.
func (m Model) Cursor() time.Time {
	return m.state.Reference
}

// Run starts the TUI.
func Run(repo run.Repository, cfg *config.Config, log *zap.Logger) error {
	if repo == nil {
		return errors.New("tui: no run repository")
	}
	m := New(repo, cfg, log)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// dispatch reduces a into the board state and schedules its effects.
func (m Model) dispatch(a board.Action) (Model, tea.Cmd) {
	wasBusy := m.busy()
	var effects []board.Effect
	m.state, effects = board.Reduce(m.state, a)
	board.LogAction(m.log, m.state, a)

	cmd := commands.Effects(m.repo, effects)
	if !wasBusy && m.busy() {
		cmd = tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}

// cursorRuns returns the visible runs on the focused day.
func (m Model) cursorRuns() []*run.Run {
	return calendar.RunsOn(m.state.Reference, m.state.Visible())
}

// selectedRun returns the run under the cursor, or nil.
func (m Model) selectedRun() *run.Run {
	runs := m.cursorRuns()
	if len(runs) == 0 {
		return nil
	}
	return runs[min(m.selected, len(runs)-1)]
}

// isDragging reports whether a run is being carried.
func (m Model) isDragging() bool {
	_, ok := reschedule.DraggedRun(m.state.Drag)
	return ok
}

// isConfirming reports whether a reschedule awaits an answer.
func (m Model) isConfirming() bool {
	_, ok := m.state.Draft()
	return ok
}

// busy reports whether the spinner should run.
func (m Model) busy() bool {
	return m.state.Loading || m.summaryLoading
}
