package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/runcal/internal/tui/theme"
)

// Minimum column width for a grid day.
const minColWidth = 8

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	TitleStyle   lipgloss.Style
	PeriodStyle  lipgloss.Style
	WeekdayStyle lipgloss.Style

	// Day number styles
	DayStyle      lipgloss.Style
	DayDimmed     lipgloss.Style
	DayToday      lipgloss.Style
	DayCursor     lipgloss.Style
	DayDragOver   lipgloss.Style
	HourStyle     lipgloss.Style
	EmptyDayStyle lipgloss.Style

	// Footer
	StatusStyle  lipgloss.Style
	ErrorStyle   lipgloss.Style
	HelpKeyStyle lipgloss.Style
	HelpStyle    lipgloss.Style

	// Modal and popover
	ModalStyle     lipgloss.Style
	ModalTitle     lipgloss.Style
	ModalMuted     lipgloss.Style
	PopoverStyle   lipgloss.Style
	PopoverWarning lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)

	return &Styles{
		palette: p,

		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.TextOnAccent).
			Background(p.Accent).
			Padding(0, 1),
		PeriodStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Fg).
			Padding(0, 1),
		WeekdayStyle: lipgloss.NewStyle().
			Foreground(p.FgMuted).
			Bold(true),

		DayStyle:  lipgloss.NewStyle().Foreground(p.Fg),
		DayDimmed: lipgloss.NewStyle().Foreground(p.FgMuted),
		DayToday: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.TextOnToday).
			Background(p.Today),
		DayCursor: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Fg).
			Background(p.BgSelection),
		DayDragOver: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.TextOnDragOver).
			Background(p.DragOver),
		HourStyle:     lipgloss.NewStyle().Foreground(p.FgMuted),
		EmptyDayStyle: lipgloss.NewStyle().Foreground(p.FgMuted).Italic(true),

		StatusStyle:  lipgloss.NewStyle().Foreground(p.Accent),
		ErrorStyle:   lipgloss.NewStyle().Foreground(p.DragOver).Bold(true),
		HelpKeyStyle: lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		HelpStyle:    lipgloss.NewStyle().Foreground(p.FgMuted),

		ModalStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Modal.Border).
			Foreground(p.Modal.Text).
			Padding(0, 1),
		ModalTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),
		ModalMuted: lipgloss.NewStyle().Foreground(p.Modal.Muted),
		PopoverStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.DragOver).
			Foreground(p.Modal.Text).
			Background(p.Modal.Bg).
			Padding(0, 1),
		PopoverWarning: lipgloss.NewStyle().
			Foreground(p.DragOver).
			Background(p.Modal.Bg),
	}
}

// CardStyle returns the style of a run card for a badge style.
func (s *Styles) CardStyle(badge string, past bool) lipgloss.Style {
	c := s.palette.Badge(badge)
	bg := c.Bg
	if past {
		bg = c.PastBg
	}
	return lipgloss.NewStyle().Foreground(c.Text).Background(bg)
}

// AccentStyle returns a foreground-only style in the badge color.
func (s *Styles) AccentStyle(badge string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.palette.Badge(badge).Fg)
}
