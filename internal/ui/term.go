package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/runcal/internal/run"
)

var (
	colorHeader  = color.New(color.Bold)
	colorInsight = color.New(color.FgYellow)
	colorMuted   = color.New(color.FgWhite, color.Faint)
	colorToday   = color.New(color.FgCyan, color.Bold)
	colorWarning = color.New(color.FgYellow, color.Bold)
)

// statusColors maps badge styles to terminal colors.
var statusColors = map[string]*color.Color{
	run.StyleSuccess:   color.New(color.FgGreen),
	run.StyleConfirmed: color.New(color.FgGreen, color.Bold),
	run.StyleWarning:   color.New(color.FgYellow, color.Bold),
	run.StyleInfo:      color.New(color.FgBlue),
	run.StyleActive:    color.New(color.FgMagenta),
	run.StylePending:   color.New(color.FgCyan),
	run.StyleMuted:     color.New(color.FgWhite, color.Faint),
	run.StyleDone:      color.New(color.FgGreen, color.Faint),
}

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

func formatHeader(s string) string  { return colorHeader.Sprint(s) }
func formatInsight(s string) string { return colorInsight.Sprint(s) }
func formatMuted(s string) string   { return colorMuted.Sprint(s) }
func formatToday(s string) string   { return colorToday.Sprint(s) }
func formatWarning(s string) string { return colorWarning.Sprint(s) }

// formatStatus colors s with the badge style of status.
func formatStatus(status run.Status, s string) string {
	if c, ok := statusColors[status.Badge().Style]; ok {
		return c.Sprint(s)
	}
	return s
}
