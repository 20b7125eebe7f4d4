package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// placeOverlay draws box over base with its top-left corner at (x, y).
// base is clipped and padded to width x height first; the box is clipped
// to the screen.
func placeOverlay(base, box string, x, y, width, height int) string {
	if width <= 0 || height <= 0 || box == "" {
		return base
	}

	lines := normalizeBase(base, width, height)
	boxLines := strings.Split(box, "\n")
	boxW := 0
	for _, l := range boxLines {
		boxW = max(boxW, lipgloss.Width(l))
	}
	x = min(max(x, 0), max(width-boxW, 0))
	y = max(y, 0)

	for i, l := range boxLines {
		row := y + i
		if row >= height {
			break
		}
		l = ansi.Cut(l, 0, width-x)
		w := lipgloss.Width(l)
		if w < boxW {
			l += strings.Repeat(" ", min(boxW, width-x)-w)
			w = min(boxW, width-x)
		}
		left := ansi.Cut(lines[row], 0, x)
		right := ansi.Cut(lines[row], x+w, width)
		lines[row] = left + ansi.ResetStyle + l + ansi.ResetStyle + right
	}
	return strings.Join(lines, "\n")
}

func normalizeBase(base string, width, height int) []string {
	lines := strings.Split(base, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}

	for i, line := range lines {
		lineWidth := lipgloss.Width(line)
		if lineWidth > width {
			lines[i] = ansi.Cut(line, 0, width)
			continue
		}
		if lineWidth < width {
			lines[i] = line + strings.Repeat(" ", width-lineWidth)
		}
	}
	return lines
}
