package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PlaceBox renders content in a lipgloss.Place box with background fill.
func PlaceBox(w, h int, vAlign lipgloss.Position, content string, bg lipgloss.Color) string {
	placed := lipgloss.Place(w, h, lipgloss.Left, vAlign, content,
		lipgloss.WithWhitespaceBackground(bg))
	return PadLinesWithBackground(placed, w, h, bg)
}

// PadLinesWithBackground pads or cuts content to exactly width x height,
// filling the gaps with bg.
func PadLinesWithBackground(content string, width, height int, bg lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return content
	}
	pad := lipgloss.NewStyle().Background(bg)

	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		switch w := lipgloss.Width(line); {
		case w > width:
			lines[i] = ansi.Truncate(line, width, "")
		case w < width:
			lines[i] = line + pad.Render(strings.Repeat(" ", width-w))
		}
	}
	return strings.Join(lines, "\n")
}

// Truncate shortens s to width cells, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return ansi.Truncate(s, width, "…")
}

// Line renders content in style, padded or cut to width.
func Line(width int, style lipgloss.Style, content string) string {
	frameW, _ := style.GetFrameSize()
	inner := max(0, width-frameW)
	return style.Width(inner).Render(ansi.Truncate(content, inner, ""))
}
