// Package view provides view composition helpers for the board.
package view

import "github.com/charmbracelet/lipgloss"

// OverlayRenderer renders modal overlays on top of base content.
type OverlayRenderer interface {
	Render(base string, width, height int, content string) string
}

// Frame holds the pre-rendered sections of one screen.
type Frame struct {
	Width  int
	Height int
	Header string
	Body   string
	Footer string
	Bg     lipgloss.Color

	Modal   string // empty when no modal is open
	Overlay OverlayRenderer

	Placeholder string
}

// Render stacks header, body and footer, pads to the terminal and draws the
// modal over the result.
func Render(f Frame) string {
	if f.Width == 0 || f.Height == 0 {
		if f.Placeholder != "" {
			return f.Placeholder
		}
		return "Loading..."
	}

	parts := make([]string, 0, 3)
	for _, p := range []string{f.Header, f.Body, f.Footer} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	base := PadLinesWithBackground(lipgloss.JoinVertical(lipgloss.Left, parts...), f.Width, f.Height, f.Bg)

	if f.Modal != "" && f.Overlay != nil {
		return f.Overlay.Render(base, f.Width, f.Height, f.Modal)
	}
	return base
}
