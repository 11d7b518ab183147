package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// OverlayModel centers a rendered modal over the board.
type OverlayModel struct {
	active   bool
	backdrop lipgloss.Color
}

// NewOverlayModel initializes an overlay model.
func NewOverlayModel() OverlayModel {
	return OverlayModel{}
}

// Show makes the overlay visible.
func (o *OverlayModel) Show() {
	o.active = true
}

// Hide hides the overlay.
func (o *OverlayModel) Hide() {
	o.active = false
}

// Active reports whether the overlay is visible.
func (o OverlayModel) Active() bool {
	return o.active
}

// SetBackdrop sets the color painted over the board rows the modal covers.
// An empty color leaves the board visible around the modal.
func (o *OverlayModel) SetBackdrop(color lipgloss.Color) {
	o.backdrop = color
}

// Render draws content centered on top of base.
func (o OverlayModel) Render(base string, width, height int, content string) string {
	if !o.active || width <= 0 || height <= 0 {
		return base
	}

	box := contentLines(content)
	boxW, boxH := contentSize(box)
	if boxW == 0 || boxH == 0 {
		return base
	}
	boxW, boxH = min(boxW, width), min(boxH, height)

	top := max(0, (height-boxH)/2)
	left := max(0, (width-boxW)/2)

	lines := normalizeBase(base, width, height)
	for i := 0; i < boxH; i++ {
		row := top + i
		line := box[i]
		if w := lipgloss.Width(line); w > boxW {
			line = ansi.Cut(line, 0, boxW)
		} else if w < boxW {
			line += strings.Repeat(" ", boxW-w)
		}

		leftSlice := ansi.Cut(lines[row], 0, left)
		rightSlice := ansi.Cut(lines[row], left+boxW, width)
		if o.backdrop != "" {
			dim := lipgloss.NewStyle().Background(o.backdrop)
			leftSlice = dim.Render(strings.Repeat(" ", left))
			rightSlice = dim.Render(strings.Repeat(" ", max(0, width-left-boxW)))
		}
		lines[row] = leftSlice + line + ansi.ResetStyle + rightSlice
	}
	return strings.Join(lines, "\n")
}

func contentLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func contentSize(lines []string) (int, int) {
	maxWidth := 0
	for _, line := range lines {
		maxWidth = max(maxWidth, lipgloss.Width(line))
	}
	return maxWidth, len(lines)
}

func normalizeBase(base string, width, height int) []string {
	lines := strings.Split(base, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	lines = lines[:height]

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
