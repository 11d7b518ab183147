package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LegendItem is one colored swatch in the footer legend.
type LegendItem struct {
	Label  string
	Swatch lipgloss.Style
}

// FooterStyles groups the footer's text styles.
type FooterStyles struct {
	Base   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Help   lipgloss.Style
}

// Footer is the board's bottom section: legend, status and help lines.
type Footer struct {
	Width   int
	Legend  []LegendItem
	Status  string
	IsError bool
	Help    string
	Compact bool // status and help only
	Styles  FooterStyles
}

// Height returns the number of lines the footer renders.
func (f Footer) Height() int {
	if f.Compact {
		return 2
	}
	return 3
}

// RenderFooter renders the footer lines.
func RenderFooter(f Footer) string {
	if f.Width <= 0 {
		return ""
	}

	statusStyle := f.Styles.Status
	if f.IsError {
		statusStyle = f.Styles.Error
	}
	status := f.Status
	if status == "" {
		status = " "
	}

	lines := make([]string, 0, 3)
	if !f.Compact {
		lines = append(lines, Line(f.Width, f.Styles.Base, renderLegend(f.Legend, f.Styles.Base)))
	}
	lines = append(lines,
		Line(f.Width, statusStyle, status),
		Line(f.Width, f.Styles.Help, f.Help),
	)
	return strings.Join(lines, "\n")
}

func renderLegend(items []LegendItem, base lipgloss.Style) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString(base.Render("  "))
		}
		b.WriteString(item.Swatch.Render("  "))
		b.WriteString(base.Render(" " + item.Label))
	}
	return b.String()
}
