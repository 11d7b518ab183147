package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ModalStyles groups the styles needed to render modal frames and buttons.
type ModalStyles struct {
	Frame        lipgloss.Style
	Title        lipgloss.Style
	Body         lipgloss.Style
	Label        lipgloss.Style
	Hint         lipgloss.Style
	Button       lipgloss.Style
	ButtonActive lipgloss.Style
}

// Field is one labelled row of a modal body.
type Field struct {
	Label string
	Value string
	Hint  string // key hint shown after the value, e.g. "[s]"
}

// RenderFields aligns labels into a column.
func RenderFields(fields []Field, styles ModalStyles) string {
	labelW := 0
	for _, f := range fields {
		labelW = max(labelW, lipgloss.Width(f.Label))
	}

	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		label := styles.Label.Render(f.Label + strings.Repeat(" ", labelW-lipgloss.Width(f.Label)+2))
		line := label + styles.Body.Render(f.Value)
		if f.Hint != "" {
			line += styles.Body.Render(" ") + styles.Hint.Render(f.Hint)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// RenderModalFrame renders a modal with the provided title, body, and footer.
func RenderModalFrame(title, body, footer string, styles ModalStyles) string {
	var b strings.Builder
	b.WriteString(styles.Title.Render(title))
	if body != "" {
		b.WriteString("\n\n")
		b.WriteString(body)
	}
	if footer != "" {
		b.WriteString("\n\n")
		b.WriteString(footer)
	}
	return styles.Frame.Render(b.String())
}

// RenderModalButtons renders a row of buttons with the first one active.
func RenderModalButtons(styles ModalStyles, labels ...string) string {
	parts := make([]string, 0, len(labels))
	for i, label := range labels {
		style := styles.Button
		if i == 0 {
			style = styles.ButtonActive
		}
		parts = append(parts, style.Render(label))
	}
	return strings.Join(parts, styles.Body.Render(" "))
}
