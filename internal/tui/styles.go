package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/stretchlp/stretchboard/internal/booking"
	"github.com/stretchlp/stretchboard/internal/tui/theme"
	"github.com/stretchlp/stretchboard/internal/tui/view"
)

// Fixed canvas styles. Block styles are appended after these.
const (
	styleBg view.StyleID = iota
	styleGridAlt
	styleHourLabel
	styleHalfLabel
	styleNow
	styleHover
	styleHoverLabel
	styleGhost
	styleEmptyHint
	fixedStyleCount
)

type blockKey struct {
	status   booking.Status
	pending  bool
	selected bool
}

// Styles holds all lipgloss styles for the board, derived from a theme.
type Styles struct {
	palette *theme.Palette

	colorBg lipgloss.Color

	Header        lipgloss.Style
	HeaderDate    lipgloss.Style
	HeaderMuted   lipgloss.Style
	HeaderLoading lipgloss.Style
	Rule          lipgloss.Style

	Footer view.FooterStyles
	Modal  view.ModalStyles
	Help   help.Styles

	canvas []lipgloss.Style
	blocks map[blockKey]view.StyleID
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{
		palette: p,
		colorBg: p.Bg,
		blocks:  make(map[blockKey]view.StyleID),
	}

	s.Header = lipgloss.NewStyle().
		Foreground(p.Fg).
		Background(p.Surface)
	s.HeaderDate = s.Header.
		Foreground(p.Accent).
		Bold(true)
	s.HeaderMuted = s.Header.
		Foreground(p.FgMuted)
	s.HeaderLoading = s.Header.
		Foreground(p.Ghost).
		Italic(true)
	s.Rule = lipgloss.NewStyle().
		Foreground(p.FgMuted).
		Background(p.Bg)

	s.Footer = view.FooterStyles{
		Base:   lipgloss.NewStyle().Foreground(p.Fg).Background(p.Bg),
		Status: lipgloss.NewStyle().Foreground(p.Accent).Background(p.Bg),
		Error:  lipgloss.NewStyle().Foreground(p.NowLine).Background(p.Bg).Bold(true),
		Help:   lipgloss.NewStyle().Foreground(p.FgMuted).Background(p.Bg),
	}

	modalText := lipgloss.NewStyle().Foreground(p.Fg).Background(p.ModalBg)
	s.Modal = view.ModalStyles{
		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.ModalBorder).
			BorderBackground(p.ModalBg).
			Background(p.ModalBg).
			Foreground(p.Fg).
			Padding(1, 2),
		Title:        modalText.Foreground(p.Accent).Bold(true),
		Body:         modalText,
		Label:        modalText.Foreground(p.FgMuted),
		Hint:         modalText.Foreground(p.Ghost),
		Button:       modalText.Foreground(p.FgMuted),
		ButtonActive: modalText.Foreground(p.Accent).Bold(true),
	}

	s.Help = help.New().Styles
	s.Help.ShortKey = lipgloss.NewStyle().Foreground(p.Accent).Background(p.Bg)
	s.Help.ShortDesc = lipgloss.NewStyle().Foreground(p.FgMuted).Background(p.Bg)
	s.Help.ShortSeparator = lipgloss.NewStyle().Foreground(p.FgMuted).Background(p.Bg)
	s.Help.FullKey = s.Help.ShortKey
	s.Help.FullDesc = s.Help.ShortDesc
	s.Help.FullSeparator = s.Help.ShortSeparator

	s.canvas = make([]lipgloss.Style, fixedStyleCount)
	s.canvas[styleBg] = lipgloss.NewStyle().Background(p.Bg).Foreground(p.Fg)
	s.canvas[styleGridAlt] = lipgloss.NewStyle().Background(p.GridLine).Foreground(p.Fg)
	s.canvas[styleHourLabel] = lipgloss.NewStyle().Background(p.Bg).Foreground(p.Accent)
	s.canvas[styleHalfLabel] = lipgloss.NewStyle().Background(p.Bg).Foreground(p.FgMuted)
	s.canvas[styleNow] = lipgloss.NewStyle().Background(p.NowLine).Foreground(lipgloss.Color(theme.TextOn(string(p.NowLine)))).Bold(true)
	s.canvas[styleHover] = lipgloss.NewStyle().Background(p.Hover).Foreground(p.Fg)
	s.canvas[styleHoverLabel] = lipgloss.NewStyle().Background(p.Hover).Foreground(p.Ghost).Bold(true)
	s.canvas[styleGhost] = lipgloss.NewStyle().Background(p.Ghost).Foreground(p.GhostText).Bold(true)
	s.canvas[styleEmptyHint] = lipgloss.NewStyle().Background(p.Bg).Foreground(p.FgMuted).Italic(true)

	statuses := append([]booking.Status{""}, booking.Statuses...)
	for _, st := range statuses {
		c := p.Block(st)
		for _, pending := range []bool{false, true} {
			for _, selected := range []bool{false, true} {
				bg := c.Bg
				if pending {
					bg = c.Pending
				}
				style := lipgloss.NewStyle().Background(bg).Foreground(c.Fg)
				if selected {
					style = style.Bold(true).Underline(true)
				}
				if pending {
					style = style.Italic(true)
				}
				s.blocks[blockKey{st, pending, selected}] = view.StyleID(len(s.canvas))
				s.canvas = append(s.canvas, style)
			}
		}
	}

	return s
}

// Block returns the canvas style for a booking block.
func (s *Styles) Block(status booking.Status, pending, selected bool) view.StyleID {
	if !status.Valid() {
		status = ""
	}
	return s.blocks[blockKey{status, pending, selected}]
}

// Canvas returns the style table for view.Canvas.Render.
func (s *Styles) Canvas() []lipgloss.Style {
	return s.canvas
}

// Legend returns one footer swatch per status.
func (s *Styles) Legend() []view.LegendItem {
	items := make([]view.LegendItem, 0, len(booking.Statuses))
	for _, st := range booking.Statuses {
		items = append(items, view.LegendItem{
			Label:  st.Label(),
			Swatch: lipgloss.NewStyle().Background(s.palette.Block(st).Bg),
		})
	}
	return items
}
