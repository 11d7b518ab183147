package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stretchlp/stretchboard/internal/dateutil"
	"github.com/stretchlp/stretchboard/internal/tui/view"
)

// compactHeight is the terminal height below which the legend is dropped.
const compactHeight = 20

// View renders the board.
func (m Model) View() string {
	if m.width > 0 && m.height > 0 && m.height < headerHeight+minGridLines+2 {
		return "Terminal too small"
	}

	modal := ""
	switch {
	case m.detail != nil:
		modal = m.renderDetail()
	case m.showHelp:
		modal = view.RenderModalFrame("Keys", m.help.FullHelpView(m.keys.FullHelp()), "", m.styles.Modal)
	}

	return view.Render(view.Frame{
		Width:       m.width,
		Height:      m.height,
		Header:      m.renderHeader(),
		Body:        m.renderBoard(),
		Footer:      view.RenderFooter(m.footer()),
		Bg:          m.styles.colorBg,
		Modal:       modal,
		Overlay:     m.overlay,
		Placeholder: "Loading...",
	})
}

func (m Model) renderHeader() string {
	if m.width <= 0 {
		return ""
	}
	s := m.styles

	left := s.HeaderMuted.Render(" ‹ ") +
		s.HeaderDate.Render(m.day.Format("Mon 2 Jan 2006")) +
		s.HeaderMuted.Render(" › ")
	if dateutil.SameDay(m.day, m.nowFunc()) {
		left += s.HeaderMuted.Render("today ")
	}

	var right string
	switch {
	case m.loading:
		right = s.HeaderLoading.Render("loading… ")
	default:
		right = s.HeaderMuted.Render(bookingCount(m.board.WorkingSet().Len()) + " ")
	}

	gap := max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	top := view.Line(m.width, s.Header, left+s.Header.Render(strings.Repeat(" ", gap))+right)
	rule := s.Rule.Render(strings.Repeat("─", m.width))
	return top + "\n" + rule
}

func bookingCount(n int) string {
	if n == 1 {
		return "1 booking"
	}
	return fmt.Sprintf("%d bookings", n)
}

func (m Model) footerHeight() int {
	if m.height < compactHeight {
		return 2
	}
	return 3
}

func (m Model) footer() view.Footer {
	bindings := m.keys.ShortHelp()
	if m.detail != nil {
		bindings = m.keys.detailHelp()
	}
	return view.Footer{
		Width:   m.width,
		Legend:  m.styles.Legend(),
		Status:  m.statusMsg,
		IsError: m.statusErr,
		Help:    m.help.ShortHelpView(bindings),
		Compact: m.footerHeight() == 2,
		Styles:  m.styles.Footer,
	}
}
