package tui

import (
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stretchlp/stretchboard/internal/booking"
	"github.com/stretchlp/stretchboard/internal/dateutil"
	"github.com/stretchlp/stretchboard/internal/tui/commands"
)

type keyMap struct {
	Quit    key.Binding
	PrevDay key.Binding
	NextDay key.Binding
	Today   key.Binding
	Reload  key.Binding
	Up      key.Binding
	Down    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Open    key.Binding
	Export  key.Binding
	Help    key.Binding

	// Detail view
	Close   key.Binding
	Save    key.Binding
	Status  key.Binding
	Course  key.Binding
	Earlier key.Binding
	Later   key.Binding
	Copy    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		PrevDay: key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/l", "day")),
		NextDay: key.NewBinding(key.WithKeys("l", "right")),
		Today:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "scroll")),
		Down:    key.NewBinding(key.WithKeys("j", "down")),
		Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "select")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),

		Close:   key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "close")),
		Save:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Status:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status")),
		Course:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "course")),
		Earlier: key.NewBinding(key.WithKeys("[", "-"), key.WithHelp("[/]", "time")),
		Later:   key.NewBinding(key.WithKeys("]", "+")),
		Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevDay, k.Today, k.Next, k.Open, k.Export, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevDay, k.Today, k.Reload, k.Up},
		{k.Next, k.Open, k.Export},
		{k.Help, k.Quit},
	}
}

func (k keyMap) detailHelp() []key.Binding {
	return []key.Binding{k.Save, k.Status, k.Course, k.Earlier, k.Copy, k.Close}
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	logKeyPress(m.log, msg)

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	// Keys are ignored mid-gesture.
	if m.board.Drag().Dragging() {
		return m, nil
	}
	if m.showHelp {
		m.showHelp = false
		m.overlay.Hide()
		return m, nil
	}
	if m.detail != nil {
		return m.handleDetailKeys(msg)
	}
	return m.handleNormalKeys(msg)
}

// handleNormalKeys handles keys on the board.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.PrevDay):
		return m, m.gotoDay(dateutil.AddDays(m.day, -1))
	case key.Matches(msg, m.keys.NextDay):
		return m, m.gotoDay(dateutil.AddDays(m.day, 1))
	case key.Matches(msg, m.keys.Today):
		return m, m.gotoDay(m.nowFunc())
	case key.Matches(msg, m.keys.Reload):
		return m, m.loadDay(m.day)

	case key.Matches(msg, m.keys.Up):
		m.scroll--
		m.clampScroll()
	case key.Matches(msg, m.keys.Down):
		m.scroll++
		m.clampScroll()

	case key.Matches(msg, m.keys.Next):
		m.cycleSelection(1)
	case key.Matches(msg, m.keys.Prev):
		m.cycleSelection(-1)
	case key.Matches(msg, m.keys.Open):
		if b, ok := m.board.WorkingSet().Get(m.selected); ok {
			m.openDetail(b)
		}

	case key.Matches(msg, m.keys.Export):
		if m.exporter == nil {
			return m, m.setStatus("Export is not configured", true)
		}
		return m, commands.Export(m.exporter, m.config.Export.Dir, m.board.Day(), m.board.WorkingSet().Bookings())

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.overlay.Show()
	}
	return m, nil
}

// gotoDay starts loading day. The current board stays visible until the
// fetch returns.
func (m *Model) gotoDay(day time.Time) tea.Cmd {
	m.selected = ""
	return m.loadDay(day)
}

// cycleSelection moves keyboard focus through the day in start order.
func (m *Model) cycleSelection(step int) {
	bookings := m.board.WorkingSet().Bookings()
	if len(bookings) == 0 {
		m.selected = ""
		return
	}
	slices.SortStableFunc(bookings, func(a, b booking.Booking) int {
		return a.Start.Compare(b.Start)
	})

	idx := slices.IndexFunc(bookings, func(b booking.Booking) bool { return b.ID == m.selected })
	switch {
	case idx < 0 && step > 0:
		idx = 0
	case idx < 0:
		idx = len(bookings) - 1
	default:
		idx = (idx + step + len(bookings)) % len(bookings)
	}
	m.selected = bookings[idx].ID
	m.scrollTo(m.board.Grid().Placement(bookings[idx]).StartRow)
}

func statusForOutcome(action string, b booking.Booking) string {
	return fmt.Sprintf("%s %s (%s-%s)", action, b.Title, b.Start.Format("15:04"), b.End.Format("15:04"))
}
