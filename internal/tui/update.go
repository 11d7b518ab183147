package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stretchlp/stretchboard/internal/dateutil"
	"github.com/stretchlp/stretchboard/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.BlurMsg:
		// The terminal lost focus mid-drag; the release will never arrive.
		if m.board.Drag().Dragging() {
			return m.releaseDrag("capture lost")
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.autoRowLines()
		if m.board.Drag().Dragging() {
			m.board.Drag().MountArea(m.geometry().areaTop())
		}
		return m, nil

	case commands.DayLoadedMsg:
		if !dateutil.SameDay(msg.Day, m.day) {
			return m, nil // superseded by a later navigation
		}
		m.loading = false
		m.board.Load(msg.Day, msg.Bookings)
		if _, ok := m.board.WorkingSet().Get(m.selected); !ok {
			m.selected = ""
		}
		m.scrollToFirst()
		return m, nil

	case commands.LoadFailedMsg:
		if !dateutil.SameDay(msg.Day, m.day) {
			return m, nil
		}
		logError(m.log, "load day", msg.Err)
		m.loading = false
		m.day = m.board.Day()
		return m, m.setStatus(msg.Err.Error(), true)

	case commands.CommitResultMsg:
		reverted := m.committer.Resolve(m.board.WorkingSet(), msg.Write, msg.Err, msg.Elapsed)
		m.board.Drag().Finish()
		if msg.Err != nil {
			text := "Could not save " + msg.Write.Updated.Title + ": " + msg.Err.Error()
			if reverted {
				text += " (reverted)"
			}
			return m, m.setStatus(text, true)
		}
		action := "Moved"
		if msg.Write.Previous.Start.Equal(msg.Write.Updated.Start) {
			action = "Saved"
		}
		return m, m.setStatus(statusForOutcome(action, msg.Write.Updated), false)

	case commands.ExportedMsg:
		return m, m.setStatus("Exported "+msg.Path, false)

	case commands.CopiedMsg:
		return m, m.setStatus("Copied "+msg.What+" to clipboard", false)

	case commands.ErrMsg:
		logError(m.log, "command", msg.Err)
		return m, m.setStatus(msg.Err.Error(), true)

	case commands.StatusMsgCmd:
		return m, m.setStatus(msg.Msg, false)

	case commands.ClearStatusMsg:
		if msg.Set.Equal(m.statusTime) {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}

	return m, nil
}

// scrollToFirst brings the day's earliest booking into view.
func (m *Model) scrollToFirst() {
	first := 0
	for _, gl := range m.board.Groups() {
		if first == 0 || gl.StartRow < first {
			first = gl.StartRow
		}
	}
	if first > 0 {
		m.scrollTo(first)
	}
}

var _ tea.Model = Model{}
