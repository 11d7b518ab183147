package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stretchlp/stretchboard/internal/schedule"
	"github.com/stretchlp/stretchboard/internal/tui/commands"
)

// handleMouseMsg turns mouse events into drag controller calls.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	logMouse(m.log, msg)
	drag := m.board.Drag()
	pointer := schedule.Point{X: msg.X, Y: msg.Y}

	if msg.Action == tea.MouseActionPress {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scrollBy(-1)
			return m, nil
		case tea.MouseButtonWheelDown:
			m.scrollBy(1)
			return m, nil
		}
	}
	if m.detail != nil || m.showHelp {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || drag.Dragging() {
			return m, nil
		}
		g := m.geometry()
		rect, ok := g.hit(g.blocks(m.board.Groups()), msg.X, msg.Y)
		if !ok {
			m.selected = ""
			return m, nil
		}
		drag.MountArea(g.areaTop())
		if err := drag.PointerDown(rect.Booking, pointer, rect.origin()); err != nil {
			logError(m.log, "pointer down", err)
			return m, nil
		}
		m.dragRect = rect
		m.selected = rect.Booking.ID
		if s, ok := drag.Session(); ok {
			logDragStart(m.log, s)
		}

	case tea.MouseActionMotion:
		if !drag.Dragging() {
			return m, nil
		}
		m.autoScroll(msg.Y)
		drag.PointerMove(pointer)

	case tea.MouseActionRelease:
		if !drag.Dragging() {
			return m, nil
		}
		return m.releaseDrag("release")
	}
	return m, nil
}

// scrollBy scrolls the grid. A mounted drag area follows the scroll so
// hover slots stay aligned with what is drawn.
func (m *Model) scrollBy(rows int) {
	m.scroll += rows
	m.clampScroll()
	if m.board.Drag().Dragging() {
		m.board.Drag().MountArea(m.geometry().areaTop())
	}
}

// autoScroll scrolls one row when a drag reaches the grid's top or bottom
// edge.
func (m *Model) autoScroll(y int) {
	g := m.geometry()
	switch {
	case y < g.gridTop:
		m.scrollBy(-1)
	case y >= g.gridTop+g.gridH:
		m.scrollBy(1)
	}
}

// releaseDrag ends the gesture and acts on its outcome.
func (m Model) releaseDrag(reason string) (tea.Model, tea.Cmd) {
	drag := m.board.Drag()
	out, err := drag.PointerUp(m.board.Day())
	if err != nil {
		logError(m.log, "pointer up", err)
		return m, nil
	}
	logDragEnd(m.log, out, reason)

	switch out.Kind {
	case schedule.OutcomeClick:
		b := out.Original
		if current, ok := m.board.WorkingSet().Get(b.ID); ok {
			b = current
		}
		m.openDetail(b)
		return m, nil

	case schedule.OutcomeReschedule:
		w, err := m.committer.Begin(m.board.WorkingSet(), out.Updated)
		if err != nil {
			drag.Finish()
			logError(m.log, "begin commit", err)
			return m, m.setStatus(err.Error(), true)
		}
		return m, commands.Persist(m.committer, w)
	}
	return m, nil
}
