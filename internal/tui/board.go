package tui

import (
	"fmt"
	"time"

	"github.com/stretchlp/stretchboard/internal/booking"
	"github.com/stretchlp/stretchboard/internal/dateutil"
	"github.com/stretchlp/stretchboard/internal/tui/view"
)

const pendingMark = "↻ "

// renderBoard paints the grid, the booking blocks and the drag preview, in
// that order, onto a canvas the size of the grid area.
func (m Model) renderBoard() string {
	g := m.geometry()
	if g.width <= 0 || g.gridH <= 0 {
		return ""
	}
	c := view.NewCanvas(g.width, g.gridH, styleBg)

	m.paintGrid(c, g)
	m.paintHover(c, g)
	rects := g.blocks(m.board.Groups())
	m.paintBlocks(c, g, rects)
	m.paintNow(c, g)
	m.paintGhost(c, g)

	if len(rects) == 0 && !m.loading {
		msg := "No bookings"
		c.Text(g.left+max(0, (g.boardW-len(msg))/2), g.gridH/2, g.boardW, msg, styleEmptyHint)
	}
	return c.Render(m.styles.Canvas())
}

func (m Model) paintGrid(c *view.Canvas, g geometry) {
	for i, slot := range m.board.Grid().Slots() {
		y := g.rowY(i+1) - g.gridTop
		if y+g.rowLines <= 0 || y >= g.gridH {
			continue
		}
		hour := slot.Minutes / 60
		if hour%2 == 1 {
			c.Fill(g.left, y, g.boardW, g.rowLines, styleGridAlt)
		}
		labelStyle := styleHalfLabel
		if slot.Minutes%60 == 0 {
			labelStyle = styleHourLabel
		}
		c.Text(0, y, timeColWidth-1, slot.Label, labelStyle)
	}
}

// paintHover shades the rows the dragged booking would occupy if dropped.
func (m Model) paintHover(c *view.Canvas, g geometry) {
	dv := m.board.DragView()
	if !dv.Active || !dv.HasHovered {
		return
	}
	y := g.rowY(dv.HoveredSlot+1) - g.gridTop
	h := max(g.rowLines, m.dragRect.H)
	c.Fill(0, y, g.width, h, styleHover)
	c.Text(0, y, timeColWidth-1, m.board.Grid().SlotLabel(dv.HoveredSlot), styleHoverLabel)
}

func (m Model) paintBlocks(c *view.Canvas, g geometry, rects []blockRect) {
	ws := m.board.WorkingSet()
	for _, r := range rects {
		b := r.Booking
		pending := ws.Pending(b.ID) > 0
		style := m.styles.Block(b.Status, pending, b.ID == m.selected)

		y := r.Y - g.gridTop
		c.Fill(r.X, y, r.W, r.H, style)

		pad := 0
		if r.W >= 4 {
			pad = 1
		}
		for i, line := range blockLines(b, r.H, pending) {
			c.Text(r.X+pad, y+i, r.W-pad, view.Truncate(line, r.W-pad), style)
		}
	}
}

// blockLines returns the text of a block that is h lines tall.
func blockLines(b booking.Booking, h int, pending bool) []string {
	title := b.Title
	if pending {
		title = pendingMark + title
	}
	times := b.Start.Format("15:04") + "-" + b.End.Format("15:04")
	if h <= 1 {
		return []string{title + " " + times}
	}
	lines := []string{title, times}
	if h >= 3 {
		lines = append(lines, b.Status.Label())
	}
	if h >= 4 && b.CustomerName != "" && b.CustomerName != b.Title {
		lines = append(lines, b.CustomerName)
	}
	return lines
}

// paintNow marks the current time in the label column on today's board.
func (m Model) paintNow(c *view.Canvas, g geometry) {
	now := m.nowFunc()
	grid := m.board.Grid()
	if !dateutil.SameDay(now, m.board.Day()) {
		return
	}
	offset := now.Hour()*60 + now.Minute() - grid.StartHour*60
	if offset < 0 || offset >= grid.TotalRows()*grid.SlotMinutes {
		return
	}
	row := offset / grid.SlotMinutes
	sub := (offset % grid.SlotMinutes) * g.rowLines / grid.SlotMinutes
	y := g.rowY(row+1) - g.gridTop + sub
	c.Text(0, y, timeColWidth-1, now.Format("15:04"), styleNow)
}

// paintGhost draws the floating copy of the dragged booking at the pointer,
// keeping the grab offset.
func (m Model) paintGhost(c *view.Canvas, g geometry) {
	dv := m.board.DragView()
	if !dv.Active || !m.dragMoved() {
		return
	}
	x := dv.Pointer.X - dv.Offset.X
	y := dv.Pointer.Y - dv.Offset.Y - g.gridTop
	w, h := max(1, m.dragRect.W), max(1, m.dragRect.H)
	c.Fill(x, y, w, h, styleGhost)

	label := dv.Title
	if dv.HasHovered {
		label += " → " + m.board.Grid().SlotLabel(dv.HoveredSlot)
	}
	c.Text(x+1, y, w-1, view.Truncate(label, w-1), styleGhost)
	if h > 1 {
		s, _ := m.board.Drag().Session()
		c.Text(x+1, y+1, w-1, durationLabel(s.Booking.Duration()), styleGhost)
	}
}

func (m Model) dragMoved() bool {
	s, ok := m.board.Drag().Session()
	return ok && s.DidMove
}

func durationLabel(d time.Duration) string {
	return fmt.Sprintf("%d min", int(d.Minutes()))
}
