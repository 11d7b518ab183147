package tui

import (
	"github.com/stretchlp/stretchboard/internal/booking"
	"github.com/stretchlp/stretchboard/internal/schedule"
)

const (
	headerHeight = 2
	timeColWidth = 6 // "09:00 "
	minGridLines = 3
)

// geometry maps grid rows and columns to screen cells.
type geometry struct {
	width    int
	gridTop  int // screen line of the first visible row
	gridH    int // lines available to the grid
	left     int // first board column
	boardW   int
	rowLines int
	scroll   int // rows scrolled off the top
	rows     int
}

// blockRect is a booking as painted on screen. Y may be above the grid
// when the block is scrolled partly out of view.
type blockRect struct {
	Booking booking.Booking
	X, Y    int
	W, H    int
}

func (r blockRect) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func (r blockRect) origin() schedule.Point {
	return schedule.Point{X: r.X, Y: r.Y}
}

func (m Model) geometry() geometry {
	footerH := m.footerHeight()
	return geometry{
		width:    m.width,
		gridTop:  headerHeight,
		gridH:    max(0, m.height-headerHeight-footerH),
		left:     timeColWidth,
		boardW:   max(0, m.width-timeColWidth),
		rowLines: m.rowLines,
		scroll:   m.scroll,
		rows:     m.board.TotalRows(),
	}
}

// rowY returns the screen line of 1-based row.
func (g geometry) rowY(row int) int {
	return g.gridTop + (row-1-g.scroll)*g.rowLines
}

// areaTop is where row 1 would be drawn, even when scrolled away. The drag
// controller measures pointer offsets from here.
func (g geometry) areaTop() int {
	return g.gridTop - g.scroll*g.rowLines
}

func (g geometry) visibleRows() int {
	if g.rowLines <= 0 {
		return 0
	}
	return g.gridH / g.rowLines
}

func (g geometry) maxScroll() int {
	return max(0, g.rows-g.visibleRows())
}

func (g geometry) inGrid(y int) bool {
	return y >= g.gridTop && y < g.gridTop+g.gridH
}

// blocks places every booking of every group. Each group splits the board
// width evenly between its columns.
func (g geometry) blocks(groups []schedule.GroupLayout) []blockRect {
	var rects []blockRect
	for _, gl := range groups {
		if gl.ColumnCount <= 0 {
			continue
		}
		colW := max(1, g.boardW/gl.ColumnCount)
		for _, col := range gl.Columns {
			x := g.left + col.ColumnIndex*colW
			w := colW
			if col.ColumnIndex == gl.ColumnCount-1 {
				w = g.left + g.boardW - x
			}
			if w > 2 {
				w-- // gutter
			}
			rects = append(rects, blockRect{
				Booking: col.Booking,
				X:       x,
				Y:       g.rowY(col.Placement.StartRow),
				W:       max(1, w),
				H:       col.SpanRows * g.rowLines,
			})
		}
	}
	return rects
}

// hit returns the topmost visible block under (x, y).
func (g geometry) hit(rects []blockRect, x, y int) (blockRect, bool) {
	if !g.inGrid(y) {
		return blockRect{}, false
	}
	for i := len(rects) - 1; i >= 0; i-- {
		if rects[i].contains(x, y) {
			return rects[i], true
		}
	}
	return blockRect{}, false
}
