package schedule

import (
	"time"

	"github.com/stretchlp/stretchboard/internal/booking"
)

// Board ties a day's working set to the grid, layout policies and drag
// controller. It is what a renderer reads from.
type Board struct {
	grid TimeGrid
	opts Options
	ws   *WorkingSet
	drag *DragController
}

// NewBoard creates an empty board for day.
func NewBoard(grid TimeGrid, opts Options, day time.Time, rowHeight int) *Board {
	return &Board{
		grid: grid,
		opts: opts,
		ws:   NewWorkingSet(day),
		drag: NewDragController(grid, rowHeight),
	}
}

// Grid returns the board's time grid.
func (b *Board) Grid() TimeGrid { return b.grid }

// Options returns the layout policies.
func (b *Board) Options() Options { return b.opts }

// Day returns the displayed day.
func (b *Board) Day() time.Time { return b.ws.Day() }

// WorkingSet returns the mutable booking set.
func (b *Board) WorkingSet() *WorkingSet { return b.ws }

// Drag returns the drag controller.
func (b *Board) Drag() *DragController { return b.drag }

// Load replaces the board's bookings, keeping only those on day.
func (b *Board) Load(day time.Time, bookings []booking.Booking) {
	b.ws.Replace(day, ForDay(bookings, day))
}

// Groups returns the renderable groups for the current bookings.
func (b *Board) Groups() []GroupLayout {
	return LayoutDay(b.grid, ForDay(b.ws.Bookings(), b.ws.Day()), b.opts)
}

// TotalRows returns the number of grid rows.
func (b *Board) TotalRows() int {
	return b.grid.TotalRows()
}

// DragView returns the floating preview state.
func (b *Board) DragView() DragView {
	return b.drag.View()
}
