package schedule

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/stretchlp/stretchboard/internal/booking"
)

// Drag controller errors.
var (
	ErrNotDragging     = errors.New("not dragging")
	ErrAlreadyDragging = errors.New("already dragging a booking")
)

// DragState is the controller's position in its state machine.
type DragState int

const (
	DragIdle DragState = iota
	DragDragging
	DragCommitting
)

// String returns a short name for logs.
func (s DragState) String() string {
	switch s {
	case DragDragging:
		return "dragging"
	case DragCommitting:
		return "committing"
	default:
		return "idle"
	}
}

// Point is a pointer position in screen cells.
type Point struct {
	X, Y int
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// DragSession holds everything known about one gesture.
type DragSession struct {
	ID      uuid.UUID
	Booking booking.Booking // value at pointer-down
	Offset  Point           // pointer minus block origin
	Pointer Point           // live pointer position
	DidMove bool

	hovered    int
	hasHovered bool
}

// Hovered returns the last valid slot under the pointer.
func (s DragSession) Hovered() (int, bool) {
	return s.hovered, s.hasHovered
}

// OutcomeKind tells the caller what a released gesture means.
type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	// OutcomeClick means no movement happened; open the detail view.
	OutcomeClick
	// OutcomeDiscard means the pointer never hovered a valid slot.
	OutcomeDiscard
	// OutcomeReschedule carries a time-shifted booking to commit.
	OutcomeReschedule
)

// String returns a short name for logs.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeClick:
		return "click"
	case OutcomeDiscard:
		return "discard"
	case OutcomeReschedule:
		return "reschedule"
	default:
		return "none"
	}
}

// Outcome is the result of releasing a drag.
type Outcome struct {
	Kind      OutcomeKind
	SessionID uuid.UUID
	Original  booking.Booking
	Updated   booking.Booking // set for OutcomeReschedule only
	Slot      int
}

// DragView is what a renderer needs to paint the floating preview.
type DragView struct {
	Active      bool
	BookingID   string
	Title       string
	Color       string
	Pointer     Point
	Offset      Point
	HoveredSlot int
	HasHovered  bool
}

// DragController is the drag-to-reschedule state machine. It does no I/O;
// committing a reschedule is left to the caller.
type DragController struct {
	grid      TimeGrid
	rowHeight int

	areaTop     int
	areaMounted bool

	state   DragState
	session *DragSession
}

// NewDragController creates an idle controller for grid with rows of
// rowHeight cells.
func NewDragController(grid TimeGrid, rowHeight int) *DragController {
	return &DragController{
		grid:      grid,
		rowHeight: max(1, rowHeight),
	}
}

// SetGrid swaps the grid, e.g. after a config reload.
func (c *DragController) SetGrid(grid TimeGrid) {
	c.grid = grid
}

// SetRowHeight updates the number of cells per grid row.
func (c *DragController) SetRowHeight(h int) {
	c.rowHeight = max(1, h)
}

// RowHeight returns the number of cells per grid row.
func (c *DragController) RowHeight() int {
	return c.rowHeight
}

// MountArea records the top of the schedule area. Pointer moves are ignored
// for hover tracking until an area is mounted.
func (c *DragController) MountArea(top int) {
	c.areaTop = top
	c.areaMounted = true
}

// UnmountArea forgets the schedule area.
func (c *DragController) UnmountArea() {
	c.areaMounted = false
}

// State returns the current state.
func (c *DragController) State() DragState {
	return c.state
}

// Dragging reports whether a gesture is in progress.
func (c *DragController) Dragging() bool {
	return c.state == DragDragging
}

// Session returns a copy of the active session.
func (c *DragController) Session() (DragSession, bool) {
	if c.session == nil {
		return DragSession{}, false
	}
	return *c.session, true
}

// PointerDown starts dragging b. origin is the top-left cell of the rendered
// block. A press while a commit is outstanding finishes that commit first.
func (c *DragController) PointerDown(b booking.Booking, pointer, origin Point) error {
	switch c.state {
	case DragDragging:
		return ErrAlreadyDragging
	case DragCommitting:
		c.Finish()
	}

	c.session = &DragSession{
		ID:      uuid.New(),
		Booking: b,
		Offset:  pointer.Sub(origin),
		Pointer: pointer,
	}
	c.state = DragDragging
	return nil
}

// PointerMove tracks the pointer. It reports whether the hovered slot changed.
// Positions outside the grid keep the last valid slot.
func (c *DragController) PointerMove(pointer Point) bool {
	if c.state != DragDragging || !c.areaMounted {
		return false
	}
	s := c.session
	s.DidMove = true
	s.Pointer = pointer

	slot, ok := c.grid.SlotAt(pointer.Y-c.areaTop, c.rowHeight)
	if !ok {
		return false
	}
	changed := !s.hasHovered || s.hovered != slot
	s.hovered = slot
	s.hasHovered = true
	return changed
}

// PointerUp releases the drag and classifies the gesture. A reschedule
// leaves the controller in DragCommitting until Finish is called.
func (c *DragController) PointerUp(day time.Time) (Outcome, error) {
	if c.state != DragDragging {
		return Outcome{}, ErrNotDragging
	}
	s := c.session
	out := Outcome{SessionID: s.ID, Original: s.Booking}

	switch {
	case !s.DidMove:
		out.Kind = OutcomeClick
	case !s.hasHovered:
		out.Kind = OutcomeDiscard
	default:
		out.Kind = OutcomeReschedule
		out.Slot = s.hovered
		out.Updated = Reschedule(s.Booking, day, s.hovered, c.grid)
	}

	if out.Kind == OutcomeReschedule {
		c.state = DragCommitting
		return out, nil
	}
	c.reset()
	return out, nil
}

// CaptureLost ends a drag whose pointer capture went away, using the last
// hovered slot as the drop target.
func (c *DragController) CaptureLost(day time.Time) (Outcome, error) {
	return c.PointerUp(day)
}

// Finish returns a committing controller to idle.
func (c *DragController) Finish() {
	if c.state == DragCommitting {
		c.reset()
	}
}

func (c *DragController) reset() {
	c.state = DragIdle
	c.session = nil
}

// View returns the preview state for rendering.
func (c *DragController) View() DragView {
	if c.state != DragDragging || c.session == nil {
		return DragView{}
	}
	s := c.session
	return DragView{
		Active:      true,
		BookingID:   s.Booking.ID,
		Title:       s.Booking.Title,
		Color:       s.Booking.Color(),
		Pointer:     s.Pointer,
		Offset:      s.Offset,
		HoveredSlot: s.hovered,
		HasHovered:  s.hasHovered,
	}
}

// Reschedule moves b to slot on day keeping its duration. The end date is
// derived by adding the duration, so late slots may cross midnight.
func Reschedule(b booking.Booking, day time.Time, slot int, grid TimeGrid) booking.Booking {
	start := grid.SlotStart(day, slot)
	return b.WithTimes(start, start.Add(b.Duration()))
}
