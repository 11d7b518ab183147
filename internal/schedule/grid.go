// Package schedule lays out a day's bookings on a half-hour grid and drives
// drag-to-reschedule gestures over it.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/stretchlp/stretchboard/internal/booking"
	"github.com/stretchlp/stretchboard/internal/dateutil"
)

// ErrInvalidGrid is returned for grids that cannot be laid out.
var ErrInvalidGrid = errors.New("invalid time grid")

// SlotMinutes is the fixed grid resolution.
const SlotMinutes = 30

// TimeGrid is the visible, discretized part of a day.
type TimeGrid struct {
	StartHour   int
	EndHour     int
	SlotMinutes int
}

// Slot is one labelled grid line.
type Slot struct {
	Label   string // "HH:MM"
	Minutes int    // minutes from midnight
}

// Placement is a booking's vertical position on the grid.
// Rows are 1-based.
type Placement struct {
	StartRow int
	SpanRows int
}

// EndRow returns the first row after the placement.
func (p Placement) EndRow() int {
	return p.StartRow + p.SpanRows
}

// DefaultTimeGrid returns the 09:00-22:00 salon grid.
func DefaultTimeGrid() TimeGrid {
	return TimeGrid{StartHour: 9, EndHour: 22, SlotMinutes: SlotMinutes}
}

// NewTimeGrid creates a validated grid.
func NewTimeGrid(startHour, endHour int) (TimeGrid, error) {
	g := TimeGrid{StartHour: startHour, EndHour: endHour, SlotMinutes: SlotMinutes}
	if err := g.Validate(); err != nil {
		return TimeGrid{}, err
	}
	return g, nil
}

// Validate checks hour bounds and slot resolution.
func (g TimeGrid) Validate() error {
	if g.StartHour < 0 || g.EndHour > 24 || g.StartHour >= g.EndHour {
		return fmt.Errorf("%w: hours %d-%d", ErrInvalidGrid, g.StartHour, g.EndHour)
	}
	if g.SlotMinutes != SlotMinutes {
		return fmt.Errorf("%w: slot must be %d minutes, got %d", ErrInvalidGrid, SlotMinutes, g.SlotMinutes)
	}
	return nil
}

// windowMinutes is the visible span in minutes.
func (g TimeGrid) windowMinutes() int {
	return (g.EndHour - g.StartHour) * 60
}

// TotalRows returns the number of grid rows, including the EndHour:00 line.
func (g TimeGrid) TotalRows() int {
	return g.windowMinutes()/g.SlotMinutes + 1
}

// Slots returns the grid labels from StartHour:00 through EndHour:00.
func (g TimeGrid) Slots() []Slot {
	return SlotsForRange(g.StartHour, g.EndHour)
}

// SlotsForRange returns half-hour labels from startHour:00 through endHour:00
// inclusive, never past endHour:00.
func SlotsForRange(startHour, endHour int) []Slot {
	var slots []Slot
	for h := startHour; h <= endHour; h++ {
		for _, m := range []int{0, 30} {
			if h == endHour && m > 0 {
				break
			}
			slots = append(slots, Slot{
				Label:   fmt.Sprintf("%02d:%02d", h, m),
				Minutes: h*60 + m,
			})
		}
	}
	return slots
}

// TimeOptions returns selectable start times for the detail editor,
// startHour:00 up to but excluding endHour:00.
func TimeOptions(startHour, endHour int) []string {
	var out []string
	for h := startHour; h < endHour; h++ {
		for m := 0; m < 60; m += SlotMinutes {
			out = append(out, fmt.Sprintf("%02d:%02d", h, m))
		}
	}
	return out
}

// minutesFromStart clamps t's wall clock into the visible window.
func (g TimeGrid) minutesFromStart(t time.Time) int {
	m := t.Hour()*60 + t.Minute() - g.StartHour*60
	return max(0, min(m, g.windowMinutes()))
}

// Placement computes the row span for b. Bookings outside the window are
// clamped to its edges and still occupy one row.
func (g TimeGrid) Placement(b booking.Booking) Placement {
	startOffset := g.minutesFromStart(b.Start)
	endOffset := g.minutesFromStart(b.End)

	// A booking ending after midnight has an earlier wall clock than its start.
	if !dateutil.SameDay(b.Start, b.End) {
		endOffset = g.windowMinutes()
	}

	span := (endOffset - startOffset + g.SlotMinutes - 1) / g.SlotMinutes
	return Placement{
		StartRow: startOffset/g.SlotMinutes + 1,
		SpanRows: max(1, span),
	}
}

// SlotStart returns the wall-clock start of slot idx on day.
func (g TimeGrid) SlotStart(day time.Time, idx int) time.Time {
	minutes := idx*g.SlotMinutes + g.StartHour*60
	return time.Date(day.Year(), day.Month(), day.Day(), 0, minutes, 0, 0, day.Location())
}

// SlotLabel returns "HH:MM" for slot idx.
func (g TimeGrid) SlotLabel(idx int) string {
	minutes := idx*g.SlotMinutes + g.StartHour*60
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// SlotAt maps a y offset inside the schedule area to a slot index.
// Offsets outside [0, TotalRows) rows report false.
func (g TimeGrid) SlotAt(relativeY, rowHeight int) (int, bool) {
	if rowHeight <= 0 || relativeY < 0 {
		return 0, false
	}
	slot := relativeY / rowHeight
	if slot >= g.TotalRows() {
		return 0, false
	}
	return slot, true
}
