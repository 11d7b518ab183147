// Package scheduler finds open time on a salon day.
package scheduler

import (
	"slices"
	"time"

	"github.com/stretchlp/stretchboard/internal/booking"
	"github.com/stretchlp/stretchboard/internal/dateutil"
	"github.com/stretchlp/stretchboard/internal/schedule"
)

// Scheduler answers availability questions against the board's grid.
type Scheduler struct {
	grid schedule.TimeGrid
}

// New creates a new Scheduler for grid.
func New(grid schedule.TimeGrid) *Scheduler {
	return &Scheduler{grid: grid}
}

// Window is a free stretch of the day.
type Window struct {
	Start time.Time
	End   time.Time
}

// Minutes returns the window length.
func (w Window) Minutes() int {
	return int(w.End.Sub(w.Start) / time.Minute)
}

// DayStart returns the opening time on day.
func (s *Scheduler) DayStart(day time.Time) time.Time {
	return s.grid.SlotStart(day, 0)
}

// DayEnd returns the closing time on day.
func (s *Scheduler) DayEnd(day time.Time) time.Time {
	return s.grid.SlotStart(day, s.grid.TotalRows()-1)
}

// busy returns the non-cancelled bookings overlapping day's opening hours,
// sorted by start.
func (s *Scheduler) busy(day time.Time, bookings []booking.Booking) []booking.Booking {
	open, closed := s.DayStart(day), s.DayEnd(day)
	var out []booking.Booking
	for _, b := range bookings {
		if b.Status == booking.StatusCancelled {
			continue
		}
		if b.Start.Before(closed) && b.End.After(open) {
			out = append(out, b)
		}
	}
	slices.SortStableFunc(out, func(a, b booking.Booking) int {
		return a.Start.Compare(b.Start)
	})
	return out
}

// FreeWindows returns the gaps between bookings within opening hours.
// Cancelled bookings do not take time.
func (s *Scheduler) FreeWindows(day time.Time, bookings []booking.Booking) []Window {
	cursor, closed := s.DayStart(day), s.DayEnd(day)
	var out []Window
	for _, b := range s.busy(day, bookings) {
		if b.Start.After(cursor) {
			out = append(out, Window{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(closed) {
		out = append(out, Window{Start: cursor, End: closed})
	}
	return out
}

// NextAvailableStart returns the first slot start on day where a booking of
// minutes fits before closing without overlapping another booking.
// On the current day, slots before now (rounded up to the next slot) are
// skipped.
func (s *Scheduler) NextAvailableStart(day, now time.Time, minutes int, bookings []booking.Booking) (time.Time, bool) {
	earliest := s.DayStart(day)
	if dateutil.SameDay(day, now) {
		if r := roundUpToSlot(now, s.grid.SlotMinutes); r.After(earliest) {
			earliest = r
		}
	}

	length := time.Duration(minutes) * time.Minute
	for _, w := range s.FreeWindows(day, bookings) {
		start := roundUpToSlot(maxTime(w.Start, earliest), s.grid.SlotMinutes)
		if !start.Add(length).After(w.End) {
			return start, true
		}
	}
	return time.Time{}, false
}

// CanFit reports whether a booking of minutes starting at start stays within
// opening hours and clear of other bookings. The booking with ignoreID, if
// any, is not counted, so a booking can be checked against its own slot.
func (s *Scheduler) CanFit(start time.Time, minutes int, bookings []booking.Booking, ignoreID string) bool {
	end := start.Add(time.Duration(minutes) * time.Minute)
	if start.Before(s.DayStart(start)) || end.After(s.DayEnd(start)) {
		return false
	}
	probe := booking.Booking{Start: start, End: end}
	for _, b := range s.busy(start, bookings) {
		if b.ID != ignoreID && b.Overlaps(probe) {
			return false
		}
	}
	return true
}

// AvailableMinutes returns the free minutes left on day.
func (s *Scheduler) AvailableMinutes(day time.Time, bookings []booking.Booking) int {
	total := 0
	for _, w := range s.FreeWindows(day, bookings) {
		total += w.Minutes()
	}
	return total
}

// roundUpToSlot rounds t up to the next slot boundary.
func roundUpToSlot(t time.Time, slotMinutes int) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	slot := time.Duration(slotMinutes) * time.Minute
	offset := t.Sub(midnight)
	if rem := offset % slot; rem != 0 {
		offset += slot - rem
	}
	return midnight.Add(offset)
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
