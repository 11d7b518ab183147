package booking

import (
	"context"
	"time"
)

// Patch carries the fields a reschedule or detail edit may change.
type Patch struct {
	Start         time.Time
	End           time.Time
	CourseMinutes *int    // nil leaves the course unchanged
	Status        *Status // nil leaves the status unchanged
}

// PatchFrom builds a full patch from a booking.
func PatchFrom(b Booking) Patch {
	p := Patch{Start: b.Start, End: b.End}
	if b.CourseMinutes != 0 {
		course := b.CourseMinutes
		p.CourseMinutes = &course
	}
	if b.Status != "" {
		status := b.Status
		p.Status = &status
	}
	return p
}

// Apply returns b with the patch applied.
func (p Patch) Apply(b Booking) Booking {
	b.Start = p.Start
	b.End = p.End
	if p.CourseMinutes != nil {
		b.CourseMinutes = *p.CourseMinutes
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	return b
}

// Source is the booking collaborator the board depends on.
// Implementations decide transport and persistence; callers only see
// success or failure.
type Source interface {
	// ListBookings returns the bookings that start on day.
	ListBookings(ctx context.Context, day time.Time) ([]Booking, error)

	// UpdateBooking persists new times (and optionally course/status) for id.
	UpdateBooking(ctx context.Context, id string, p Patch) error
}

// Store is a Source that also owns booking records.
type Store interface {
	Source

	// CreateBooking inserts b and assigns its ID.
	CreateBooking(ctx context.Context, b *Booking) error

	// GetBooking returns a booking by id, or ErrBookingNotFound.
	GetBooking(ctx context.Context, id string) (*Booking, error)

	// Close releases any resources held by the store.
	Close() error
}
