// Package booking defines the core domain types for stretchboard.
package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/stretchlp/stretchboard/internal/dateutil"
)

// Validation errors.
var (
	ErrEmptyID        = errors.New("booking id cannot be empty")
	ErrInvalidID      = errors.New("booking id must look like b<number>")
	ErrEndBeforeStart = errors.New("end time must be after start time")
	ErrInvalidStatus  = errors.New("status must be PROVISIONAL, CONFIRMED, COMPLETED or CANCELLED")
	ErrInvalidCourse  = errors.New("course must be 40, 60 or 80 minutes")
	ErrInvalidTime    = errors.New("time must be YYYY-MM-DDTHH:MM[:SS]")
)

// Domain errors.
var (
	ErrBookingNotFound = errors.New("booking not found")
)

// DefaultColor is used for bookings without a known status.
const DefaultColor = "#06b6d4"

// DefaultCourseMinutes is the course assumed when the backend sends none.
const DefaultCourseMinutes = 60

// Courses lists the bookable service lengths in minutes.
var Courses = []int{40, 60, 80}

// ValidCourse reports whether minutes is one of Courses.
func ValidCourse(minutes int) bool {
	for _, c := range Courses {
		if c == minutes {
			return true
		}
	}
	return false
}

// Booking is a single customer appointment on the board.
// Start and End are naive wall-clock values carried in time.Local.
type Booking struct {
	ID            string
	Title         string
	Start         time.Time
	End           time.Time
	CourseMinutes int // optional, 0 means unset
	Status        Status

	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Message       string
}

// New creates a Booking with validation.
func New(id, title string, start, end time.Time) (Booking, error) {
	b := Booking{
		ID:     id,
		Title:  title,
		Start:  start,
		End:    end,
		Status: StatusProvisional,
	}
	if err := b.Validate(); err != nil {
		return Booking{}, err
	}
	return b, nil
}

// Validate checks the invariants every booking must hold.
func (b Booking) Validate() error {
	if b.ID == "" {
		return ErrEmptyID
	}
	if !b.End.After(b.Start) {
		return fmt.Errorf("%w: %s-%s", ErrEndBeforeStart, b.Start.Format("15:04"), b.End.Format("15:04"))
	}
	if b.Status != "" && !b.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, b.Status)
	}
	if b.CourseMinutes != 0 && !ValidCourse(b.CourseMinutes) {
		return fmt.Errorf("%w: %d", ErrInvalidCourse, b.CourseMinutes)
	}
	return nil
}

// Duration returns End - Start.
func (b Booking) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

// Minutes returns the booking length in whole minutes.
func (b Booking) Minutes() int {
	return int(b.Duration() / time.Minute)
}

// Color returns the display color for the booking's status.
func (b Booking) Color() string {
	return b.Status.Color()
}

// Overlaps reports whether the half-open ranges [Start, End) intersect.
// Touching endpoints do not overlap.
func (b Booking) Overlaps(other Booking) bool {
	return b.End.After(other.Start) && other.End.After(b.Start)
}

// OnDay reports whether the booking starts on the calendar date of day.
func (b Booking) OnDay(day time.Time) bool {
	return dateutil.SameDay(b.Start, day)
}

// WithTimes returns a copy with new start and end.
func (b Booking) WithTimes(start, end time.Time) Booking {
	b.Start = start
	b.End = end
	return b
}

// WithCourse returns a copy whose course is minutes and whose end is
// recomputed from the start.
func (b Booking) WithCourse(minutes int) (Booking, error) {
	if !ValidCourse(minutes) {
		return Booking{}, fmt.Errorf("%w: %d", ErrInvalidCourse, minutes)
	}
	b.CourseMinutes = minutes
	b.End = b.Start.Add(time.Duration(minutes) * time.Minute)
	return b, nil
}

// Summary returns a one-line human description.
func (b Booking) Summary() string {
	return fmt.Sprintf("%s %s-%s %s [%s]",
		b.Start.Format("2006-01-02"),
		b.Start.Format("15:04"),
		b.End.Format("15:04"),
		b.Title,
		b.Status.Label(),
	)
}
