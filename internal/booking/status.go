package booking

import (
	"fmt"
	"strings"
)

// Status is the business state of a booking. It also selects the display color.
type Status string

const (
	StatusProvisional Status = "PROVISIONAL"
	StatusConfirmed   Status = "CONFIRMED"
	StatusCompleted   Status = "COMPLETED"
	StatusCancelled   Status = "CANCELLED"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusProvisional, StatusConfirmed, StatusCompleted, StatusCancelled}

var statusColors = map[Status]string{
	StatusProvisional: "#f59e0b",
	StatusConfirmed:   "#3b82f6",
	StatusCompleted:   "#22c55e",
	StatusCancelled:   "#ef4444",
}

var statusLabels = map[Status]string{
	StatusProvisional: "Provisional",
	StatusConfirmed:   "Confirmed",
	StatusCompleted:   "Completed",
	StatusCancelled:   "Cancelled",
}

// Valid returns true if the status is a known value.
func (s Status) Valid() bool {
	_, ok := statusColors[s]
	return ok
}

// Color returns the fixed hex color for the status, or DefaultColor.
func (s Status) Color() string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return DefaultColor
}

// Label returns a human label.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return "Unknown"
}

// Next cycles to the following status, wrapping around.
func (s Status) Next() Status {
	for i, st := range Statuses {
		if st == s {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return StatusProvisional
}

// ParseStatus parses a status name case-insensitively.
// The backend alias PENDING maps to StatusProvisional.
func ParseStatus(s string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PROVISIONAL", "PENDING":
		return StatusProvisional, nil
	case "CONFIRMED":
		return StatusConfirmed, nil
	case "COMPLETED":
		return StatusCompleted, nil
	case "CANCELLED", "CANCELED":
		return StatusCancelled, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}
