package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/stretchlp/stretchboard/internal/booking"
)

// GroupPolicy selects how overlapping bookings are bucketed.
type GroupPolicy int

const (
	// GroupFirstNeighbor groups a seed booking with its direct overlaps only.
	GroupFirstNeighbor GroupPolicy = iota
	// GroupConnected groups full connected components of the overlap graph.
	GroupConnected
)

// String returns the config name of the policy.
func (p GroupPolicy) String() string {
	switch p {
	case GroupConnected:
		return "connected"
	default:
		return "first-neighbor"
	}
}

// ParseGroupPolicy parses "first-neighbor" or "connected".
func ParseGroupPolicy(s string) (GroupPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first-neighbor", "first_neighbor":
		return GroupFirstNeighbor, nil
	case "connected":
		return GroupConnected, nil
	default:
		return 0, fmt.Errorf("unknown grouping policy %q", s)
	}
}

// IsOverlapping reports whether a and b overlap as half-open ranges.
func IsOverlapping(a, b booking.Booking) bool {
	return a.Overlaps(b)
}

// ForDay returns the bookings that start on day, keeping input order.
func ForDay(bookings []booking.Booking, day time.Time) []booking.Booking {
	var out []booking.Booking
	for _, b := range bookings {
		if b.OnDay(day) {
			out = append(out, b)
		}
	}
	return out
}

// GroupOverlapping partitions bookings into overlap groups.
// Groups are emitted in input order of their first member and members keep
// input order, so the result is deterministic for a given slice.
func GroupOverlapping(bookings []booking.Booking, policy GroupPolicy) [][]booking.Booking {
	if policy == GroupConnected {
		return groupConnected(bookings)
	}
	return groupFirstNeighbor(bookings)
}

// groupFirstNeighbor takes each unprocessed booking as a seed and claims every
// unprocessed booking that overlaps the seed itself. Chains A-B-C where A and C
// do not touch end up together only if both touch the seed.
func groupFirstNeighbor(bookings []booking.Booking) [][]booking.Booking {
	processed := make([]bool, len(bookings))
	groups := make([][]booking.Booking, 0, len(bookings))

	for i, seed := range bookings {
		if processed[i] {
			continue
		}
		processed[i] = true
		group := []booking.Booking{seed}

		for j := i + 1; j < len(bookings); j++ {
			if processed[j] || !IsOverlapping(seed, bookings[j]) {
				continue
			}
			processed[j] = true
			group = append(group, bookings[j])
		}
		groups = append(groups, group)
	}

	return groups
}

// groupConnected emits the connected components of the overlap graph.
func groupConnected(bookings []booking.Booking) [][]booking.Booking {
	processed := make([]bool, len(bookings))
	groups := make([][]booking.Booking, 0, len(bookings))

	for i := range bookings {
		if processed[i] {
			continue
		}
		processed[i] = true
		member := make([]bool, len(bookings))
		member[i] = true

		queue := []int{i}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for j := range bookings {
				if processed[j] || !IsOverlapping(bookings[cur], bookings[j]) {
					continue
				}
				processed[j] = true
				member[j] = true
				queue = append(queue, j)
			}
		}

		var group []booking.Booking
		for j, ok := range member {
			if ok {
				group = append(group, bookings[j])
			}
		}
		groups = append(groups, group)
	}

	return groups
}
