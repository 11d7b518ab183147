package schedule

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/stretchlp/stretchboard/internal/booking"
)

// ColumnPolicy selects how a group's bookings are split into columns.
type ColumnPolicy int

const (
	// ColumnsPerBooking gives every booking of a group its own column.
	ColumnsPerBooking ColumnPolicy = iota
	// ColumnsPacked reuses a column once its previous booking has ended.
	ColumnsPacked
)

// String returns the config name of the policy.
func (p ColumnPolicy) String() string {
	switch p {
	case ColumnsPacked:
		return "packed"
	default:
		return "per-booking"
	}
}

// ParseColumnPolicy parses "per-booking" or "packed".
func ParseColumnPolicy(s string) (ColumnPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "per-booking", "per_booking":
		return ColumnsPerBooking, nil
	case "packed":
		return ColumnsPacked, nil
	default:
		return 0, fmt.Errorf("unknown column policy %q", s)
	}
}

// Options bundles the layout policies.
type Options struct {
	Grouping GroupPolicy
	Columns  ColumnPolicy
}

// Column is one booking placed inside its group's sub-grid.
type Column struct {
	Booking          booking.Booking
	Placement        Placement // absolute grid placement
	RelativeStartRow int       // 1-based row inside the group span
	SpanRows         int
	ColumnIndex      int
}

// GroupLayout is the renderable form of one overlap group.
type GroupLayout struct {
	StartRow    int
	SpanRows    int
	ColumnCount int
	Columns     []Column
}

// EndRow returns the first row after the group.
func (gl GroupLayout) EndRow() int {
	return gl.StartRow + gl.SpanRows
}

// Plan lays out one overlap group. Columns keep the group's booking order.
func Plan(g TimeGrid, group []booking.Booking, policy ColumnPolicy) GroupLayout {
	if len(group) == 0 {
		return GroupLayout{}
	}

	placements := make([]Placement, len(group))
	startRow, endRow := 0, 0
	for i, b := range group {
		p := g.Placement(b)
		placements[i] = p
		if i == 0 || p.StartRow < startRow {
			startRow = p.StartRow
		}
		if i == 0 || p.EndRow() > endRow {
			endRow = p.EndRow()
		}
	}

	var columnIndex []int
	var columnCount int
	if policy == ColumnsPacked {
		columnIndex, columnCount = packColumns(group, placements)
	} else {
		columnIndex = make([]int, len(group))
		for i := range group {
			columnIndex[i] = i
		}
		columnCount = len(group)
	}

	layout := GroupLayout{
		StartRow:    startRow,
		SpanRows:    max(1, endRow-startRow),
		ColumnCount: columnCount,
		Columns:     make([]Column, len(group)),
	}
	for i, b := range group {
		layout.Columns[i] = Column{
			Booking:          b,
			Placement:        placements[i],
			RelativeStartRow: placements[i].StartRow - startRow + 1,
			SpanRows:         placements[i].SpanRows,
			ColumnIndex:      columnIndex[i],
		}
	}
	return layout
}

// packColumns assigns each booking to the lowest column whose last occupant
// ends, both in time and in rows, at or before it starts. Bookings are
// visited by start row. Checking rows as well as time keeps short bookings
// that round onto the same row out of one column.
func packColumns(group []booking.Booking, placements []Placement) ([]int, int) {
	order := make([]int, len(placements))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		if d := placements[a].StartRow - placements[b].StartRow; d != 0 {
			return d
		}
		return group[a].Start.Compare(group[b].Start)
	})

	type tail struct {
		row int
		end time.Time
	}
	assigned := make([]int, len(placements))
	var tails []tail
	for _, i := range order {
		p, b := placements[i], group[i]
		col := -1
		for c, last := range tails {
			if last.row <= p.StartRow && !last.end.After(b.Start) {
				col = c
				break
			}
		}
		if col < 0 {
			col = len(tails)
			tails = append(tails, tail{})
		}
		tails[col] = tail{row: p.EndRow(), end: b.End}
		assigned[i] = col
	}
	return assigned, len(tails)
}

// LayoutDay groups and plans a day's bookings. It is pure: the same input
// always yields the same layout.
func LayoutDay(g TimeGrid, bookings []booking.Booking, opts Options) []GroupLayout {
	groups := GroupOverlapping(bookings, opts.Grouping)
	out := make([]GroupLayout, 0, len(groups))
	for _, group := range groups {
		out = append(out, Plan(g, group, opts.Columns))
	}
	return out
}
