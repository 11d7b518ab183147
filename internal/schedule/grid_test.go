package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchlp/stretchboard/internal/booking"
)

var testDay = time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)

func at(hour, minute int) time.Time {
	return time.Date(2025, 1, 15, hour, minute, 0, 0, time.Local)
}

// bk builds a booking on testDay from "HH:MM" style hour/minute pairs.
func bk(id string, sh, sm, eh, em int) booking.Booking {
	return booking.Booking{
		ID:     id,
		Title:  id,
		Start:  at(sh, sm),
		End:    at(eh, em),
		Status: booking.StatusConfirmed,
	}
}

func TestTimeGrid_Validate(t *testing.T) {
	tests := []struct {
		name    string
		grid    TimeGrid
		wantErr bool
	}{
		{"default", DefaultTimeGrid(), false},
		{"full day", TimeGrid{StartHour: 0, EndHour: 24, SlotMinutes: 30}, false},
		{"start after end", TimeGrid{StartHour: 22, EndHour: 9, SlotMinutes: 30}, true},
		{"empty window", TimeGrid{StartHour: 9, EndHour: 9, SlotMinutes: 30}, true},
		{"past midnight", TimeGrid{StartHour: 9, EndHour: 25, SlotMinutes: 30}, true},
		{"negative start", TimeGrid{StartHour: -1, EndHour: 9, SlotMinutes: 30}, true},
		{"wrong slot", TimeGrid{StartHour: 9, EndHour: 22, SlotMinutes: 15}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.grid.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidGrid) {
					t.Errorf("got error %v, want %v", err, ErrInvalidGrid)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	if _, err := NewTimeGrid(10, 8); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("NewTimeGrid(10, 8) error = %v", err)
	}
}

func TestTimeGrid_Slots(t *testing.T) {
	g := DefaultTimeGrid()
	slots := g.Slots()

	if g.TotalRows() != 27 {
		t.Errorf("TotalRows() = %d, want 27", g.TotalRows())
	}
	if len(slots) != g.TotalRows() {
		t.Fatalf("got %d slots, want %d", len(slots), g.TotalRows())
	}
	if slots[0].Label != "09:00" || slots[1].Label != "09:30" {
		t.Errorf("unexpected first slots: %v", slots[:2])
	}
	if last := slots[len(slots)-1]; last.Label != "22:00" || last.Minutes != 22*60 {
		t.Errorf("last slot = %+v, want 22:00", last)
	}
	for i, s := range slots {
		if got := g.SlotLabel(i); got != s.Label {
			t.Errorf("SlotLabel(%d) = %q, want %q", i, got, s.Label)
		}
	}
}

func TestTimeOptions(t *testing.T) {
	opts := TimeOptions(9, 21)
	if len(opts) != 24 {
		t.Fatalf("got %d options, want 24", len(opts))
	}
	if opts[0] != "09:00" || opts[len(opts)-1] != "20:30" {
		t.Errorf("got range %s..%s, want 09:00..20:30", opts[0], opts[len(opts)-1])
	}
}

func TestTimeGrid_Placement(t *testing.T) {
	g := DefaultTimeGrid()

	tests := []struct {
		name string
		b    booking.Booking
		want Placement
	}{
		{"first hour", bk("a", 9, 0, 10, 0), Placement{StartRow: 1, SpanRows: 2}},
		{"half hour", bk("a", 9, 30, 10, 0), Placement{StartRow: 2, SpanRows: 1}},
		{"forty minutes rounds up", bk("a", 14, 0, 14, 40), Placement{StartRow: 11, SpanRows: 2}},
		{"unaligned start", bk("a", 9, 15, 9, 45), Placement{StartRow: 1, SpanRows: 1}},
		{"before window", bk("a", 7, 0, 8, 0), Placement{StartRow: 1, SpanRows: 1}},
		{"after window", bk("a", 22, 30, 23, 0), Placement{StartRow: 27, SpanRows: 1}},
		{"straddles start", bk("a", 8, 0, 10, 0), Placement{StartRow: 1, SpanRows: 2}},
		{"straddles end", bk("a", 21, 0, 23, 0), Placement{StartRow: 25, SpanRows: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Placement(tt.b); got != tt.want {
				t.Errorf("Placement() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTimeGrid_PlacementCrossesMidnight(t *testing.T) {
	g := DefaultTimeGrid()
	b := booking.Booking{ID: "late", Start: at(21, 30), End: at(21, 30).Add(3 * time.Hour)}

	got := g.Placement(b)
	if got.StartRow != 26 || got.SpanRows != 1 {
		t.Errorf("Placement() = %+v, want row 26 span 1", got)
	}
}

func TestTimeGrid_PlacementBounds(t *testing.T) {
	g := DefaultTimeGrid()
	total := g.TotalRows()

	for sh := 0; sh < 24; sh++ {
		for _, sm := range []int{0, 10, 30, 45} {
			for _, minutes := range []int{1, 30, 40, 60, 80, 240, 600} {
				start := at(sh, sm)
				b := booking.Booking{ID: "x", Start: start, End: start.Add(time.Duration(minutes) * time.Minute)}
				p := g.Placement(b)
				if p.StartRow < 1 || p.StartRow+p.SpanRows-1 > total {
					t.Fatalf("%s +%dm: placement %+v outside 1..%d", start.Format("15:04"), minutes, p, total)
				}
			}
		}
	}
}

func TestTimeGrid_SlotStart(t *testing.T) {
	g := DefaultTimeGrid()

	if got := g.SlotStart(testDay, 10); !got.Equal(at(14, 0)) {
		t.Errorf("SlotStart(10) = %v, want 14:00", got)
	}
	if got := g.SlotStart(testDay, 0); !got.Equal(at(9, 0)) {
		t.Errorf("SlotStart(0) = %v, want 09:00", got)
	}
	if got := g.SlotStart(testDay, 26); !got.Equal(at(22, 0)) {
		t.Errorf("SlotStart(26) = %v, want 22:00", got)
	}
}

func TestTimeGrid_SlotAt(t *testing.T) {
	g := DefaultTimeGrid()

	tests := []struct {
		y, rowHeight int
		want         int
		ok           bool
	}{
		{0, 2, 0, true},
		{1, 2, 0, true},
		{20, 2, 10, true},
		{53, 2, 26, true},
		{54, 2, 0, false},
		{-1, 2, 0, false},
		{5, 0, 0, false},
	}

	for _, tt := range tests {
		got, ok := g.SlotAt(tt.y, tt.rowHeight)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("SlotAt(%d, %d) = %d, %v; want %d, %v", tt.y, tt.rowHeight, got, ok, tt.want, tt.ok)
		}
	}
}
