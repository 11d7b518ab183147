package schedule

import (
	"reflect"
	"testing"

	"github.com/stretchlp/stretchboard/internal/booking"
)

func TestPlan_PerBooking(t *testing.T) {
	g := DefaultTimeGrid()
	group := []booking.Booking{
		bk("A", 9, 30, 10, 30),
		bk("B", 9, 0, 10, 0),
		bk("C", 10, 0, 11, 0),
	}

	got := Plan(g, group, ColumnsPerBooking)

	if got.StartRow != 1 || got.SpanRows != 4 {
		t.Errorf("group rows = %d+%d, want 1+4", got.StartRow, got.SpanRows)
	}
	if got.ColumnCount != 3 {
		t.Errorf("ColumnCount = %d, want 3", got.ColumnCount)
	}

	want := []struct {
		id       string
		relStart int
		span     int
		col      int
	}{
		{"A", 2, 2, 0},
		{"B", 1, 2, 1},
		{"C", 3, 2, 2},
	}
	for i, w := range want {
		c := got.Columns[i]
		if c.Booking.ID != w.id || c.RelativeStartRow != w.relStart || c.SpanRows != w.span || c.ColumnIndex != w.col {
			t.Errorf("column %d = {%s rel %d span %d col %d}, want %+v",
				i, c.Booking.ID, c.RelativeStartRow, c.SpanRows, c.ColumnIndex, w)
		}
	}
}

func TestPlan_Empty(t *testing.T) {
	got := Plan(DefaultTimeGrid(), nil, ColumnsPerBooking)
	if got.ColumnCount != 0 || len(got.Columns) != 0 {
		t.Errorf("Plan(nil) = %+v", got)
	}
}

func TestPlan_Packed(t *testing.T) {
	g := DefaultTimeGrid()
	// A and C never meet, so they can share a column.
	group := []booking.Booking{
		bk("A", 9, 0, 10, 0),
		bk("B", 9, 30, 11, 0),
		bk("C", 10, 0, 11, 0),
	}

	got := Plan(g, group, ColumnsPacked)

	if got.ColumnCount != 2 {
		t.Fatalf("ColumnCount = %d, want 2", got.ColumnCount)
	}
	cols := map[string]int{}
	for _, c := range got.Columns {
		cols[c.Booking.ID] = c.ColumnIndex
	}
	if cols["A"] != 0 || cols["B"] != 1 || cols["C"] != 0 {
		t.Errorf("columns = %v, want A:0 B:1 C:0", cols)
	}
}

func TestPlan_PackedRowsNeverShared(t *testing.T) {
	g := DefaultTimeGrid()
	// 09:00-09:40 spans two rows, so 09:40-10:00 must not share its column.
	group := []booking.Booking{
		bk("A", 9, 0, 9, 40),
		bk("B", 9, 0, 10, 30),
		bk("C", 9, 40, 10, 0),
	}

	got := Plan(g, group, ColumnsPacked)
	assertNoSharedRows(t, got)
	if got.ColumnCount != 3 {
		t.Errorf("ColumnCount = %d, want 3", got.ColumnCount)
	}
}

func TestPlan_PackedTimeOverlapOnAdjacentRows(t *testing.T) {
	g := DefaultTimeGrid()
	// Rows 1 and 2 do not meet but the bookings overlap by five minutes.
	group := []booking.Booking{
		bk("A", 9, 15, 9, 45),
		bk("B", 9, 40, 10, 0),
	}

	got := Plan(g, group, ColumnsPacked)
	assertNoSharedRows(t, got)
	if got.ColumnCount != 2 {
		t.Errorf("ColumnCount = %d, want 2", got.ColumnCount)
	}
}

func assertNoSharedRows(t *testing.T, gl GroupLayout) {
	t.Helper()
	for i, a := range gl.Columns {
		for _, b := range gl.Columns[i+1:] {
			if a.ColumnIndex != b.ColumnIndex {
				continue
			}
			if a.Placement.StartRow < b.Placement.EndRow() && b.Placement.StartRow < a.Placement.EndRow() {
				t.Errorf("%s and %s share column %d and rows", a.Booking.ID, b.Booking.ID, a.ColumnIndex)
			}
			if a.Booking.Overlaps(b.Booking) {
				t.Errorf("%s and %s overlap in column %d", a.Booking.ID, b.Booking.ID, a.ColumnIndex)
			}
		}
	}
}

func TestLayoutDay_Packed(t *testing.T) {
	g := DefaultTimeGrid()
	groups := LayoutDay(g, sampleDay(), Options{Grouping: GroupConnected, Columns: ColumnsPacked})
	for _, gl := range groups {
		assertNoSharedRows(t, gl)
		if gl.ColumnCount > len(gl.Columns) {
			t.Errorf("ColumnCount %d exceeds group size %d", gl.ColumnCount, len(gl.Columns))
		}
	}
}

func TestLayoutDay_Idempotent(t *testing.T) {
	g := DefaultTimeGrid()
	for _, opts := range []Options{
		{},
		{Grouping: GroupConnected, Columns: ColumnsPacked},
	} {
		first := LayoutDay(g, sampleDay(), opts)
		second := LayoutDay(g, sampleDay(), opts)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("%+v: layout changed between runs", opts)
		}
	}
}

func TestLayoutDay_ColumnsWithinGroup(t *testing.T) {
	g := DefaultTimeGrid()
	for _, gl := range LayoutDay(g, sampleDay(), Options{}) {
		for _, c := range gl.Columns {
			if c.RelativeStartRow < 1 || c.RelativeStartRow+c.SpanRows-1 > gl.SpanRows {
				t.Errorf("%s rows %d+%d outside group span %d", c.Booking.ID, c.RelativeStartRow, c.SpanRows, gl.SpanRows)
			}
			if c.ColumnIndex < 0 || c.ColumnIndex >= gl.ColumnCount {
				t.Errorf("%s column %d outside 0..%d", c.Booking.ID, c.ColumnIndex, gl.ColumnCount)
			}
		}
	}
}
