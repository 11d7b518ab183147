package schedule

import (
	"errors"
	"testing"

	"github.com/stretchlp/stretchboard/internal/booking"
)

func newTestSet() *WorkingSet {
	ws := NewWorkingSet(testDay)
	ws.Replace(testDay, []booking.Booking{
		bk("b1", 9, 0, 10, 0),
		bk("b2", 11, 0, 12, 0),
	})
	return ws
}

func mustPatch(t *testing.T, ws *WorkingSet, b booking.Booking) Write {
	t.Helper()
	w, err := ws.Patch(b)
	if err != nil {
		t.Fatalf("Patch(%s) error = %v", b.ID, err)
	}
	return w
}

func startOf(t *testing.T, ws *WorkingSet, id string) string {
	t.Helper()
	b, ok := ws.Get(id)
	if !ok {
		t.Fatalf("booking %s missing", id)
	}
	return b.Start.Format("15:04")
}

func TestWorkingSet_PatchAndRollback(t *testing.T) {
	ws := newTestSet()
	orig, _ := ws.Get("b1")

	w := mustPatch(t, ws, orig.WithTimes(at(14, 0), at(15, 0)))
	if got := startOf(t, ws, "b1"); got != "14:00" {
		t.Errorf("optimistic start = %s, want 14:00", got)
	}
	if ws.Pending("b1") != 1 {
		t.Errorf("Pending = %d, want 1", ws.Pending("b1"))
	}

	if !ws.Rollback(w) {
		t.Error("Rollback() should revert the latest write")
	}
	got, _ := ws.Get("b1")
	if !got.Start.Equal(at(9, 0)) || !got.End.Equal(at(10, 0)) {
		t.Errorf("after rollback %v-%v, want 09:00-10:00", got.Start, got.End)
	}
	if ws.Pending("b1") != 0 {
		t.Errorf("Pending = %d after rollback, want 0", ws.Pending("b1"))
	}
	if got := startOf(t, ws, "b2"); got != "11:00" {
		t.Errorf("b2 touched: start %s", got)
	}
}

func TestWorkingSet_PatchUnknown(t *testing.T) {
	ws := newTestSet()
	if _, err := ws.Patch(bk("nope", 9, 0, 10, 0)); !errors.Is(err, booking.ErrBookingNotFound) {
		t.Errorf("Patch() error = %v, want %v", err, booking.ErrBookingNotFound)
	}
}

func TestWorkingSet_LastWriteWins(t *testing.T) {
	orig := bk("b1", 9, 0, 10, 0)
	first := orig.WithTimes(at(14, 0), at(15, 0))
	second := orig.WithTimes(at(16, 0), at(17, 0))

	t.Run("first fails after second applied", func(t *testing.T) {
		ws := newTestSet()
		w1 := mustPatch(t, ws, first)
		w2 := mustPatch(t, ws, second)

		if ws.Rollback(w1) {
			t.Error("superseded write must not revert")
		}
		if got := startOf(t, ws, "b1"); got != "16:00" {
			t.Errorf("start = %s, want 16:00", got)
		}

		// The second write now falls back to the pre-drag value.
		ws.Rollback(w2)
		if got := startOf(t, ws, "b1"); got != "09:00" {
			t.Errorf("start = %s, want 09:00", got)
		}
	})

	t.Run("second fails after first confirmed", func(t *testing.T) {
		ws := newTestSet()
		w1 := mustPatch(t, ws, first)
		w2 := mustPatch(t, ws, second)

		ws.Settle(w1)
		ws.Rollback(w2)
		if got := startOf(t, ws, "b1"); got != "14:00" {
			t.Errorf("start = %s, want confirmed 14:00", got)
		}
	})

	t.Run("second fails while first pending", func(t *testing.T) {
		ws := newTestSet()
		w1 := mustPatch(t, ws, first)
		w2 := mustPatch(t, ws, second)

		if !ws.Rollback(w2) {
			t.Error("latest write should revert")
		}
		if got := startOf(t, ws, "b1"); got != "14:00" {
			t.Errorf("start = %s, want 14:00", got)
		}
		ws.Settle(w1)
		if ws.Pending("b1") != 0 {
			t.Errorf("Pending = %d, want 0", ws.Pending("b1"))
		}
	})

	t.Run("different bookings are independent", func(t *testing.T) {
		ws := newTestSet()
		b2, _ := ws.Get("b2")
		w1 := mustPatch(t, ws, first)
		mustPatch(t, ws, b2.WithTimes(at(18, 0), at(19, 0)))

		if !ws.Rollback(w1) {
			t.Error("b1 rollback should revert")
		}
		if got := startOf(t, ws, "b2"); got != "18:00" {
			t.Errorf("b2 start = %s, want 18:00", got)
		}
	})
}

func TestWorkingSet_ReplaceDropsPending(t *testing.T) {
	ws := newTestSet()
	orig, _ := ws.Get("b1")
	w := mustPatch(t, ws, orig.WithTimes(at(14, 0), at(15, 0)))

	fetched := []booking.Booking{orig.WithTimes(at(14, 0), at(15, 0))}
	ws.Replace(testDay, fetched)

	if ws.Rollback(w) {
		t.Error("writes from before a refetch must not revert")
	}
	if got := startOf(t, ws, "b1"); got != "14:00" {
		t.Errorf("start = %s, want fetched 14:00", got)
	}
	if ws.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ws.Len())
	}

	fetched[0].Title = "changed"
	if b, _ := ws.Get("b1"); b.Title == "changed" {
		t.Error("Replace must copy its input")
	}
}
