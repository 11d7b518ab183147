package schedule

import (
	"slices"
	"sync"
	"time"

	"github.com/stretchlp/stretchboard/internal/booking"
)

// Write is one optimistic patch that has not been confirmed yet.
type Write struct {
	ID       string
	Token    uint64
	Previous booking.Booking
	Updated  booking.Booking
}

// WorkingSet is the visible day's bookings. It is replaced wholesale on fetch
// and patched one booking at a time by optimistic writes.
//
// Unconfirmed writes are kept per booking in the order they were applied.
// When a write fails, the booking goes back to the value it had before that
// write only if no later write has touched it; otherwise the failed write is
// spliced out of the chain so a later rollback still lands on a confirmed or
// pre-drag value.
type WorkingSet struct {
	mu       sync.RWMutex
	day      time.Time
	bookings []booking.Booking
	pending  map[string][]Write
	next     uint64
}

// NewWorkingSet creates an empty working set for day.
func NewWorkingSet(day time.Time) *WorkingSet {
	return &WorkingSet{
		day:     day,
		pending: make(map[string][]Write),
	}
}

// Replace swaps in a freshly fetched day. Pending writes are dropped: the
// fetched data is the source of truth.
func (ws *WorkingSet) Replace(day time.Time, bookings []booking.Booking) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.day = day
	ws.bookings = slices.Clone(bookings)
	clear(ws.pending)
}

// Day returns the day the set belongs to.
func (ws *WorkingSet) Day() time.Time {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.day
}

// Bookings returns a copy of the bookings in order.
func (ws *WorkingSet) Bookings() []booking.Booking {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return slices.Clone(ws.bookings)
}

// Len returns the number of bookings.
func (ws *WorkingSet) Len() int {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return len(ws.bookings)
}

// Get returns the booking with id.
func (ws *WorkingSet) Get(id string) (booking.Booking, bool) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	i := ws.index(id)
	if i < 0 {
		return booking.Booking{}, false
	}
	return ws.bookings[i], true
}

func (ws *WorkingSet) index(id string) int {
	return slices.IndexFunc(ws.bookings, func(b booking.Booking) bool { return b.ID == id })
}

// Patch replaces the booking with updated.ID and records a pending write.
func (ws *WorkingSet) Patch(updated booking.Booking) (Write, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	i := ws.index(updated.ID)
	if i < 0 {
		return Write{}, booking.ErrBookingNotFound
	}
	ws.next++
	w := Write{
		ID:       updated.ID,
		Token:    ws.next,
		Previous: ws.bookings[i],
		Updated:  updated,
	}
	ws.bookings[i] = updated
	ws.pending[updated.ID] = append(ws.pending[updated.ID], w)
	return w, nil
}

// Rollback undoes a failed write. It reports whether the visible booking
// changed; a write superseded by a later one leaves the booking alone.
func (ws *WorkingSet) Rollback(w Write) bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	chain := ws.pending[w.ID]
	pos := slices.IndexFunc(chain, func(p Write) bool { return p.Token == w.Token })
	if pos < 0 {
		return false
	}
	failed := chain[pos]

	if pos < len(chain)-1 {
		chain[pos+1].Previous = failed.Previous
		ws.setChain(w.ID, slices.Delete(chain, pos, pos+1))
		return false
	}

	ws.setChain(w.ID, slices.Delete(chain, pos, pos+1))
	i := ws.index(w.ID)
	if i < 0 {
		return false
	}
	ws.bookings[i] = failed.Previous
	return true
}

// Settle marks a write as confirmed.
func (ws *WorkingSet) Settle(w Write) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	chain := ws.pending[w.ID]
	pos := slices.IndexFunc(chain, func(p Write) bool { return p.Token == w.Token })
	if pos < 0 {
		return
	}
	if pos < len(chain)-1 {
		// Later writes now fall back to the confirmed value.
		chain[pos+1].Previous = chain[pos].Updated
	}
	ws.setChain(w.ID, slices.Delete(chain, pos, pos+1))
}

func (ws *WorkingSet) setChain(id string, chain []Write) {
	if len(chain) == 0 {
		delete(ws.pending, id)
		return
	}
	ws.pending[id] = chain
}

// Pending returns the number of unconfirmed writes for id.
func (ws *WorkingSet) Pending(id string) int {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return len(ws.pending[id])
}
