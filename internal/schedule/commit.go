package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/stretchlp/stretchboard/internal/booking"
)

// DefaultCommitTimeout bounds a single persistence call.
const DefaultCommitTimeout = 10 * time.Second

// CommitObserver is told about every resolved commit.
type CommitObserver func(result string, elapsed time.Duration)

// Commit results reported to observers.
const (
	CommitOK         = "ok"
	CommitRolledBack = "rolled_back"
	CommitSuperseded = "superseded"
)

// Committer applies optimistic writes to a WorkingSet and persists them
// through a booking.Source. It can run the three steps in one call (Commit)
// or split around an event loop (Begin, Persist, Resolve).
type Committer struct {
	source   booking.Source
	timeout  time.Duration
	log      zerolog.Logger
	observer CommitObserver
}

// NewCommitter creates a committer. A non-positive timeout uses
// DefaultCommitTimeout.
func NewCommitter(source booking.Source, timeout time.Duration, log zerolog.Logger) *Committer {
	if timeout <= 0 {
		timeout = DefaultCommitTimeout
	}
	return &Committer{source: source, timeout: timeout, log: log}
}

// WithObserver sets a hook called after every Resolve.
func (c *Committer) WithObserver(fn CommitObserver) *Committer {
	c.observer = fn
	return c
}

// Timeout returns the persistence timeout.
func (c *Committer) Timeout() time.Duration {
	return c.timeout
}

// Begin applies updated to the working set before anything is persisted.
func (c *Committer) Begin(ws *WorkingSet, updated booking.Booking) (Write, error) {
	w, err := ws.Patch(updated)
	if err != nil {
		return Write{}, fmt.Errorf("patching %s: %w", updated.ID, err)
	}
	return w, nil
}

// Persist sends the write to the source under the commit timeout. Ids the
// backend cannot parse fail here without touching the source.
func (c *Committer) Persist(ctx context.Context, w Write) error {
	if _, err := booking.ParseID(w.ID); err != nil {
		return fmt.Errorf("committing %s: %w", w.ID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.source.UpdateBooking(ctx, w.ID, booking.PatchFrom(w.Updated)); err != nil {
		return fmt.Errorf("committing %s: %w", w.ID, err)
	}
	return nil
}

// Resolve settles a successful write or rolls back a failed one. It reports
// whether the visible booking was reverted.
func (c *Committer) Resolve(ws *WorkingSet, w Write, err error, elapsed time.Duration) bool {
	if err == nil {
		ws.Settle(w)
		c.log.Info().
			Str("event", "COMMIT_OK").
			Str("booking", w.ID).
			Time("start", w.Updated.Start).
			Dur("elapsed", elapsed).
			Msg("booking rescheduled")
		c.observe(CommitOK, elapsed)
		return false
	}

	reverted := ws.Rollback(w)
	result := CommitRolledBack
	if !reverted {
		result = CommitSuperseded
	}
	c.log.Warn().
		Err(err).
		Str("event", "COMMIT_ROLLBACK").
		Str("booking", w.ID).
		Bool("reverted", reverted).
		Dur("elapsed", elapsed).
		Msg("reschedule failed")
	c.observe(result, elapsed)
	return reverted
}

func (c *Committer) observe(result string, elapsed time.Duration) {
	if c.observer != nil {
		c.observer(result, elapsed)
	}
}

// Commit runs Begin, Persist and Resolve in sequence and returns the
// persistence error, if any.
func (c *Committer) Commit(ctx context.Context, ws *WorkingSet, updated booking.Booking) error {
	w, err := c.Begin(ws, updated)
	if err != nil {
		return err
	}
	started := time.Now()
	err = c.Persist(ctx, w)
	c.Resolve(ws, w, err, time.Since(started))
	return err
}
