// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stretchlp/stretchboard/internal/booking"
	"github.com/stretchlp/stretchboard/internal/schedule"
)

// StatusTimeout is how long a status message stays visible.
const StatusTimeout = 3 * time.Second

// DayLoadedMsg is sent when a day's bookings were fetched.
type DayLoadedMsg struct {
	Day      time.Time
	Bookings []booking.Booking
}

// LoadFailedMsg is sent when fetching a day failed.
type LoadFailedMsg struct {
	Day time.Time
	Err error
}

// CommitResultMsg is sent when a persisted write came back.
type CommitResultMsg struct {
	Write   schedule.Write
	Err     error
	Elapsed time.Duration
}

// ExportedMsg is sent when a spreadsheet was written.
type ExportedMsg struct {
	Path string
}

// CopiedMsg is sent after text was placed on the clipboard.
type CopiedMsg struct {
	What string
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct {
	Set time.Time // the status this clear belongs to
}

// Exporter writes a day to disk.
type Exporter interface {
	WriteDay(dir string, day time.Time, bookings []booking.Booking) (string, error)
}

// LoadDay fetches the bookings of day.
func LoadDay(source booking.Source, day time.Time, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		bookings, err := source.ListBookings(ctx, day)
		if err != nil {
			return LoadFailedMsg{Day: day, Err: fmt.Errorf("loading %s: %w", day.Format("2006-01-02"), err)}
		}
		return DayLoadedMsg{Day: day, Bookings: bookings}
	}
}

// Persist sends an optimistic write to the backend.
func Persist(c *schedule.Committer, w schedule.Write) tea.Cmd {
	return func() tea.Msg {
		started := time.Now()
		err := c.Persist(context.Background(), w)
		return CommitResultMsg{Write: w, Err: err, Elapsed: time.Since(started)}
	}
}

// Export writes the day to a spreadsheet in dir.
func Export(e Exporter, dir string, day time.Time, bookings []booking.Booking) tea.Cmd {
	return func() tea.Msg {
		path, err := e.WriteDay(dir, day, bookings)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("exporting: %w", err)}
		}
		return ExportedMsg{Path: path}
	}
}

// Copy places text on the system clipboard.
func Copy(text, what string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying %s: %w", what, err)}
		}
		return CopiedMsg{What: what}
	}
}

// ClearStatusAfter clears the status set at set once StatusTimeout passed.
func ClearStatusAfter(set time.Time) tea.Cmd {
	return tea.Tick(StatusTimeout, func(time.Time) tea.Msg {
		return ClearStatusMsg{Set: set}
	})
}

func withTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}
