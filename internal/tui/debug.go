package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/stretchlp/stretchboard/internal/schedule"
)

// Board events are logged at debug level so a normal run stays quiet.
// Run with --debug to see them.

func logKeyPress(log zerolog.Logger, msg tea.KeyMsg) {
	log.Debug().
		Str("event", "KEY_PRESS").
		Str("key", msg.String()).
		Msg("key")
}

func logMouse(log zerolog.Logger, msg tea.MouseMsg) {
	if msg.Action == tea.MouseActionMotion {
		return
	}
	log.Debug().
		Str("event", "MOUSE").
		Str("action", msg.Action.String()).
		Str("button", msg.Button.String()).
		Int("x", msg.X).
		Int("y", msg.Y).
		Msg("mouse")
}

func logDragStart(log zerolog.Logger, s schedule.DragSession) {
	log.Debug().
		Str("event", "DRAG_START").
		Str("session", s.ID.String()).
		Str("booking", s.Booking.ID).
		Int("offset_x", s.Offset.X).
		Int("offset_y", s.Offset.Y).
		Msg("drag started")
}

func logDragEnd(log zerolog.Logger, out schedule.Outcome, reason string) {
	ev := log.Debug().
		Str("event", "DRAG_END").
		Str("session", out.SessionID.String()).
		Str("booking", out.Original.ID).
		Str("outcome", out.Kind.String()).
		Str("reason", reason)
	if out.Kind == schedule.OutcomeReschedule {
		ev = ev.Int("slot", out.Slot).Time("start", out.Updated.Start)
	}
	ev.Msg("drag ended")
}

func logError(log zerolog.Logger, context string, err error) {
	log.Error().
		Err(err).
		Str("event", "ERROR").
		Str("context", context).
		Msg("tui error")
}
