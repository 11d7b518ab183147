package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stretchlp/stretchboard/internal/booking"
	"github.com/stretchlp/stretchboard/internal/schedule"
	"github.com/stretchlp/stretchboard/internal/tui/commands"
	"github.com/stretchlp/stretchboard/internal/tui/view"
)

// detailState is an open booking detail. Edits go to draft and are only
// committed on save.
type detailState struct {
	original booking.Booking
	draft    booking.Booking
	err      string
}

func (d *detailState) dirty() bool {
	o, n := d.original, d.draft
	return !o.Start.Equal(n.Start) || !o.End.Equal(n.End) ||
		o.Status != n.Status || o.CourseMinutes != n.CourseMinutes
}

func (m *Model) openDetail(b booking.Booking) {
	m.selected = b.ID
	m.detail = &detailState{original: b, draft: b}
	m.overlay.Show()
}

func (m *Model) closeDetail() {
	m.detail = nil
	m.overlay.Hide()
}

// handleDetailKeys handles keys while a booking is open.
func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.detail
	d.err = ""

	switch {
	case key.Matches(msg, m.keys.Close):
		m.closeDetail()

	case key.Matches(msg, m.keys.Save):
		if !d.dirty() {
			m.closeDetail()
			return m, nil
		}
		w, err := m.committer.Begin(m.board.WorkingSet(), d.draft)
		if err != nil {
			d.err = err.Error()
			return m, nil
		}
		m.closeDetail()
		// The commit result replaces this status.
		m.statusMsg, m.statusErr = "Saving "+d.draft.Title+"...", false
		return m, commands.Persist(m.committer, w)

	case key.Matches(msg, m.keys.Status):
		d.draft.Status = d.draft.Status.Next()

	case key.Matches(msg, m.keys.Course):
		next, err := d.draft.WithCourse(nextCourse(d.draft.CourseMinutes))
		if err != nil {
			d.err = err.Error()
			return m, nil
		}
		d.draft = next

	case key.Matches(msg, m.keys.Earlier):
		d.draft = m.stepStart(d.draft, -1)
	case key.Matches(msg, m.keys.Later):
		d.draft = m.stepStart(d.draft, 1)

	case key.Matches(msg, m.keys.Copy):
		return m, commands.Copy(clipboardText(d.draft), "booking")
	}
	return m, nil
}

// nextCourse cycles through booking.Courses. Unset courses start at the
// default.
func nextCourse(current int) int {
	idx := slices.Index(booking.Courses, current)
	if idx < 0 {
		return booking.DefaultCourseMinutes
	}
	return booking.Courses[(idx+1)%len(booking.Courses)]
}

// stepStart moves b to the previous or next selectable start time, keeping
// its duration. Off-grid starts snap to the nearest option in that direction.
func (m Model) stepStart(b booking.Booking, dir int) booking.Booking {
	g := m.board.Grid()
	options := schedule.TimeOptions(g.StartHour, g.EndHour)
	current := b.Start.Format("15:04")

	idx := -1
	if dir > 0 {
		idx = slices.IndexFunc(options, func(o string) bool { return o > current })
	} else {
		for i, o := range options {
			if o < current {
				idx = i
			}
		}
	}
	if idx < 0 {
		return b
	}

	var h, mm int
	if _, err := fmt.Sscanf(options[idx], "%d:%d", &h, &mm); err != nil {
		return b
	}
	start := time.Date(b.Start.Year(), b.Start.Month(), b.Start.Day(), h, mm, 0, 0, b.Start.Location())
	return b.WithTimes(start, start.Add(b.Duration()))
}

func clipboardText(b booking.Booking) string {
	lines := []string{b.Summary()}
	for _, s := range []string{b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.Message} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderDetail() string {
	d := m.detail
	if d == nil {
		return ""
	}
	b := d.draft
	styles := m.styles.Modal

	course := "-"
	if b.CourseMinutes > 0 {
		course = fmt.Sprintf("%d min", b.CourseMinutes)
	}
	fields := []view.Field{
		{Label: "Time", Value: fmt.Sprintf("%s-%s (%d min)", b.Start.Format("15:04"), b.End.Format("15:04"), b.Minutes()), Hint: "[ ]"},
		{Label: "Course", Value: course, Hint: "c"},
		{Label: "Status", Value: b.Status.Label(), Hint: "s"},
	}
	for _, f := range []view.Field{
		{Label: "Customer", Value: b.CustomerName},
		{Label: "Email", Value: b.CustomerEmail},
		{Label: "Phone", Value: b.CustomerPhone},
		{Label: "Message", Value: view.Truncate(b.Message, 40)},
	} {
		if f.Value != "" {
			fields = append(fields, f)
		}
	}

	body := view.RenderFields(fields, styles)
	if d.err != "" {
		body += "\n\n" + m.styles.Footer.Error.Render(d.err)
	}

	save := "[Enter] Close"
	if d.dirty() {
		save = "[Enter] Save"
	}
	footer := view.RenderModalButtons(styles, save, "[y] Copy", "[Esc] Cancel")

	title := b.Title
	if d.dirty() {
		title += " *"
	}
	return view.RenderModalFrame(title, body, footer, styles)
}
