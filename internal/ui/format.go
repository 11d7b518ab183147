package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/stretchlp/stretchboard/internal/booking"
	"github.com/stretchlp/stretchboard/internal/schedule"
)

// PrintOpts configures day printing.
type PrintOpts struct {
	Verbose bool // Show customer contact lines
	Width   int  // Line width (0 = terminal width)
}

// DayStats summarizes one day of bookings.
type DayStats struct {
	Bookings    int
	Minutes     int
	ByStatus    map[booking.Status]int
	Overlapping int // bookings sharing a group with another booking
}

// dayStats counts the laid out groups of a day.
func dayStats(groups []schedule.GroupLayout) DayStats {
	s := DayStats{ByStatus: make(map[booking.Status]int)}
	for _, gl := range groups {
		for _, col := range gl.Columns {
			s.Bookings++
			s.Minutes += col.Booking.Minutes()
			s.ByStatus[col.Booking.Status]++
			if len(gl.Columns) > 1 {
				s.Overlapping++
			}
		}
	}
	return s
}

// printDay writes one day in board order. Overlap groups are bracketed and
// each booking shows its column inside the group.
func printDay(w io.Writer, day time.Time, groups []schedule.GroupLayout, opts PrintOpts) {
	width := opts.Width
	if width <= 0 {
		width = termWidth()
	}

	fmt.Fprintln(w, formatHeader(fmt.Sprintf("=== %s ===", day.Format("Mon 2006-01-02"))))
	if len(groups) == 0 {
		fmt.Fprintln(w, formatMuted("  No bookings."))
		return
	}

	for _, gl := range groups {
		n := len(gl.Columns)
		for i, col := range gl.Columns {
			marker := "  "
			suffix := ""
			if n > 1 {
				switch i {
				case 0:
					marker = "┌ "
				case n - 1:
					marker = "└ "
				default:
					marker = "│ "
				}
				suffix = fmt.Sprintf(" col %d/%d", col.ColumnIndex+1, gl.ColumnCount)
			}
			line := bookingLine(col.Booking, width-2-ansi.StringWidth(suffix))
			fmt.Fprintf(w, "%s%s%s\n", formatOverlap(marker), line, formatOverlap(suffix))
			if opts.Verbose {
				for _, extra := range contactLines(col.Booking) {
					fmt.Fprintf(w, "        %s\n", formatMuted(extra))
				}
			}
		}
	}

	stats := dayStats(groups)
	fmt.Fprintln(w, formatMuted(fmt.Sprintf("  %d bookings, %s booked, %d overlapping",
		stats.Bookings, formatMinutes(stats.Minutes), stats.Overlapping)))
}

// bookingLine renders "● b12 10:00-11:00  60m Sato 様 Confirmed" cut to width.
func bookingLine(b booking.Booking, width int) string {
	course := "   "
	if b.CourseMinutes > 0 {
		course = fmt.Sprintf("%dm", b.CourseMinutes)
	}
	plain := fmt.Sprintf("%s %-5s %s-%s %3s %s [%s]",
		statusSymbol(b.Status),
		b.ID,
		b.Start.Format("15:04"),
		b.End.Format("15:04"),
		course,
		b.Title,
		b.Status.Label(),
	)
	if width > 0 && ansi.StringWidth(plain) > width {
		plain = ansi.Truncate(plain, width, "…")
	}
	return formatStatus(b.Status, plain)
}

func contactLines(b booking.Booking) []string {
	var lines []string
	for _, s := range []string{b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.Message} {
		if s = strings.TrimSpace(s); s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

func statusSymbol(s booking.Status) string {
	switch s {
	case booking.StatusProvisional:
		return "○"
	case booking.StatusConfirmed:
		return "●"
	case booking.StatusCompleted:
		return "✓"
	case booking.StatusCancelled:
		return "✗"
	default:
		return "?"
	}
}

// formatMinutes renders minutes as "2h30m", "45m" or "3h".
func formatMinutes(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%02dm", h, m)
	}
}
