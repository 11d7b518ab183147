package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/stretchlp/stretchboard/internal/booking"
)

// Color definitions for consistent styling across the UI.
var (
	// Provisional: yellow, still waiting on the customer
	colorProvisional = color.New(color.FgYellow)

	// Confirmed: bold green
	colorConfirmed = color.New(color.FgGreen, color.Bold)

	// Completed: blue
	colorCompleted = color.New(color.FgBlue)

	// Cancelled: red and dim
	colorCancelled = color.New(color.FgRed, color.Faint)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Overlap markers: magenta so side-by-side bookings stand out
	colorOverlap = color.New(color.FgMagenta)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// formatStatus colors s by booking status.
func formatStatus(st booking.Status, s string) string {
	switch st {
	case booking.StatusProvisional:
		return colorProvisional.Sprint(s)
	case booking.StatusConfirmed:
		return colorConfirmed.Sprint(s)
	case booking.StatusCompleted:
		return colorCompleted.Sprint(s)
	case booking.StatusCancelled:
		return colorCancelled.Sprint(s)
	default:
		return s
	}
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatOverlap formats overlap group markers.
func formatOverlap(s string) string {
	return colorOverlap.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
