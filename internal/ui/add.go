package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stretchlp/stretchboard/internal/booking"
	"github.com/stretchlp/stretchboard/internal/dateutil"
)

// addOptions are the flags of the add command.
type addOptions struct {
	date    string
	start   string
	course  int
	status  string
	email   string
	phone   string
	message string
}

func (a *App) addCmd() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add [customer]",
		Short: "Add a booking to the local database",
		Long: `Add a booking to the local SQLite database.

The booking is titled after the customer and lasts --course minutes
from --start, or from the next free slot when --start is omitted.
Run "stretchboard serve" to expose the database to the board over HTTP.

Example:
  stretchboard add Sato --date=2025-01-10 --start=10:00 --course=80 --status=confirmed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.ensureStore()
			if err != nil {
				return err
			}
			day, err := a.day(opts.date)
			if err != nil {
				return err
			}
			sched, err := a.scheduler()
			if err != nil {
				return err
			}
			ctx := context.Background()
			existing, err := store.ListBookings(ctx, day)
			if err != nil {
				return fmt.Errorf("listing bookings: %w", err)
			}

			if opts.start == "" {
				start, ok := sched.NextAvailableStart(day, a.nowFunc(), opts.course, existing)
				if !ok {
					return fmt.Errorf("no free %d minute slot on %s", opts.course, day.Format(dateutil.DateLayout))
				}
				opts.start = start.Format("15:04")
			}

			b, err := newBooking(args[0], day, opts)
			if err != nil {
				return err
			}
			if !sched.CanFit(b.Start, b.Minutes(), existing, "") {
				fmt.Fprintln(cmd.OutOrStdout(), formatMuted("Note: overlaps another booking or opening hours"))
			}
			if err := store.CreateBooking(ctx, &b); err != nil {
				return fmt.Errorf("creating booking: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created booking %s: %s\n", b.ID, b.Summary())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.date, "date", "", "Booking date (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&opts.start, "start", "", "Start time (HH:MM, default: next free slot)")
	cmd.Flags().IntVar(&opts.course, "course", booking.DefaultCourseMinutes, "Course length in minutes: 40, 60 or 80")
	cmd.Flags().StringVar(&opts.status, "status", string(booking.StatusProvisional), "Status")
	cmd.Flags().StringVar(&opts.email, "email", "", "Customer email")
	cmd.Flags().StringVar(&opts.phone, "phone", "", "Customer phone")
	cmd.Flags().StringVar(&opts.message, "message", "", "Customer message")

	return cmd
}

func newBooking(customer string, day time.Time, opts addOptions) (booking.Booking, error) {
	clock, err := time.Parse("15:04", opts.start)
	if err != nil {
		return booking.Booking{}, fmt.Errorf("start must be HH:MM: %q", opts.start)
	}
	status, err := booking.ParseStatus(opts.status)
	if err != nil {
		return booking.Booking{}, err
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location())
	customer = strings.TrimSpace(customer)
	if customer == "" {
		return booking.Booking{}, fmt.Errorf("customer name is required")
	}

	b := booking.Booking{
		Title:         customer + booking.TitleSuffix,
		Start:         start,
		End:           start.Add(time.Duration(booking.DefaultCourseMinutes) * time.Minute),
		Status:        status,
		CustomerName:  customer,
		CustomerEmail: opts.email,
		CustomerPhone: opts.phone,
		Message:       opts.message,
	}
	return b.WithCourse(opts.course)
}
