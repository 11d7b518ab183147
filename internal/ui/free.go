package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stretchlp/stretchboard/internal/booking"
)

func (a *App) freeCmd() *cobra.Command {
	var (
		date   string
		course int
	)

	cmd := &cobra.Command{
		Use:   "free",
		Short: "Show open time on a day",
		Long: `Show the gaps between bookings within opening hours and the first
slot where a course of --course minutes fits. Cancelled bookings do not
take time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !booking.ValidCourse(course) {
				return fmt.Errorf("invalid course %d: must be 40, 60 or 80 minutes", course)
			}
			source, err := a.ensureSource()
			if err != nil {
				return err
			}
			day, err := a.day(date)
			if err != nil {
				return err
			}
			sched, err := a.scheduler()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), a.config.API.Timeout())
			defer cancel()
			bookings, err := source.ListBookings(ctx, day)
			if err != nil {
				return fmt.Errorf("listing bookings: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatHeader(fmt.Sprintf("=== Free on %s ===", day.Format("Mon 2006-01-02"))))
			windows := sched.FreeWindows(day, bookings)
			if len(windows) == 0 {
				fmt.Fprintln(out, formatMuted("  Fully booked."))
			}
			for _, w := range windows {
				fmt.Fprintf(out, "  %s-%s %s\n", w.Start.Format("15:04"), w.End.Format("15:04"), formatMinutes(w.Minutes()))
			}
			fmt.Fprintf(out, "  %s free\n", formatMinutes(sched.AvailableMinutes(day, bookings)))

			if start, ok := sched.NextAvailableStart(day, a.nowFunc(), course, bookings); ok {
				fmt.Fprintf(out, "  Next %dm slot: %s\n", course, start.Format("15:04"))
			} else {
				fmt.Fprintf(out, "  No %dm slot left\n", course)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to check (YYYY-MM-DD, today, tomorrow, +N, weekday)")
	cmd.Flags().IntVar(&course, "course", booking.DefaultCourseMinutes, "Course length in minutes")

	return cmd
}
