package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stretchlp/stretchboard/internal/booking"
	"github.com/stretchlp/stretchboard/internal/metrics"
	"github.com/stretchlp/stretchboard/internal/schedule"
)

func (a *App) moveCmd() *cobra.Command {
	var (
		date string
		to   string
	)

	cmd := &cobra.Command{
		Use:   "move [id] [HH:MM]",
		Short: "Move a booking to another slot",
		Long: `Move a booking to a half-hour slot, keeping its duration.

The booking is looked up on --date. Use --to to move it to another day.`,
		Example: `  stretchboard move b12 14:00
  stretchboard move b12 10:30 --date=2025-01-15 --to=tomorrow`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := a.day(date)
			if err != nil {
				return err
			}
			target := day
			if to != "" {
				if target, err = a.day(to); err != nil {
					return err
				}
			}
			grid, _, err := a.layout()
			if err != nil {
				return err
			}
			slot, err := slotFor(grid, args[1])
			if err != nil {
				return err
			}

			ctx := context.Background()
			ws, b, err := a.loadBooking(ctx, day, args[0])
			if err != nil {
				return err
			}
			updated := schedule.Reschedule(b, target, slot, grid)
			if err := a.commit(ctx, ws, updated); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s %s: %s → %s\n",
				b.ID, b.Title, timeRange(b), timeRange(updated))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day the booking is on (default: today)")
	cmd.Flags().StringVar(&to, "to", "", "Day to move the booking to (default: same day)")

	return cmd
}

func (a *App) editCmd() *cobra.Command {
	var (
		date   string
		status string
		course int
	)

	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Change a booking's status or course",
		Long: `Change a booking's status or course length.

Setting a course recomputes the end time from the start.`,
		Example: `  stretchboard edit b12 --status=confirmed
  stretchboard edit b12 --course=80 --date=tomorrow`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if status == "" && course == 0 {
				return fmt.Errorf("nothing to change: pass --status or --course")
			}
			day, err := a.day(date)
			if err != nil {
				return err
			}

			ctx := context.Background()
			ws, b, err := a.loadBooking(ctx, day, args[0])
			if err != nil {
				return err
			}
			updated := b
			if status != "" {
				if updated.Status, err = booking.ParseStatus(status); err != nil {
					return err
				}
			}
			if course != 0 {
				if updated, err = updated.WithCourse(course); err != nil {
					return err
				}
			}
			if err := a.commit(ctx, ws, updated); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", updated.Summary())
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day the booking is on (default: today)")
	cmd.Flags().StringVar(&status, "status", "", "New status: provisional, confirmed, completed or cancelled")
	cmd.Flags().IntVar(&course, "course", 0, "New course length in minutes (40, 60 or 80)")

	return cmd
}

// loadBooking fetches day into a working set and finds id in it.
func (a *App) loadBooking(ctx context.Context, day time.Time, id string) (*schedule.WorkingSet, booking.Booking, error) {
	if _, err := booking.ParseID(id); err != nil {
		return nil, booking.Booking{}, err
	}
	source, err := a.ensureSource()
	if err != nil {
		return nil, booking.Booking{}, err
	}

	loadCtx, cancel := context.WithTimeout(ctx, a.config.API.Timeout())
	defer cancel()
	bookings, err := source.ListBookings(loadCtx, day)
	if err != nil {
		return nil, booking.Booking{}, fmt.Errorf("listing bookings: %w", err)
	}

	ws := schedule.NewWorkingSet(day)
	ws.Replace(day, bookings)
	b, ok := ws.Get(id)
	if !ok {
		return nil, booking.Booking{}, fmt.Errorf("%w: %s on %s", booking.ErrBookingNotFound, id, day.Format("2006-01-02"))
	}
	return ws, b, nil
}

// commit persists updated through the same optimistic path the board uses.
func (a *App) commit(ctx context.Context, ws *schedule.WorkingSet, updated booking.Booking) error {
	log, err := a.logger()
	if err != nil {
		return err
	}
	source, err := a.ensureSource()
	if err != nil {
		return err
	}
	c := schedule.NewCommitter(source, a.config.API.Timeout(), log).WithObserver(metrics.ObserveCommit)
	if err := c.Commit(ctx, ws, updated); err != nil {
		return fmt.Errorf("saving %s: %w", updated.ID, err)
	}
	return nil
}

// slotFor maps "HH:MM" to a grid slot.
func slotFor(grid schedule.TimeGrid, value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("time must be HH:MM: %q", value)
	}
	label := t.Format("15:04")
	for i := range grid.TotalRows() {
		if grid.SlotLabel(i) == label {
			return i, nil
		}
	}
	return 0, fmt.Errorf("time %q is not a slot between %02d:00 and %02d:00", value, grid.StartHour, grid.EndHour)
}

func timeRange(b booking.Booking) string {
	return fmt.Sprintf("%s-%s", b.Start.Format("15:04"), b.End.Format("15:04"))
}
