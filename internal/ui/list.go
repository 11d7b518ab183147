package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stretchlp/stretchboard/internal/dateutil"
	"github.com/stretchlp/stretchboard/internal/schedule"
)

func (a *App) listCmd() *cobra.Command {
	var (
		date    string
		days    int
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookings for a day",
		Long: `List the bookings of one or more days in board order.

Bookings that overlap are bracketed together and show the column they
take on the board.`,
		Example: `  stretchboard list
  stretchboard list --date=2025-01-15
  stretchboard list --date=monday --days=3 -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}
			first, err := a.day(date)
			if err != nil {
				return err
			}
			source, err := a.ensureSource()
			if err != nil {
				return err
			}
			grid, opts, err := a.layout()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i := range days {
				day := dateutil.AddDays(first, i)
				ctx, cancel := context.WithTimeout(context.Background(), a.config.API.Timeout())
				bookings, err := source.ListBookings(ctx, day)
				cancel()
				if err != nil {
					return fmt.Errorf("listing bookings for %s: %w", day.Format(dateutil.DateLayout), err)
				}

				if i > 0 {
					fmt.Fprintln(out)
				}
				printDay(out, day, schedule.LayoutDay(grid, schedule.ForDay(bookings, day), opts), PrintOpts{Verbose: verbose})
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "First day (YYYY-MM-DD, today, tomorrow, +N, weekday)")
	cmd.Flags().IntVar(&days, "days", 1, "Number of days to list")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show customer contact details")

	return cmd
}
