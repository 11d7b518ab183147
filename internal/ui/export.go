package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		date string
		dir  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a day to an Excel workbook",
		Long: `Write a day's bookings to an .xlsx workbook with a board sheet laid
out like the day board and a flat list sheet.`,
		Example: `  stretchboard export
  stretchboard export --date=tomorrow --dir=~/Desktop`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := a.day(date)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = a.config.Export.Dir
			}
			if dir, err = resolvePath(dir); err != nil {
				return err
			}

			source, err := a.ensureSource()
			if err != nil {
				return err
			}
			exporter, err := a.exporter()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), a.config.API.Timeout())
			defer cancel()
			bookings, err := source.ListBookings(ctx, day)
			if err != nil {
				return fmt.Errorf("listing bookings: %w", err)
			}

			path, err := exporter.WriteDay(dir, day, bookings)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bookings to %s\n", len(bookings), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to export (default: today)")
	cmd.Flags().StringVar(&dir, "dir", "", "Output directory (default: export.dir)")

	return cmd
}
