package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stretchlp/stretchboard/internal/booking"
)

func (a *App) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file.json]",
		Short: "Import backend bookings into the local database",
		Long: `Import bookings in the backend exchange format (a JSON array as
returned by GET /bookings) into the local SQLite database. Pass "-" to
read from stdin. Imported bookings get new local ids.

Example:
  stretchboard import ~/Downloads/bookings.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.ensureStore()
			if err != nil {
				return err
			}

			var r io.Reader = cmd.InOrStdin()
			name := "stdin"
			if args[0] != "-" {
				path, err := resolvePath(args[0])
				if err != nil {
					return err
				}
				f, err := os.Open(path)
				if err != nil {
					if os.IsNotExist(err) {
						return fmt.Errorf("import file does not exist: %s", path)
					}
					return fmt.Errorf("opening import file: %w", err)
				}
				defer func() { _ = f.Close() }()
				r, name = f, path
			}

			count, err := importBookings(context.Background(), store, r)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d bookings from %s\n", count, name)
			return nil
		},
	}

	return cmd
}

// importBookings decodes a backend booking list and stores every record.
// Nothing is written when any record is malformed.
func importBookings(ctx context.Context, dest booking.Store, r io.Reader) (int, error) {
	var list []booking.BackendBooking
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return 0, fmt.Errorf("decoding bookings: %w", err)
	}
	bookings, err := booking.ToBookings(list)
	if err != nil {
		return 0, fmt.Errorf("converting bookings: %w", err)
	}

	imported := 0
	for _, b := range bookings {
		sourceID := b.ID
		b.ID = ""
		if err := dest.CreateBooking(ctx, &b); err != nil {
			return imported, fmt.Errorf("importing booking %s: %w", sourceID, err)
		}
		imported++
	}

	return imported, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
