// Package ui implements the stretchboard command line.
package ui

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stretchlp/stretchboard/internal/booking"
	"github.com/stretchlp/stretchboard/internal/config"
	"github.com/stretchlp/stretchboard/internal/dateutil"
	"github.com/stretchlp/stretchboard/internal/logging"
	"github.com/stretchlp/stretchboard/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	source  booking.Source
	store   booking.Store
	config  *config.Config
	cfgPath string
	root    *cobra.Command
	debug   bool // Enable debug logging
	date    string
	nowFunc func() time.Time

	log     zerolog.Logger
	logOpen bool
	closers []io.Closer
}

// NewApp creates a new CLI application. A nil source is opened lazily from
// cfg the first time a command needs bookings.
func NewApp(source booking.Source, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{source: source, config: cfg, nowFunc: time.Now, log: zerolog.Nop()}
	if store, ok := source.(booking.Store); ok {
		a.store = store
	}

	a.root = &cobra.Command{
		Use:   "stretchboard",
		Short: "Salon day board with drag-to-reschedule",
		Long: `Stretchboard shows one day of salon bookings on a half-hour grid.

Overlapping bookings sit side by side. Drag a booking to another slot to
reschedule it; click it to open the detail view.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runBoard()
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to file)")
	a.root.Flags().StringVar(&a.date, "date", "", "Day to open (YYYY-MM-DD, today, tomorrow, +N, weekday)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.editCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.freeCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.serveCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stretchboard %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// SetArgs overrides os.Args, for tests.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// SetConfigPath overrides the config file the config command edits.
func (a *App) SetConfigPath(path string) {
	a.cfgPath = path
}

// SetOutput redirects command output, for tests.
func (a *App) SetOutput(w io.Writer) {
	a.root.SetOut(w)
	a.root.SetErr(w)
}

// Close releases everything the app opened.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// logger builds the logger once. --debug sends debug JSON to a file so it
// never lands on the board's screen.
func (a *App) logger() (zerolog.Logger, error) {
	if a.logOpen {
		return a.log, nil
	}
	cfg := a.config.Logging
	if a.debug {
		cfg = logging.ForDebug(cfg)
	}
	log, closer, err := logging.New(cfg, "stretchboard", Version)
	if err != nil {
		return zerolog.Nop(), err
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	a.log, a.logOpen = log, true
	return log, nil
}

// day resolves a --date value against the app clock.
func (a *App) day(value string) (time.Time, error) {
	return dateutil.ParseRelativeDate(value, a.nowFunc())
}

func (a *App) runBoard() error {
	day, err := a.day(a.date)
	if err != nil {
		return err
	}
	log, err := a.logger()
	if err != nil {
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
	return tui.Run(source, a.config,
		tui.WithLogger(log),
		tui.WithDay(day),
		tui.WithExporter(exporter),
	)
}
