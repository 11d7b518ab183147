// Package tui provides the terminal day board for stretchboard.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/stretchlp/stretchboard/internal/booking"
	"github.com/stretchlp/stretchboard/internal/config"
	"github.com/stretchlp/stretchboard/internal/dateutil"
	"github.com/stretchlp/stretchboard/internal/metrics"
	"github.com/stretchlp/stretchboard/internal/schedule"
	"github.com/stretchlp/stretchboard/internal/tui/commands"
	"github.com/stretchlp/stretchboard/internal/tui/theme"
)

const maxRowLines = 4

// Model is the main TUI model.
type Model struct {
	// Dependencies
	source    booking.Source
	config    *config.Config
	log       zerolog.Logger
	committer *schedule.Committer
	exporter  commands.Exporter
	nowFunc   func() time.Time

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Board state
	board   *schedule.Board
	day     time.Time // day shown, or being loaded
	loading bool

	selected string // booking under keyboard focus
	dragRect blockRect
	detail   *detailState
	showHelp bool

	keys    keyMap
	help    help.Model
	overlay OverlayModel

	// Terminal dimensions and layout
	width    int
	height   int
	rowLines int
	scroll   int

	// Messages
	statusMsg  string
	statusErr  bool
	statusTime time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithLogger sets the logger for board events.
func WithLogger(log zerolog.Logger) ModelOption {
	return func(m *Model) {
		m.log = log
	}
}

// WithDay sets the first day shown.
func WithDay(day time.Time) ModelOption {
	return func(m *Model) {
		m.day = dateutil.TruncateToDay(day)
	}
}

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.nowFunc = now
	}
}

// WithExporter enables spreadsheet export.
func WithExporter(e commands.Exporter) ModelOption {
	return func(m *Model) {
		m.exporter = e
	}
}

// New creates a new TUI model.
func New(source booking.Source, cfg *config.Config, opts ...ModelOption) (*Model, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	grid, err := schedule.NewTimeGrid(cfg.Schedule.StartHour, cfg.Schedule.EndHour)
	if err != nil {
		return nil, fmt.Errorf("building grid: %w", err)
	}
	grouping, err := schedule.ParseGroupPolicy(cfg.Schedule.Grouping)
	if err != nil {
		return nil, err
	}
	columns, err := schedule.ParseColumnPolicy(cfg.Schedule.Columns)
	if err != nil {
		return nil, err
	}

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load(theme.DefaultName)
	}
	styles := NewStyles(t)

	m := &Model{
		source:   source,
		config:   cfg,
		log:      zerolog.Nop(),
		nowFunc:  time.Now,
		theme:    t,
		styles:   styles,
		keys:     defaultKeyMap(),
		help:     help.New(),
		overlay:  NewOverlayModel(),
		rowLines: max(1, cfg.UI.RowLines),
	}
	m.help.Styles = styles.Help
	m.overlay.SetBackdrop(styles.palette.ModalBackdrop)

	for _, opt := range opts {
		opt(m)
	}
	if m.day.IsZero() {
		m.day = dateutil.TruncateToDay(m.nowFunc())
	}

	m.board = schedule.NewBoard(grid, schedule.Options{Grouping: grouping, Columns: columns}, m.day, m.rowLines)
	m.committer = schedule.NewCommitter(source, cfg.API.Timeout(), m.log).
		WithObserver(metrics.ObserveCommit)
	return m, nil
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.loadDay(m.day)
}

func (m *Model) loadDay(day time.Time) tea.Cmd {
	m.day = dateutil.TruncateToDay(day)
	m.loading = true
	return commands.LoadDay(m.source, m.day, m.config.API.Timeout())
}

func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.statusMsg = msg
	m.statusErr = isErr
	m.statusTime = m.nowFunc()
	return commands.ClearStatusAfter(m.statusTime)
}

// autoRowLines grows rows to fill tall terminals when row_lines is 0.
func (m *Model) autoRowLines() {
	if m.config.UI.RowLines > 0 {
		m.rowLines = m.config.UI.RowLines
	} else {
		gridH := m.height - headerHeight - m.footerHeight()
		m.rowLines = min(maxRowLines, max(1, gridH/max(1, m.board.TotalRows())))
	}
	m.board.Drag().SetRowHeight(m.rowLines)
	m.clampScroll()
}

func (m *Model) clampScroll() {
	m.scroll = min(max(0, m.scroll), m.geometry().maxScroll())
}

// scrollTo brings the first booking of the day into view.
func (m *Model) scrollTo(row int) {
	g := m.geometry()
	if row-1 < m.scroll || row-1 >= m.scroll+g.visibleRows() {
		m.scroll = row - 1
	}
	m.clampScroll()
}

// Run starts the TUI.
func Run(source booking.Source, cfg *config.Config, opts ...ModelOption) error {
	m, err := New(source, cfg, opts...)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())
	_, err = p.Run()
	return err
}
