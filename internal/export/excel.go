// Package export writes a day board to an Excel workbook.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/stretchlp/stretchboard/internal/booking"
	"github.com/stretchlp/stretchboard/internal/dateutil"
	"github.com/stretchlp/stretchboard/internal/schedule"
)

// Sheet names.
const (
	BoardSheet = "Board"
	ListSheet  = "Bookings"
)

// headerRow is the row holding column headers; grid rows follow it.
const headerRow = 2

// FileName returns the workbook name for day.
func FileName(day time.Time) string {
	return fmt.Sprintf("stretchboard_%s.xlsx", day.Format(dateutil.DateLayout))
}

// Exporter builds workbooks with a fixed grid and layout policy.
type Exporter struct {
	grid schedule.TimeGrid
	opts schedule.Options
	log  zerolog.Logger
}

// New creates an exporter.
func New(grid schedule.TimeGrid, opts schedule.Options, log zerolog.Logger) *Exporter {
	return &Exporter{grid: grid, opts: opts, log: log}
}

// WriteDay saves the workbook for day into dir and returns its path.
func (e *Exporter) WriteDay(dir string, day time.Time, bookings []booking.Booking) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	f, err := e.Build(day, bookings)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	path := filepath.Join(dir, FileName(day))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("saving workbook: %w", err)
	}

	e.log.Info().Str("file_path", path).Int("bookings", len(bookings)).Msg("excel file created")
	return path, nil
}

// Build returns an unsaved workbook with the board and list sheets.
func (e *Exporter) Build(day time.Time, bookings []booking.Booking) (*excelize.File, error) {
	bookings = schedule.ForDay(bookings, day)

	f := excelize.NewFile()
	if _, err := f.NewSheet(BoardSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	if _, err := f.NewSheet(ListSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	_ = f.DeleteSheet("Sheet1")
	if index, err := f.GetSheetIndex(BoardSheet); err == nil {
		f.SetActiveSheet(index)
	}

	if err := e.writeBoard(f, day, bookings); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeList(f, bookings); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func (e *Exporter) writeBoard(f *excelize.File, day time.Time, bookings []booking.Booking) error {
	_ = f.SetCellValue(BoardSheet, "A1", day.Format("2006-01-02 (Mon)"))
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	_ = f.SetCellStyle(BoardSheet, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellValue(BoardSheet, cellName(1, headerRow), "Time")
	_ = f.SetCellStyle(BoardSheet, cellName(1, headerRow), cellName(1, headerRow), headerStyle)

	for i, slot := range e.grid.Slots() {
		_ = f.SetCellValue(BoardSheet, cellName(1, headerRow+1+i), slot.Label)
	}
	_ = f.SetColWidth(BoardSheet, "A", "A", 8)

	occupied := make(map[[2]int]bool)
	lastCol := 1
	for _, group := range schedule.LayoutDay(e.grid, bookings, e.opts) {
		for _, col := range group.Columns {
			x := 2 + col.ColumnIndex
			for !free(occupied, x, col.Placement) {
				x++
			}
			for r := col.Placement.StartRow; r < col.Placement.EndRow(); r++ {
				occupied[[2]int{x, r}] = true
			}
			lastCol = max(lastCol, x)

			if err := writeBlock(f, x, col); err != nil {
				return err
			}
		}
	}

	if lastCol > 1 {
		first, _ := excelize.ColumnNumberToName(2)
		last, _ := excelize.ColumnNumberToName(lastCol)
		_ = f.SetColWidth(BoardSheet, first, last, 22)
		for x := 2; x <= lastCol; x++ {
			_ = f.SetCellStyle(BoardSheet, cellName(x, headerRow), cellName(x, headerRow), headerStyle)
		}
	}
	return nil
}

func free(occupied map[[2]int]bool, x int, p schedule.Placement) bool {
	for r := p.StartRow; r < p.EndRow(); r++ {
		if occupied[[2]int{x, r}] {
			return false
		}
	}
	return true
}

func writeBlock(f *excelize.File, x int, col schedule.Column) error {
	b := col.Booking
	top := cellName(x, headerRow+col.Placement.StartRow)
	bottom := cellName(x, headerRow+col.Placement.EndRow()-1)

	value := fmt.Sprintf("%s\n%s-%s", b.Title, b.Start.Format("15:04"), b.End.Format("15:04"))
	if b.Status != "" {
		value += "\n" + b.Status.Label()
	}
	if err := f.SetCellValue(BoardSheet, top, value); err != nil {
		return fmt.Errorf("writing booking %s: %w", b.ID, err)
	}
	if top != bottom {
		if err := f.MergeCell(BoardSheet, top, bottom); err != nil {
			return fmt.Errorf("merging booking %s: %w", b.ID, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{b.Color()}, Pattern: 1},
		Font:      &excelize.Font{Color: "#FFFFFF", Bold: true},
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err == nil {
		_ = f.SetCellStyle(BoardSheet, top, bottom, style)
	}
	return nil
}

var listHeaders = []string{"ID", "Title", "Start", "End", "Minutes", "Course", "Status", "Customer", "Email", "Phone", "Message"}

func writeList(f *excelize.File, bookings []booking.Booking) error {
	for i, h := range listHeaders {
		_ = f.SetCellValue(ListSheet, cellName(i+1, 1), h)
	}
	style, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2EFDA"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	_ = f.SetCellStyle(ListSheet, "A1", cellName(len(listHeaders), 1), style)

	for i, b := range bookings {
		row := []any{
			b.ID,
			b.Title,
			b.Start.Format("15:04"),
			b.End.Format("15:04"),
			b.Minutes(),
			courseValue(b.CourseMinutes),
			b.Status.Label(),
			b.CustomerName,
			b.CustomerEmail,
			b.CustomerPhone,
			strings.TrimSpace(b.Message),
		}
		if err := f.SetSheetRow(ListSheet, cellName(1, i+2), &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(ListSheet, "B", "B", 20)
	_ = f.SetColWidth(ListSheet, "H", "K", 20)
	return nil
}

func courseValue(minutes int) any {
	if minutes == 0 {
		return ""
	}
	return minutes
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
