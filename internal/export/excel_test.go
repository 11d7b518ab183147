package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/stretchlp/stretchboard/internal/booking"
	"github.com/stretchlp/stretchboard/internal/schedule"
)

var testDay = time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)

func at(hour, minute int) time.Time {
	return time.Date(2025, 1, 15, hour, minute, 0, 0, time.Local)
}

func bk(id string, start, end time.Time, status booking.Status) booking.Booking {
	return booking.Booking{ID: id, Title: id, Start: start, End: end, Status: status}
}

func sample() []booking.Booking {
	return []booking.Booking{
		bk("b1", at(9, 0), at(10, 0), booking.StatusConfirmed),
		bk("b2", at(9, 30), at(10, 30), booking.StatusProvisional),
		bk("b3", at(11, 0), at(11, 40), booking.StatusCompleted),
		bk("b4", at(9, 0).AddDate(0, 0, 1), at(10, 0).AddDate(0, 0, 1), booking.StatusConfirmed),
	}
}

func newTestExporter() *Exporter {
	return New(schedule.DefaultTimeGrid(), schedule.Options{}, zerolog.Nop())
}

func TestBuild_Board(t *testing.T) {
	f, err := newTestExporter().Build(testDay, sample())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{BoardSheet, ListSheet}, f.GetSheetList())

	label, _ := f.GetCellValue(BoardSheet, "A3")
	assert.Equal(t, "09:00", label)
	last, _ := f.GetCellValue(BoardSheet, "A29")
	assert.Equal(t, "22:00", last)

	b1, _ := f.GetCellValue(BoardSheet, "B3")
	assert.Contains(t, b1, "b1")
	assert.Contains(t, b1, "09:00-10:00")

	b2, _ := f.GetCellValue(BoardSheet, "C4")
	assert.Contains(t, b2, "b2")

	b3, _ := f.GetCellValue(BoardSheet, "B7")
	assert.Contains(t, b3, "b3")

	merges, err := f.GetMergeCells(BoardSheet)
	require.NoError(t, err)
	ranges := make([]string, 0, len(merges))
	for _, m := range merges {
		ranges = append(ranges, m.GetStartAxis()+":"+m.GetEndAxis())
	}
	assert.ElementsMatch(t, []string{"B3:B4", "C4:C5", "B7:B8"}, ranges)
}

func TestBuild_List(t *testing.T) {
	f, err := newTestExporter().Build(testDay, sample())
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ListSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4, "header plus the three bookings of the day")
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "b1", rows[1][0])
	assert.Equal(t, "Confirmed", rows[1][6])
	assert.Equal(t, "40", rows[3][4])
}

func TestBuild_SharedRowsShiftRight(t *testing.T) {
	// Two short bookings that do not overlap in time still round onto the
	// same grid row; the second one moves to the next free column.
	bookings := []booking.Booking{
		bk("b1", at(9, 0), at(9, 15), booking.StatusConfirmed),
		bk("b2", at(9, 20), at(9, 50), booking.StatusConfirmed),
	}

	f, err := newTestExporter().Build(testDay, bookings)
	require.NoError(t, err)
	defer f.Close()

	b1, _ := f.GetCellValue(BoardSheet, "B3")
	assert.Contains(t, b1, "b1")
	b2, _ := f.GetCellValue(BoardSheet, "C3")
	assert.Contains(t, b2, "b2")
}

func TestWriteDay(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := newTestExporter().WriteDay(dir, testDay, sample())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "stretchboard_2025-01-15.xlsx"), path)

	_, err = os.Stat(path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, BoardSheet, f.GetSheetName(f.GetActiveSheetIndex()))
}

func TestWriteDay_Empty(t *testing.T) {
	path, err := newTestExporter().WriteDay(t.TempDir(), testDay, nil)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	merges, _ := f.GetMergeCells(BoardSheet)
	assert.Empty(t, merges)
}
