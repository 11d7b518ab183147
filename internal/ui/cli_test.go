package ui

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchlp/stretchboard/internal/booking"
	"github.com/stretchlp/stretchboard/internal/config"
	"github.com/stretchlp/stretchboard/internal/db"
	"github.com/stretchlp/stretchboard/internal/export"
)

func init() {
	DisableColor()
}

var testDay = time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)

func at(hour, minute int) time.Time {
	return time.Date(2025, 1, 15, hour, minute, 0, 0, time.Local)
}

func newTestApp(t *testing.T) (*App, *db.SQLite) {
	t.Helper()
	dir := t.TempDir()
	store, err := db.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cfg := config.Default()
	cfg.Storage.Source = config.SourceSQLite
	cfg.Storage.DBPath = filepath.Join(dir, "test.db")
	cfg.Logging.Output = "discard"
	cfg.Export.Dir = dir

	app := NewApp(store, cfg)
	app.nowFunc = func() time.Time { return at(8, 0) }
	app.SetConfigPath(filepath.Join(dir, "config.toml"))
	t.Cleanup(func() { _ = app.Close() })
	return app, store
}

func seed(t *testing.T, store *db.SQLite, name string, start, end time.Time, status booking.Status) booking.Booking {
	t.Helper()
	b := booking.Booking{
		Title:        name + booking.TitleSuffix,
		CustomerName: name,
		Start:        start,
		End:          end,
		Status:       status,
	}
	if err := store.CreateBooking(context.Background(), &b); err != nil {
		t.Fatalf("seeding %s: %v", name, err)
	}
	return b
}

func execute(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app.SetOutput(&out)
	app.SetArgs(args)
	err := app.Execute()
	return out.String(), err
}

func mustGet(t *testing.T, store *db.SQLite, id string) *booking.Booking {
	t.Helper()
	b, err := store.GetBooking(context.Background(), id)
	if err != nil {
		t.Fatalf("GetBooking(%s): %v", id, err)
	}
	return b
}

func TestVersion(t *testing.T) {
	app, _ := newTestApp(t)
	out, err := execute(t, app, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "stretchboard dev") {
		t.Errorf("output = %q", out)
	}
}

func TestList(t *testing.T) {
	app, store := newTestApp(t)
	seed(t, store, "Sato", at(10, 0), at(11, 0), booking.StatusConfirmed)
	seed(t, store, "Suzuki", at(10, 30), at(11, 30), booking.StatusProvisional)
	seed(t, store, "Tanaka", at(14, 0), at(15, 0), booking.StatusCompleted)

	out, err := execute(t, app, "list", "--date", "2025-01-15")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	for _, want := range []string{
		"=== Wed 2025-01-15 ===",
		"┌ ● b1    10:00-11:00",
		"Sato 様 [Confirmed] col 1/2",
		"└ ○ b2    10:30-11:30",
		"col 2/2",
		"✓ b3    14:00-15:00",
		"3 bookings, 3h booked, 2 overlapping",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Tanaka 様 [Completed] col") {
		t.Errorf("lone booking shows a column:\n%s", out)
	}
}

func TestList_EmptyAndDays(t *testing.T) {
	app, store := newTestApp(t)
	seed(t, store, "Sato", at(10, 0), at(11, 0), booking.StatusConfirmed)

	out, err := execute(t, app, "list", "--date", "2025-01-14", "--days", "2")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "=== Tue 2025-01-14 ===\n  No bookings.") {
		t.Errorf("empty day not reported:\n%s", out)
	}
	if !strings.Contains(out, "=== Wed 2025-01-15 ===") {
		t.Errorf("second day missing:\n%s", out)
	}
}

func TestList_InvalidDays(t *testing.T) {
	app, _ := newTestApp(t)
	if _, err := execute(t, app, "list", "--days", "0"); err == nil {
		t.Error("expected error for --days 0")
	}
}

func TestMove(t *testing.T) {
	app, store := newTestApp(t)
	b := seed(t, store, "Sato", at(9, 0), at(10, 0), booking.StatusConfirmed)

	out, err := execute(t, app, "move", b.ID, "14:00", "--date", "2025-01-15")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if want := "Moved b1 Sato 様: 09:00-10:00 → 14:00-15:00"; !strings.Contains(out, want) {
		t.Errorf("output = %q, want %q", out, want)
	}

	got := mustGet(t, store, b.ID)
	if !got.Start.Equal(at(14, 0)) || !got.End.Equal(at(15, 0)) {
		t.Errorf("stored %s-%s, want 14:00-15:00", got.Start.Format("15:04"), got.End.Format("15:04"))
	}
}

func TestMove_ToAnotherDay(t *testing.T) {
	app, store := newTestApp(t)
	b := seed(t, store, "Sato", at(9, 0), at(10, 30), booking.StatusConfirmed)

	if _, err := execute(t, app, "move", b.ID, "9:30", "--date", "2025-01-15", "--to", "2025-01-16"); err != nil {
		t.Fatalf("move: %v", err)
	}

	got := mustGet(t, store, b.ID)
	want := time.Date(2025, 1, 16, 9, 30, 0, 0, time.Local)
	if !got.Start.Equal(want) || got.Duration() != 90*time.Minute {
		t.Errorf("stored %v for %v, want %v for 1h30m", got.Start, got.Duration(), want)
	}
}

func TestMove_Errors(t *testing.T) {
	_, store := newTestApp(t)
	b := seed(t, store, "Sato", at(9, 0), at(10, 0), booking.StatusConfirmed)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown booking", []string{"move", "b99", "14:00", "--date", "2025-01-15"}, booking.ErrBookingNotFound},
		{"bad id", []string{"move", "x1", "14:00", "--date", "2025-01-15"}, booking.ErrInvalidID},
		{"off grid", []string{"move", b.ID, "14:15", "--date", "2025-01-15"}, nil},
		{"outside window", []string{"move", b.ID, "23:00", "--date", "2025-01-15"}, nil},
		{"not a time", []string{"move", b.ID, "soon", "--date", "2025-01-15"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t)
			app.store, app.source = store, store
			_, err := execute(t, app, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	got := mustGet(t, store, b.ID)
	if !got.Start.Equal(at(9, 0)) {
		t.Errorf("booking moved by a failed command: %v", got.Start)
	}
}

func TestEdit(t *testing.T) {
	app, store := newTestApp(t)
	b := seed(t, store, "Sato", at(10, 0), at(11, 0), booking.StatusProvisional)

	out, err := execute(t, app, "edit", b.ID, "--date", "2025-01-15", "--status", "confirmed", "--course", "80")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !strings.Contains(out, "Saved 2025-01-15 10:00-11:20 Sato 様 [Confirmed]") {
		t.Errorf("output = %q", out)
	}

	got := mustGet(t, store, b.ID)
	if got.Status != booking.StatusConfirmed || got.CourseMinutes != 80 || !got.End.Equal(at(11, 20)) {
		t.Errorf("stored %+v", got)
	}
}

func TestEdit_Errors(t *testing.T) {
	app, store := newTestApp(t)
	b := seed(t, store, "Sato", at(10, 0), at(11, 0), booking.StatusProvisional)

	if _, err := execute(t, app, "edit", b.ID, "--date", "2025-01-15"); err == nil {
		t.Error("expected error without changes")
	}

	app, _ = newTestApp(t)
	app.store, app.source = store, store
	_, err := execute(t, app, "edit", b.ID, "--date", "2025-01-15", "--course", "45")
	if !errors.Is(err, booking.ErrInvalidCourse) {
		t.Errorf("error = %v, want ErrInvalidCourse", err)
	}

	app, _ = newTestApp(t)
	app.store, app.source = store, store
	_, err = execute(t, app, "edit", b.ID, "--date", "2025-01-15", "--status", "ON_HOLD")
	if !errors.Is(err, booking.ErrInvalidStatus) {
		t.Errorf("error = %v, want ErrInvalidStatus", err)
	}
}

func TestAdd(t *testing.T) {
	app, store := newTestApp(t)

	out, err := execute(t, app, "add", "Sato", "--date", "2025-01-15", "--start", "9:30",
		"--course", "40", "--status", "confirmed", "--phone", "090-1234-5678")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Created booking b1: 2025-01-15 09:30-10:10 Sato 様 [Confirmed]") {
		t.Errorf("output = %q", out)
	}

	got := mustGet(t, store, "b1")
	if got.CustomerName != "Sato" || got.CustomerPhone != "090-1234-5678" || got.CourseMinutes != 40 {
		t.Errorf("stored %+v", got)
	}
}

func TestAdd_NextFreeSlot(t *testing.T) {
	app, store := newTestApp(t)
	app.nowFunc = func() time.Time { return at(9, 10) }
	seed(t, store, "Sato", at(9, 30), at(10, 30), booking.StatusConfirmed)
	seed(t, store, "Ito", at(11, 0), at(12, 0), booking.StatusCancelled)

	out, err := execute(t, app, "add", "Suzuki", "--course", "80")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	// 09:30 is taken and 10:30 fits 80 minutes because the cancelled booking
	// does not count.
	if !strings.Contains(out, "Created booking b3: 2025-01-15 10:30-11:50 Suzuki 様") {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "Note:") {
		t.Errorf("free slot reported as overlapping: %q", out)
	}
}

func TestAdd_WarnsOnOverlap(t *testing.T) {
	app, store := newTestApp(t)
	seed(t, store, "Sato", at(10, 0), at(11, 0), booking.StatusConfirmed)

	out, err := execute(t, app, "add", "Suzuki", "--date", "2025-01-15", "--start", "10:30")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Note: overlaps another booking") {
		t.Errorf("output = %q", out)
	}
}

func TestAdd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad start", []string{"add", "Sato", "--start", "noon"}},
		{"bad course", []string{"add", "Sato", "--start", "10:00", "--course", "30"}},
		{"bad status", []string{"add", "Sato", "--start", "10:00", "--status", "maybe"}},
		{"blank customer", []string{"add", " ", "--start", "10:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t)
			if _, err := execute(t, app, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFree(t *testing.T) {
	app, store := newTestApp(t)
	seed(t, store, "Sato", at(9, 0), at(10, 0), booking.StatusConfirmed)
	seed(t, store, "Ito", at(10, 0), at(11, 0), booking.StatusCancelled)
	seed(t, store, "Suzuki", at(12, 0), at(21, 0), booking.StatusProvisional)

	out, err := execute(t, app, "free", "--date", "2025-01-15", "--course", "80")
	if err != nil {
		t.Fatalf("free: %v", err)
	}
	for _, want := range []string{
		"=== Free on Wed 2025-01-15 ===",
		"  10:00-12:00 2h\n",
		"  21:00-22:00 1h\n",
		"  3h free",
		"  Next 80m slot: 10:00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, app, "free", "--course", "30"); err == nil {
		t.Error("expected error for an invalid course")
	}
}

func TestExport(t *testing.T) {
	app, store := newTestApp(t)
	seed(t, store, "Sato", at(10, 0), at(11, 0), booking.StatusConfirmed)
	dir := t.TempDir()

	out, err := execute(t, app, "export", "--date", "2025-01-15", "--dir", dir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	path := filepath.Join(dir, export.FileName(testDay))
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("workbook not written: %v", err)
	}
	if !strings.Contains(out, "Exported 1 bookings to "+path) {
		t.Errorf("output = %q", out)
	}
}

func TestSlotFor(t *testing.T) {
	app, _ := newTestApp(t)
	grid, _, err := app.layout()
	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{"09:00", 0, false},
		{"9:30", 1, false},
		{"14:00", 10, false},
		{"21:30", 25, false},
		{"22:00", 26, false},
		{"22:30", 0, true},
		{"08:30", 0, true},
		{"10:10", 0, true},
		{"later", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := slotFor(grid, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("slotFor(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("slotFor(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}
