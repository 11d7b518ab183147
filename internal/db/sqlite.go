// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/stretchlp/stretchboard/internal/booking"
	"github.com/stretchlp/stretchboard/internal/dateutil"
)

// SQLite implements booking.Store using SQLite.
// Times are stored as naive local "YYYY-MM-DDTHH:MM:SS" text, which sorts
// chronologically.
type SQLite struct {
	db *sql.DB
}

var _ booking.Store = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

const bookingColumns = `id, title, start_at, end_at, course_minutes, status,
	customer_name, customer_email, customer_phone, message`

// CreateBooking inserts b and sets its ID.
func (s *SQLite) CreateBooking(ctx context.Context, b *booking.Booking) error {
	if b.Status == "" {
		b.Status = booking.StatusProvisional
	}
	if err := validateForStore(*b); err != nil {
		return err
	}

	query := `
		INSERT INTO bookings (
			title, start_at, end_at, course_minutes, status,
			customer_name, customer_email, customer_phone, message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		b.Title,
		booking.FormatLocal(b.Start),
		booking.FormatLocal(b.End),
		b.CourseMinutes,
		string(b.Status),
		b.CustomerName,
		b.CustomerEmail,
		b.CustomerPhone,
		b.Message,
	)
	if err != nil {
		return fmt.Errorf("inserting booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	b.ID = booking.FormatID(id)

	return nil
}

// validateForStore checks everything but the id, which the store assigns.
func validateForStore(b booking.Booking) error {
	if b.Title == "" {
		return errors.New("booking title is required")
	}
	if !b.End.After(b.Start) {
		return booking.ErrEndBeforeStart
	}
	if b.Status != "" && !b.Status.Valid() {
		return fmt.Errorf("%w: %q", booking.ErrInvalidStatus, b.Status)
	}
	if b.CourseMinutes != 0 && !booking.ValidCourse(b.CourseMinutes) {
		return fmt.Errorf("%w: %d", booking.ErrInvalidCourse, b.CourseMinutes)
	}
	return nil
}

// GetBooking retrieves a booking by its board id ("b42").
func (s *SQLite) GetBooking(ctx context.Context, id string) (*booking.Booking, error) {
	n, err := booking.ParseID(id)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(s.db.QueryRowContext(ctx, query, n))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", booking.ErrBookingNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying booking: %w", err)
	}
	return b, nil
}

// ListBookings returns the bookings that start on day, ordered by start.
func (s *SQLite) ListBookings(ctx context.Context, day time.Time) ([]booking.Booking, error) {
	from := dateutil.TruncateToDay(day)
	return s.ListBookingsRange(ctx, from, dateutil.AddDays(from, 1))
}

// ListBookingsRange returns the bookings starting in [from, to).
func (s *SQLite) ListBookingsRange(ctx context.Context, from, to time.Time) ([]booking.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE start_at >= ? AND start_at < ?
		ORDER BY start_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, booking.FormatLocal(from), booking.FormatLocal(to))
	if err != nil {
		return nil, fmt.Errorf("querying bookings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}
		out = append(out, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bookings: %w", err)
	}

	return out, nil
}

// UpdateBooking applies p to the booking with id.
func (s *SQLite) UpdateBooking(ctx context.Context, id string, p booking.Patch) error {
	n, err := booking.ParseID(id)
	if err != nil {
		return err
	}
	if !p.End.After(p.Start) {
		return booking.ErrEndBeforeStart
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: %q", booking.ErrInvalidStatus, *p.Status)
	}
	if p.CourseMinutes != nil && *p.CourseMinutes != 0 && !booking.ValidCourse(*p.CourseMinutes) {
		return fmt.Errorf("%w: %d", booking.ErrInvalidCourse, *p.CourseMinutes)
	}

	// COALESCE keeps the stored value for fields the patch leaves nil.
	query := `
		UPDATE bookings
		SET start_at = ?, end_at = ?,
		    course_minutes = COALESCE(?, course_minutes),
		    status = COALESCE(?, status)
		WHERE id = ?
	`

	var course, status any
	if p.CourseMinutes != nil {
		course = *p.CourseMinutes
	}
	if p.Status != nil {
		status = string(*p.Status)
	}

	result, err := s.db.ExecContext(ctx, query,
		booking.FormatLocal(p.Start),
		booking.FormatLocal(p.End),
		course,
		status,
		n,
	)
	if err != nil {
		return fmt.Errorf("updating booking: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", booking.ErrBookingNotFound, id)
	}

	return nil
}

// DeleteBooking removes a booking.
func (s *SQLite) DeleteBooking(ctx context.Context, id string) error {
	n, err := booking.ParseID(id)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, n)
	if err != nil {
		return fmt.Errorf("deleting booking: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", booking.ErrBookingNotFound, id)
	}

	return nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(row scanner) (*booking.Booking, error) {
	var (
		b      booking.Booking
		id     int64
		start  string
		end    string
		status string
	)

	err := row.Scan(
		&id,
		&b.Title,
		&start,
		&end,
		&b.CourseMinutes,
		&status,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.Message,
	)
	if err != nil {
		return nil, err
	}

	b.ID = booking.FormatID(id)
	b.Status = booking.Status(status)

	b.Start, err = booking.ParseLocal(start)
	if err != nil {
		return nil, fmt.Errorf("parsing start: %w", err)
	}
	b.End, err = booking.ParseLocal(end)
	if err != nil {
		return nil, fmt.Errorf("parsing end: %w", err)
	}

	return &b, nil
}
