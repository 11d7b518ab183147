package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS bookings (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			title           TEXT NOT NULL,
			start_at        TEXT NOT NULL,
			end_at          TEXT NOT NULL,
			course_minutes  INTEGER NOT NULL DEFAULT 0,
			status          TEXT NOT NULL DEFAULT 'PROVISIONAL'
			                CHECK(status IN ('', 'PROVISIONAL', 'CONFIRMED', 'COMPLETED', 'CANCELLED')),
			customer_name   TEXT NOT NULL DEFAULT '',
			customer_email  TEXT NOT NULL DEFAULT '',
			customer_phone  TEXT NOT NULL DEFAULT '',
			message         TEXT NOT NULL DEFAULT '',
			created_at      DATETIME DEFAULT CURRENT_TIMESTAMP,
			CHECK(start_at < end_at)
		);

		CREATE INDEX IF NOT EXISTS idx_bookings_start ON bookings(start_at);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating bookings table: %w", err)
	}

	return nil
}
