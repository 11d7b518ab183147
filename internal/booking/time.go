package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LocalLayout is the wire format for naive local datetimes.
const LocalLayout = "2006-01-02T15:04:05"

var localLayouts = []string{
	LocalLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseLocal parses a naive wall-clock datetime into time.Local.
// Values carrying an offset keep their wall clock and drop the offset.
func ParseLocal(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}

// FormatLocal formats t as a naive wall-clock datetime.
func FormatLocal(t time.Time) string {
	return t.Format(LocalLayout)
}

// ParseID extracts the numeric backend id from an opaque id like "b42".
func ParseID(id string) (int64, error) {
	if id == "" {
		return 0, ErrEmptyID
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(id, "b"), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return n, nil
}

// FormatID builds the opaque board id for a backend id.
func FormatID(n int64) string {
	return "b" + strconv.FormatInt(n, 10)
}
