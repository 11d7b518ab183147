// Package dateutil provides date parsing and day arithmetic for the board.
package dateutil

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDateFormat is returned for unrecognized date input.
var ErrInvalidDateFormat = errors.New("date must be YYYY-MM-DD, today, yesterday, tomorrow, a weekday or +N/-N")

// DateLayout is the calendar date format used in URLs, flags and storage.
const DateLayout = "2006-01-02"

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseDate parses a date string in YYYY-MM-DD format in local time.
// If the string is empty, returns today's date.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return TruncateToDay(time.Now()), nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// AddDays moves a day forward or backward by n calendar days.
func AddDays(day time.Time, n int) time.Time {
	return TruncateToDay(day).AddDate(0, 0, n)
}

// ParseRelativeDate parses a date string that can be:
//   - Empty or "today"
//   - "yesterday" or "tomorrow"
//   - "+N" / "-N": N days from relativeTo
//   - Weekday names: "monday" through "sunday" (next occurrence, always future)
//   - Absolute date: YYYY-MM-DD (past dates allowed, the board browses history)
//
// All inputs are case-insensitive.
func ParseRelativeDate(s string, relativeTo time.Time) (time.Time, error) {
	today := TruncateToDay(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}

	if strings.HasPrefix(input, "+") || strings.HasPrefix(input, "-") {
		n, err := strconv.Atoi(input)
		if err != nil {
			return time.Time{}, ErrInvalidDateFormat
		}
		return today.AddDate(0, 0, n), nil
	}

	if targetDay, ok := weekdayMap[input]; ok {
		return nextWeekday(today, targetDay), nil
	}

	result, err := time.ParseInLocation(DateLayout, input, relativeTo.Location())
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return result, nil
}

// nextWeekday returns the next occurrence of the given weekday after today.
// If today is the target weekday, returns one week from today.
func nextWeekday(today time.Time, target time.Weekday) time.Time {
	current := today.Weekday()
	daysUntil := int(target) - int(current)
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil)
}
