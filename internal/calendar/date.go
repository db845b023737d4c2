package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the ISO 8601 date format used by the API and the almanac store.
const DateLayout = "2006-01-02"

// Epoch is the first day of lunar year 1900 (正月初一).
var Epoch = time.Date(1900, time.January, 31, 0, 0, 0, 0, time.UTC)

// dateOf builds a UTC midnight time for a calendar date.
func dateOf(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// validDate builds the date and fails if time.Date had to normalize it
// (for example February 30).
func validDate(year, month, day int) (time.Time, error) {
	t := dateOf(year, month, day)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("date %04d-%02d-%02d is not a calendar date: %w", year, month, day, ErrOutOfRange)
	}
	return t, nil
}

// daysBetween returns the whole days from a to b.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// ParseDateString parses a date string in YYYY-MM-DD format
func ParseDateString(dateStr string) (time.Time, error) {
	return time.Parse(DateLayout, dateStr)
}

// FormatDate formats a date as YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// Today returns the current date at UTC midnight in the given location.
func Today(loc *time.Location) time.Time {
	now := time.Now().In(loc)
	return dateOf(now.Year(), int(now.Month()), now.Day())
}
