package calendar

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a year, term index or date falls outside the
// data this package covers.
var ErrOutOfRange = errors.New("out of range")

// IsOutOfRange checks if an error is an out-of-range error.
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}

// checkYear returns ErrOutOfRange for years outside [MinYear, MaxYear].
func checkYear(year int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("year %d not in [%d, %d]: %w", year, MinYear, MaxYear, ErrOutOfRange)
	}
	return nil
}
