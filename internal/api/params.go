package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/lunar-calendar-api/internal/calendar"
)

// inputError is a malformed request parameter.
type inputError struct {
	msg string
}

func (e *inputError) Error() string { return e.msg }

func badInput(format string, args ...any) error {
	return &inputError{msg: fmt.Sprintf(format, args...)}
}

// dateParam parses a YYYY-MM-DD path parameter.
func dateParam(r *http.Request, name string) (time.Time, error) {
	return parseDate(name, chi.URLParam(r, name))
}

func parseDate(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, badInput("%s is required", name)
	}
	date, err := calendar.ParseDateString(value)
	if err != nil {
		return time.Time{}, badInput("invalid %s %q, use YYYY-MM-DD", name, value)
	}
	return date, nil
}

// intValue parses a required integer from a path or query value.
func intValue(name, value string) (int, error) {
	if value == "" {
		return 0, badInput("%s is required", name)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, badInput("invalid %s %q", name, value)
	}
	return n, nil
}

// yearParam parses a {year} path parameter and checks it against the table.
func yearParam(r *http.Request) (int, error) {
	year, err := intValue("year", chi.URLParam(r, "year"))
	if err != nil {
		return 0, err
	}
	if year < calendar.MinYear || year > calendar.MaxYear {
		return 0, fmt.Errorf("year %d not in [%d, %d]: %w",
			year, calendar.MinYear, calendar.MaxYear, calendar.ErrOutOfRange)
	}
	return year, nil
}

// boolQuery parses an optional boolean query parameter.
func boolQuery(r *http.Request, name string, fallback bool) (bool, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, badInput("invalid %s %q", name, value)
	}
	return b, nil
}

// locationQuery resolves the optional ?tz= parameter, defaulting to UTC.
func locationQuery(r *http.Request) (*time.Location, error) {
	name := r.URL.Query().Get("tz")
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, badInput("unknown time zone %q", name)
	}
	return loc, nil
}
