package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// querier is the query surface shared by DB and Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a SQLite TEXT timestamp, returning the zero time when
// no known layout matches.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// nullString stores an empty string as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// yearBounds returns the first and last ISO date of a Gregorian year.
func yearBounds(year int) (string, string) {
	return fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year)
}

const almanacColumns = `
	date,
	lunar_year, lunar_month, lunar_day, is_leap_month,
	month_name, day_name, year_name, zodiac,
	solar_term, festival, week_number
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlmanacDay(row rowScanner) (AlmanacDay, error) {
	var day AlmanacDay
	var term, festival sql.NullString

	err := row.Scan(
		&day.Date,
		&day.LunarYear,
		&day.LunarMonth,
		&day.LunarDay,
		&day.IsLeapMonth,
		&day.MonthName,
		&day.DayName,
		&day.YearName,
		&day.Zodiac,
		&term,
		&festival,
		&day.WeekNumber,
	)
	if err != nil {
		return AlmanacDay{}, err
	}

	day.SolarTerm = term.String
	day.Festival = festival.String
	return day, nil
}

// =============================================================================
// Almanac Day Queries
// =============================================================================

// GetAlmanacDay returns the stored day for an ISO date, or ErrNotFound.
func (db *DB) GetAlmanacDay(ctx context.Context, date string) (*AlmanacDay, error) {
	query := `SELECT ` + almanacColumns + ` FROM almanac_days WHERE date = ?`

	day, err := scanAlmanacDay(db.QueryRowContext(ctx, query, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query almanac day: %w", err)
	}

	return &day, nil
}

// GetAlmanacRange returns stored days between two ISO dates, inclusive, in
// date order. Days never generated are simply absent.
func (db *DB) GetAlmanacRange(ctx context.Context, startDate, endDate string) ([]AlmanacDay, error) {
	query := `SELECT ` + almanacColumns + `
		FROM almanac_days
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := db.QueryContext(ctx, query, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("query almanac range: %w", err)
	}
	defer rows.Close()

	var days []AlmanacDay
	for rows.Next() {
		day, err := scanAlmanacDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan almanac row: %w", err)
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate almanac rows: %w", err)
	}

	return days, nil
}

// UpsertAlmanacDay inserts or replaces the row for day.Date.
func (db *DB) UpsertAlmanacDay(ctx context.Context, day *AlmanacDay) error {
	return upsertAlmanacDay(ctx, db, day)
}

// UpsertAlmanacDay inserts or replaces the row for day.Date within the transaction.
func (tx *Tx) UpsertAlmanacDay(ctx context.Context, day *AlmanacDay) error {
	return upsertAlmanacDay(ctx, tx, day)
}

func upsertAlmanacDay(ctx context.Context, q querier, day *AlmanacDay) error {
	query := `
		INSERT INTO almanac_days (` + almanacColumns + `, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(date) DO UPDATE SET
			lunar_year = excluded.lunar_year,
			lunar_month = excluded.lunar_month,
			lunar_day = excluded.lunar_day,
			is_leap_month = excluded.is_leap_month,
			month_name = excluded.month_name,
			day_name = excluded.day_name,
			year_name = excluded.year_name,
			zodiac = excluded.zodiac,
			solar_term = excluded.solar_term,
			festival = excluded.festival,
			week_number = excluded.week_number,
			updated_at = datetime('now')
	`

	_, err := q.ExecContext(ctx, query,
		day.Date,
		day.LunarYear,
		day.LunarMonth,
		day.LunarDay,
		day.IsLeapMonth,
		day.MonthName,
		day.DayName,
		day.YearName,
		day.Zodiac,
		nullString(day.SolarTerm),
		nullString(day.Festival),
		day.WeekNumber,
	)
	if err != nil {
		return fmt.Errorf("upsert almanac day %s: %w", day.Date, err)
	}

	return nil
}

// CountDays returns how many days of a Gregorian year are stored.
func (db *DB) CountDays(ctx context.Context, year int) (int, error) {
	start, end := yearBounds(year)

	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM almanac_days WHERE date >= ? AND date <= ?`,
		start, end,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count almanac days: %w", err)
	}

	return n, nil
}

// GetAlmanacStats reports the size and date span of the stored almanac.
func (db *DB) GetAlmanacStats(ctx context.Context) (*AlmanacStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM almanac_days),
			(SELECT COALESCE(MIN(date), '') FROM almanac_days),
			(SELECT COALESCE(MAX(date), '') FROM almanac_days),
			(SELECT COUNT(*) FROM almanac_years)
	`

	var stats AlmanacStats
	err := db.QueryRowContext(ctx, query).Scan(
		&stats.TotalDays,
		&stats.EarliestDate,
		&stats.LatestDate,
		&stats.Years,
	)
	if err != nil {
		return nil, fmt.Errorf("query almanac stats: %w", err)
	}

	return &stats, nil
}

// =============================================================================
// Almanac Year Queries
// =============================================================================

// RecordYear marks a Gregorian year as generated with the given day count.
func (db *DB) RecordYear(ctx context.Context, year, days int) error {
	return recordYear(ctx, db, year, days)
}

// RecordYear marks a Gregorian year as generated within the transaction.
func (tx *Tx) RecordYear(ctx context.Context, year, days int) error {
	return recordYear(ctx, tx, year, days)
}

func recordYear(ctx context.Context, q querier, year, days int) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO almanac_years (year, days, generated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(year) DO UPDATE SET
			days = excluded.days,
			generated_at = datetime('now')
	`, year, days)
	if err != nil {
		return fmt.Errorf("record almanac year %d: %w", year, err)
	}
	return nil
}

// ListYears returns the generated years in ascending order.
func (db *DB) ListYears(ctx context.Context) ([]AlmanacYear, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT year, days, generated_at FROM almanac_years ORDER BY year ASC`)
	if err != nil {
		return nil, fmt.Errorf("query almanac years: %w", err)
	}
	defer rows.Close()

	var years []AlmanacYear
	for rows.Next() {
		var y AlmanacYear
		var generatedAt string
		if err := rows.Scan(&y.Year, &y.Days, &generatedAt); err != nil {
			return nil, fmt.Errorf("scan almanac year: %w", err)
		}
		y.GeneratedAt = parseTimestamp(generatedAt)
		years = append(years, y)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate almanac years: %w", err)
	}

	return years, nil
}

// DeleteYear removes a year's days and its record in one transaction. It
// returns the number of days removed, or ErrNotFound when the year was never
// stored.
func (db *DB) DeleteYear(ctx context.Context, year int) (int64, error) {
	var days int64
	err := db.WithTx(ctx, func(tx *Tx) error {
		var err error
		days, err = tx.DeleteYear(ctx, year)
		return err
	})
	if err != nil {
		return 0, err
	}
	return days, nil
}

// DeleteYear removes a year's days and its record within the transaction.
func (tx *Tx) DeleteYear(ctx context.Context, year int) (int64, error) {
	return deleteYear(ctx, tx, year)
}

func deleteYear(ctx context.Context, q querier, year int) (int64, error) {
	start, end := yearBounds(year)

	result, err := q.ExecContext(ctx,
		`DELETE FROM almanac_days WHERE date >= ? AND date <= ?`, start, end)
	if err != nil {
		return 0, fmt.Errorf("delete almanac days: %w", err)
	}
	days, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check rows affected: %w", err)
	}

	result, err = q.ExecContext(ctx, `DELETE FROM almanac_years WHERE year = ?`, year)
	if err != nil {
		return 0, fmt.Errorf("delete almanac year: %w", err)
	}
	records, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check rows affected: %w", err)
	}

	if days == 0 && records == 0 {
		return 0, ErrNotFound
	}

	return days, nil
}
