// Package almanac materializes lunar calendar data for whole Gregorian years
// and writes it to the almanac store.
package almanac

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zapponejosh/lunar-calendar-api/internal/calendar"
	"github.com/zapponejosh/lunar-calendar-api/internal/database"
)

// Store is the write side of the almanac database.
type Store interface {
	WithTx(ctx context.Context, fn func(*database.Tx) error) error
}

// Reader is the read side used when verifying stored years.
type Reader interface {
	GetAlmanacRange(ctx context.Context, startDate, endDate string) ([]database.AlmanacDay, error)
}

// Day computes the almanac row for one Gregorian date.
func Day(t time.Time) (database.AlmanacDay, error) {
	lunar, err := calendar.ToLunarTime(t)
	if err != nil {
		return database.AlmanacDay{}, fmt.Errorf("almanac day: %w", err)
	}

	year, month, day := t.Year(), int(t.Month()), t.Day()
	term, _, err := calendar.TermOf(year, month, day)
	if err != nil {
		return database.AlmanacDay{}, fmt.Errorf("almanac day: %w", err)
	}

	return database.AlmanacDay{
		Date:        calendar.FormatDate(t),
		LunarYear:   lunar.Year,
		LunarMonth:  lunar.Month,
		LunarDay:    lunar.Day,
		IsLeapMonth: lunar.IsLeapMonth,
		MonthName:   lunar.MonthName,
		DayName:     lunar.DayName,
		YearName:    lunar.YearName,
		Zodiac:      lunar.Zodiac,
		SolarTerm:   term,
		Festival:    lunar.Festival,
		WeekNumber:  calendar.WeekNumber(year, month, day),
	}, nil
}

// Generate computes every day of a Gregorian year. In 1900 the days before
// the lunar epoch are skipped.
func Generate(year int) ([]database.AlmanacDay, error) {
	if year < calendar.MinYear || year > calendar.MaxYear {
		return nil, fmt.Errorf("generate %d: year not in [%d, %d]: %w",
			year, calendar.MinYear, calendar.MaxYear, calendar.ErrOutOfRange)
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	if start.Before(calendar.Epoch) {
		start = calendar.Epoch
	}

	days := make([]database.AlmanacDay, 0, 366)
	for d := start; d.Year() == year; d = d.AddDate(0, 0, 1) {
		row, err := Day(d)
		if err != nil {
			return nil, fmt.Errorf("generate %d: %w", year, err)
		}
		days = append(days, row)
	}

	return days, nil
}

// Result reports one generated year.
type Result struct {
	Year int `json:"year"`
	Days int `json:"days"`
}

// Options tunes Build.
type Options struct {
	// Workers bounds concurrent generation. Zero means GOMAXPROCS.
	Workers int
	Logger  *slog.Logger
}

// Build generates the given years concurrently and stores them in a single
// transaction, so a failure leaves the store unchanged.
func Build(ctx context.Context, store Store, years []int, opts Options) ([]Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	generated := make([][]database.AlmanacDay, len(years))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, year := range years {
		i, year := i, year
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			days, err := Generate(year)
			if err != nil {
				return err
			}
			generated[i] = days
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build almanac: %w", err)
	}

	results := make([]Result, 0, len(years))
	err := store.WithTx(ctx, func(tx *database.Tx) error {
		for i, year := range years {
			for j := range generated[i] {
				if err := tx.UpsertAlmanacDay(ctx, &generated[i][j]); err != nil {
					return err
				}
			}
			if err := tx.RecordYear(ctx, year, len(generated[i])); err != nil {
				return err
			}
			results = append(results, Result{Year: year, Days: len(generated[i])})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("build almanac: %w", err)
	}

	for _, r := range results {
		logger.Info("almanac year stored",
			slog.Int("year", r.Year),
			slog.Int("days", r.Days),
		)
	}

	return results, nil
}

// YearSpan expands an inclusive range of years.
func YearSpan(from, to int) []int {
	if to < from {
		return nil
	}
	years := make([]int, 0, to-from+1)
	for y := from; y <= to; y++ {
		years = append(years, y)
	}
	return years
}
