// Command almanac materializes lunar calendar years into the SQLite almanac store.
//
// Usage:
//
//	go run ./cmd/almanac -from 1990 -to 2050 -db data/almanac.db
//
// This tool:
// 1. Creates/opens the SQLite database
// 2. Runs migrations to ensure schema is current
// 3. Generates every day of each year in parallel
// 4. Stores all years in a single transaction
//
// Rebuilding a year replaces its rows, so running it twice is safe.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/zapponejosh/lunar-calendar-api/internal/almanac"
	"github.com/zapponejosh/lunar-calendar-api/internal/calendar"
	"github.com/zapponejosh/lunar-calendar-api/internal/database"
	"github.com/zapponejosh/lunar-calendar-api/internal/logger"
)

func main() {
	// Parse command line flags
	now := time.Now().Year()
	from := flag.Int("from", now, "First Gregorian year to generate")
	to := flag.Int("to", now, "Last Gregorian year to generate")
	dbPath := flag.String("db", "data/almanac.db", "Path to SQLite database")
	workers := flag.Int("workers", 0, "Parallel generators (0 = GOMAXPROCS)")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	log := logger.New(os.Stdout, level, "text")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *from, *to, *dbPath, *workers, log); err != nil {
		log.Error("almanac build failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("almanac build complete")
}

func run(ctx context.Context, from, to int, dbPath string, workers int, log *slog.Logger) error {
	startTime := time.Now()

	if from > to {
		return fmt.Errorf("-from %d is after -to %d", from, to)
	}
	if from < calendar.MinYear || to > calendar.MaxYear {
		return fmt.Errorf("years %d-%d not in [%d, %d]: %w",
			from, to, calendar.MinYear, calendar.MaxYear, calendar.ErrOutOfRange)
	}

	// =========================================================================
	// Step 1: Open database and run migrations
	// =========================================================================
	log.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("migrations complete", slog.Int("applied", migrated))

	// =========================================================================
	// Step 2: Generate and store
	// =========================================================================
	years := almanac.YearSpan(from, to)
	log.Info("building almanac", slog.Int("from", from), slog.Int("to", to), slog.Int("years", len(years)))

	results, err := almanac.Build(ctx, db, years, almanac.Options{
		Workers: workers,
		Logger:  log,
	})
	if err != nil {
		return fmt.Errorf("build almanac: %w", err)
	}

	// =========================================================================
	// Step 3: Verify counts
	// =========================================================================
	total := 0
	for _, r := range results {
		stored, err := db.CountDays(ctx, r.Year)
		if err != nil {
			return fmt.Errorf("count days %d: %w", r.Year, err)
		}
		if stored != r.Days {
			return fmt.Errorf("year %d: stored %d days, generated %d", r.Year, stored, r.Days)
		}
		total += r.Days
	}

	stats, err := db.GetAlmanacStats(ctx)
	if err != nil {
		return fmt.Errorf("almanac stats: %w", err)
	}

	elapsed := time.Since(startTime)

	log.Info("almanac verified",
		slog.Int("days_written", total),
		slog.Int("days_stored", stats.TotalDays),
		slog.Int("years_stored", stats.Years),
		slog.Duration("elapsed", elapsed),
	)

	// Print summary
	fmt.Println()
	fmt.Println("=== Almanac Summary ===")
	fmt.Printf("Years generated:  %d (%d-%d)\n", len(results), from, to)
	fmt.Printf("Days written:     %d\n", total)
	fmt.Printf("Store covers:     %s to %s\n", stats.EarliestDate, stats.LatestDate)
	fmt.Printf("Time elapsed:     %v\n", elapsed.Round(time.Millisecond))

	return nil
}
