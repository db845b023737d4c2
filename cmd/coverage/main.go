// Command coverage checks the stored almanac against live computation for a
// range of years and reports every day that is missing or differs.
//
// Usage:
//
//	go run ./cmd/coverage -db data/almanac.db -start 2024 -years 4 -o report.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/zapponejosh/lunar-calendar-api/internal/almanac"
	"github.com/zapponejosh/lunar-calendar-api/internal/database"
	"github.com/zapponejosh/lunar-calendar-api/internal/logger"
)

const maxShown = 50

// Analysis holds the analyzed results
type Analysis struct {
	TotalDays   int
	TotalStored int
	TotalFailed int
	ByField     map[string]int
	Reports     []almanac.Report
	AllFailures []almanac.Mismatch
}

func main() {
	dbPath := flag.String("db", "data/almanac.db", "Path to SQLite database")
	startYear := flag.Int("start", time.Now().Year(), "Start year")
	years := flag.Int("years", 1, "Number of years to check")
	verbose := flag.Bool("v", false, "Verbose output (show each mismatch)")
	outputFile := flag.String("o", "", "Output results to JSON file")
	flag.Parse()

	endYear := *startYear + *years - 1
	log := logger.New(os.Stderr, "warn", "text")

	fmt.Println("================================================================")
	fmt.Println("Lunar Almanac - Coverage Check")
	fmt.Println("================================================================")
	fmt.Printf("Database:    %s\n", *dbPath)
	fmt.Printf("Year Range:  %d to %d\n", *startYear, endYear)
	fmt.Println()

	analysis, err := check(context.Background(), *dbPath, *startYear, endYear, *verbose, log)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	printSummary(analysis)
	printFailuresByField(analysis)
	printAllFailures(analysis)

	if *outputFile != "" {
		saveResults(*outputFile, analysis)
	}

	// Exit with error code if there were failures
	if analysis.TotalFailed > 0 {
		os.Exit(1)
	}
}

func check(ctx context.Context, dbPath string, startYear, endYear int, verbose bool, log *slog.Logger) (*Analysis, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("open %s: %w", dbPath, err)
	}

	db, err := database.Open(database.DefaultConfig(dbPath), log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	analysis := &Analysis{ByField: make(map[string]int)}

	for year := startYear; year <= endYear; year++ {
		report, err := almanac.Verify(ctx, db, year)
		if err != nil {
			return nil, fmt.Errorf("verify %d: %w", year, err)
		}

		analysis.add(report)

		if verbose {
			for _, m := range report.Mismatches {
				fmt.Printf("  ✗ %s\n", m)
			}
		}
	}

	return analysis, nil
}

func (a *Analysis) add(report almanac.Report) {
	a.Reports = append(a.Reports, report)
	a.TotalDays += report.Expected
	a.TotalStored += report.Stored
	a.TotalFailed += len(report.Mismatches)

	for _, m := range report.Mismatches {
		field := m.Field
		if m.Missing {
			field = "(missing)"
		}
		a.ByField[field]++
		a.AllFailures = append(a.AllFailures, m)
	}
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func printSummary(analysis *Analysis) {
	fmt.Println("================================================================")
	fmt.Println("SUMMARY")
	fmt.Println("================================================================")
	fmt.Printf("Days Expected:     %d\n", analysis.TotalDays)
	fmt.Printf("Days Stored:       %d\n", analysis.TotalStored)
	fmt.Printf("Mismatched:        %d (%.1f%%)\n", analysis.TotalFailed,
		percent(analysis.TotalFailed, analysis.TotalDays))
	fmt.Println()

	fmt.Println("By Year:")
	for _, r := range analysis.Reports {
		status := "✓"
		if !r.OK() {
			status = "✗"
		}
		good := r.Expected - len(r.Mismatches)
		fmt.Printf("  %s %d: %d/%d days (%.1f%% match)\n",
			status, r.Year, good, r.Expected, percent(good, r.Expected))
	}
	fmt.Println()
}

func printFailuresByField(analysis *Analysis) {
	if analysis.TotalFailed == 0 {
		fmt.Println("No mismatches.")
		return
	}

	fmt.Println("================================================================")
	fmt.Println("MISMATCHES BY FIELD")
	fmt.Println("================================================================")

	fields := make([]string, 0, len(analysis.ByField))
	for f := range analysis.ByField {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool {
		return analysis.ByField[fields[i]] > analysis.ByField[fields[j]]
	})

	for _, f := range fields {
		fmt.Printf("  %-16s %d\n", f, analysis.ByField[f])
	}
	fmt.Println()
}

func printAllFailures(analysis *Analysis) {
	if analysis.TotalFailed == 0 {
		return
	}

	if analysis.TotalFailed > maxShown {
		fmt.Printf("(Showing first %d of %d mismatches)\n\n", maxShown, analysis.TotalFailed)
	}

	fmt.Println("================================================================")
	fmt.Println("ALL MISMATCHES")
	fmt.Println("================================================================")

	for i, m := range analysis.AllFailures {
		if i >= maxShown {
			break
		}
		fmt.Printf("  %s\n", m)
	}
	fmt.Println()
}

func saveResults(filename string, analysis *Analysis) {
	output := struct {
		GeneratedAt string             `json:"generated_at"`
		Summary     map[string]any     `json:"summary"`
		ByField     map[string]int     `json:"by_field"`
		Failures    []almanac.Mismatch `json:"failures"`
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Summary: map[string]any{
			"total_days":   analysis.TotalDays,
			"total_stored": analysis.TotalStored,
			"total_failed": analysis.TotalFailed,
			"match_rate":   fmt.Sprintf("%.2f%%", 100-percent(analysis.TotalFailed, analysis.TotalDays)),
		},
		ByField:  analysis.ByField,
		Failures: analysis.AllFailures,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling results: %v\n", err)
		return
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		fmt.Printf("Error writing file: %v\n", err)
		return
	}

	fmt.Printf("Results saved to: %s\n", filename)
}
