package almanac

import (
	"context"
	"fmt"

	"github.com/zapponejosh/lunar-calendar-api/internal/database"
)

// Mismatch is a stored day that differs from the live computation.
type Mismatch struct {
	Date    string `json:"date"`
	Missing bool   `json:"missing,omitempty"` // no stored row
	Field   string `json:"field,omitempty"`
	Stored  string `json:"stored,omitempty"`
	Want    string `json:"want,omitempty"`
}

func (m Mismatch) String() string {
	if m.Missing {
		return m.Date + ": missing"
	}
	return fmt.Sprintf("%s: %s stored %q, want %q", m.Date, m.Field, m.Stored, m.Want)
}

// Report summarizes the verification of one year.
type Report struct {
	Year       int        `json:"year"`
	Expected   int        `json:"expected"`
	Stored     int        `json:"stored"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// OK reports whether the stored year matches the computation exactly.
func (r Report) OK() bool {
	return len(r.Mismatches) == 0 && r.Stored == r.Expected
}

// Verify compares the stored rows of a year against freshly computed ones.
// Only the first differing field of a day is reported.
func Verify(ctx context.Context, reader Reader, year int) (Report, error) {
	want, err := Generate(year)
	if err != nil {
		return Report{}, fmt.Errorf("verify %d: %w", year, err)
	}

	start, end := fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year)
	stored, err := reader.GetAlmanacRange(ctx, start, end)
	if err != nil {
		return Report{}, fmt.Errorf("verify %d: %w", year, err)
	}

	byDate := make(map[string]int, len(stored))
	for i, d := range stored {
		byDate[d.Date] = i
	}

	report := Report{Year: year, Expected: len(want), Stored: len(stored)}
	for _, w := range want {
		i, ok := byDate[w.Date]
		if !ok {
			report.Mismatches = append(report.Mismatches, Mismatch{Date: w.Date, Missing: true})
			continue
		}
		if m, differs := compareDay(w.Date, stored[i], w); differs {
			report.Mismatches = append(report.Mismatches, m)
		}
	}

	return report, nil
}

func compareDay(date string, got, want database.AlmanacDay) (Mismatch, bool) {
	fields := []struct {
		name      string
		got, want any
	}{
		{"lunar_year", got.LunarYear, want.LunarYear},
		{"lunar_month", got.LunarMonth, want.LunarMonth},
		{"lunar_day", got.LunarDay, want.LunarDay},
		{"is_leap_month", got.IsLeapMonth, want.IsLeapMonth},
		{"month_name", got.MonthName, want.MonthName},
		{"day_name", got.DayName, want.DayName},
		{"year_name", got.YearName, want.YearName},
		{"zodiac", got.Zodiac, want.Zodiac},
		{"solar_term", got.SolarTerm, want.SolarTerm},
		{"festival", got.Festival, want.Festival},
		{"week_number", got.WeekNumber, want.WeekNumber},
	}

	for _, f := range fields {
		if f.got != f.want {
			return Mismatch{
				Date:   date,
				Field:  f.name,
				Stored: fmt.Sprint(f.got),
				Want:   fmt.Sprint(f.want),
			}, true
		}
	}
	return Mismatch{}, false
}
