// Command apitest runs smoke tests against a running lunar calendar API.
//
// Usage:
//
//	go run ./cmd/apitest -url http://localhost:8080 -v
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/zapponejosh/lunar-calendar-api/internal/api"
	"github.com/zapponejosh/lunar-calendar-api/internal/ics"
)

// =============================================================================
// Response Types
// =============================================================================

// APIResponse keeps the payload raw so each test decodes its own type.
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *api.ErrorInfo  `json:"error,omitempty"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status string `json:"status"`
}

// TermsResponse is the response for /terms/{year}
type TermsResponse struct {
	Year  int                `json:"year"`
	Lang  string             `json:"lang"`
	Terms []api.TermResponse `json:"terms"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Lunar Calendar API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	tr.testHealth()
	tr.testToday()
	tr.testKnownDates()
	tr.testSolar()
	tr.testDateRange()
	tr.testTerms()
	tr.testGrid()
	tr.testEdgeCases()

	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health HealthResponse
	if err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess("Health check passed")
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testToday() {
	tr.printSection("Today")

	var data api.DayResponse
	if err := tr.getData("/api/v1/lunar/today", &data); err != nil {
		tr.recordError("Today (UTC)", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("Today (%s): %s", data.Date, data.Lunar))

	if err := tr.getData("/api/v1/lunar/today?tz=Asia/Shanghai", &data); err != nil {
		tr.recordError("Today (Asia/Shanghai)", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("Today in Asia/Shanghai (%s): %s", data.Date, data.Lunar))
}

func (tr *TestRunner) testKnownDates() {
	tr.printSection("Known Dates")

	testCases := []struct {
		date        string
		lunar       string
		festival    string
		term        string
		description string
	}{
		{"1900-01-31", "庚子年正月初一", "春节", "", "First day of the table"},
		{"2000-02-05", "庚辰年正月初一", "春节", "", "Spring Festival 2000"},
		{"2023-03-22", "癸卯年闰二月初一", "", "", "Leap month 2023"},
		{"2024-02-04", "癸卯年腊月廿五", "", "立春", "Start of Spring 2024"},
		{"2024-02-09", "癸卯年腊月三十", "除夕", "", "New Year's Eve"},
		{"2024-02-10", "甲辰年正月初一", "春节", "", "Spring Festival 2024"},
		{"2024-09-17", "甲辰年八月十五", "中秋节", "", "Mid-Autumn 2024"},
		{"2100-12-31", "", "", "", "Last day of the table"},
	}

	for _, tc := range testCases {
		var data api.DayResponse
		if err := tr.getData("/api/v1/lunar/date/"+tc.date, &data); err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		got := data.Lunar.String()
		switch {
		case tc.lunar != "" && got != tc.lunar:
			tr.recordError(tc.date, fmt.Sprintf("Expected %s, got %s", tc.lunar, got))
		case data.Lunar.Festival != tc.festival:
			tr.recordError(tc.date, fmt.Sprintf("Expected festival '%s', got '%s'", tc.festival, data.Lunar.Festival))
		case data.SolarTerm != tc.term:
			tr.recordError(tc.date, fmt.Sprintf("Expected term '%s', got '%s'", tc.term, data.SolarTerm))
		default:
			tr.recordSuccess(fmt.Sprintf("%s: %s (%s)", tc.date, got, tc.description))
		}

		if tr.verbose {
			tr.printDayDetail(data)
		}
	}
}

func (tr *TestRunner) testSolar() {
	tr.printSection("Lunar to Gregorian")

	testCases := []struct {
		query string
		want  string
	}{
		{"year=2024&month=1&day=1", "2024-02-10"},
		{"year=2023&month=2&day=1&leap=true", "2023-03-22"},
		{"year=2024&month=8&day=15", "2024-09-17"},
	}

	for _, tc := range testCases {
		var data api.SolarResponse
		if err := tr.getData("/api/v1/solar?"+tc.query, &data); err != nil {
			tr.recordError(tc.query, err.Error())
			continue
		}
		if data.Date == tc.want {
			tr.recordSuccess(fmt.Sprintf("%s -> %s", tc.query, data.Date))
		} else {
			tr.recordError(tc.query, fmt.Sprintf("Expected %s, got %s", tc.want, data.Date))
		}
	}

	tr.expectStatus("Missing leap month rejected", "/api/v1/solar?year=2024&month=2&day=1&leap=true", http.StatusBadRequest)
}

func (tr *TestRunner) testDateRange() {
	tr.printSection("Date Range Tests")

	var rangeData api.RangeResponse
	if err := tr.getData("/api/v1/lunar/range?start=2024-02-04&end=2024-02-10", &rangeData); err != nil {
		tr.recordError("Range (week)", err.Error())
		return
	}

	if len(rangeData.Days) == 7 {
		tr.recordSuccess(fmt.Sprintf("Week range returned %d days (%d stored, %d computed)",
			len(rangeData.Days), rangeData.Stored, rangeData.Computed))
	} else {
		tr.recordError("Range (week)", fmt.Sprintf("Expected 7 days, got %d", len(rangeData.Days)))
	}

	tr.expectStatus("Range limit enforced", "/api/v1/lunar/range?start=2024-01-01&end=2024-12-31", http.StatusBadRequest)
	tr.expectStatus("Invalid range rejected (end before start)", "/api/v1/lunar/range?start=2024-12-31&end=2024-01-01", http.StatusBadRequest)
}

func (tr *TestRunner) testTerms() {
	tr.printSection("Solar Terms")

	var terms TermsResponse
	if err := tr.getData("/api/v1/terms/2024?lang=en", &terms); err != nil {
		tr.recordError("Terms 2024", err.Error())
		return
	}
	if len(terms.Terms) == 24 {
		tr.recordSuccess(fmt.Sprintf("2024 has 24 terms, first %s on %s", terms.Terms[0].Name, terms.Terms[0].Date))
	} else {
		tr.recordError("Terms 2024", fmt.Sprintf("Expected 24 terms, got %d", len(terms.Terms)))
	}

	resp, err := tr.getRaw("/api/v1/terms/2024/ics")
	if err != nil {
		tr.recordError("ICS feed", err.Error())
		return
	}
	resp.Body.Close()

	etag := resp.Header.Get("ETag")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != ics.MimeType || etag == "" {
		tr.recordError("ICS feed", fmt.Sprintf("HTTP %d, Content-Type %q, ETag %q",
			resp.StatusCode, resp.Header.Get("Content-Type"), etag))
		return
	}
	tr.recordSuccess("ICS feed served with ETag " + etag)

	req, _ := http.NewRequest("GET", tr.baseURL+"/api/v1/terms/2024/ics", nil)
	req.Header.Set("If-None-Match", etag)
	cached, err := tr.client.Do(req)
	if err != nil {
		tr.recordError("ICS conditional GET", err.Error())
		return
	}
	cached.Body.Close()

	if cached.StatusCode == http.StatusNotModified {
		tr.recordSuccess("ICS conditional GET returns 304")
	} else {
		tr.recordError("ICS conditional GET", fmt.Sprintf("HTTP %d", cached.StatusCode))
	}
}

func (tr *TestRunner) testGrid() {
	tr.printSection("Month Grid")

	var grid api.GridResponse
	if err := tr.getData("/api/v1/grid/2024/2", &grid); err != nil {
		tr.recordError("Grid 2024-02", err.Error())
		return
	}

	if len(grid.Cells) == 42 && grid.FirstWeekday == 4 && grid.DaysInMonth == 29 {
		tr.recordSuccess(fmt.Sprintf("%s: 42 cells, starts on weekday %d", grid.Title, grid.FirstWeekday))
	} else {
		tr.recordError("Grid 2024-02", fmt.Sprintf("cells=%d first=%d days=%d",
			len(grid.Cells), grid.FirstWeekday, grid.DaysInMonth))
	}

	var week api.WeekResponse
	if err := tr.getData("/api/v1/week/2024-12-31", &week); err != nil {
		tr.recordError("Week 2024-12-31", err.Error())
		return
	}
	if week.WeekNumber == 53 {
		tr.recordSuccess("2024-12-31 is in week 53")
	} else {
		tr.recordError("Week 2024-12-31", fmt.Sprintf("Expected 53, got %d", week.WeekNumber))
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	tr.expectStatus("Invalid date format rejected", "/api/v1/lunar/date/invalid", http.StatusBadRequest)
	tr.expectStatus("Impossible date rejected", "/api/v1/lunar/date/2023-02-29", http.StatusBadRequest)
	tr.expectStatus("Date before the table rejected", "/api/v1/lunar/date/1900-01-30", http.StatusBadRequest)
	tr.expectStatus("Date after the table rejected", "/api/v1/lunar/date/2101-01-01", http.StatusBadRequest)
	tr.expectStatus("Missing end parameter rejected", "/api/v1/lunar/range?start=2024-01-01", http.StatusBadRequest)
	tr.expectStatus("Unknown route", "/api/v1/nope", http.StatusNotFound)
}

// =============================================================================
// Helper Methods
// =============================================================================

// getData fetches path and decodes the envelope's data into target.
func (tr *TestRunner) getData(path string, target any) error {
	resp, err := tr.getRaw(path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return fmt.Errorf("API error: %s", errMsg)
	}

	return json.Unmarshal(apiResp.Data, target)
}

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	return tr.client.Get(tr.baseURL + path)
}

func (tr *TestRunner) expectStatus(name, path string, want int) {
	resp, err := tr.getRaw(path)
	if err != nil {
		tr.recordError(name, err.Error())
		return
	}
	resp.Body.Close()

	if resp.StatusCode == want {
		tr.recordSuccess(name)
	} else {
		tr.recordError(name, fmt.Sprintf("Expected HTTP %d, got %d", want, resp.StatusCode))
	}
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) printDayDetail(d api.DayResponse) {
	fmt.Printf("    Zodiac: %s  Week: %d  Day of year: %d\n", d.Lunar.Zodiac, d.WeekNumber, d.DayOfYear)
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
		return
	}

	fmt.Println("All tests passed! ✓")
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	client := &http.Client{Timeout: 2 * time.Second}
	if _, err := client.Get(*baseURL + "/health"); err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}

	runner := NewTestRunner(*baseURL, *verbose)
	runner.Run()

	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
