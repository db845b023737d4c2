package database

import "time"

// AlmanacDay is one materialized Gregorian day with its lunar attributes.
type AlmanacDay struct {
	Date        string `json:"date"` // YYYY-MM-DD
	LunarYear   int    `json:"lunar_year"`
	LunarMonth  int    `json:"lunar_month"`
	LunarDay    int    `json:"lunar_day"`
	IsLeapMonth bool   `json:"is_leap_month"`
	MonthName   string `json:"month_name"`
	DayName     string `json:"day_name"`
	YearName    string `json:"year_name"`
	Zodiac      string `json:"zodiac"`
	SolarTerm   string `json:"solar_term,omitempty"` // stored as NULL when empty
	Festival    string `json:"festival,omitempty"`
	WeekNumber  int    `json:"week_number"`
}

// AlmanacYear records a generated Gregorian year.
type AlmanacYear struct {
	Year        int       `json:"year"`
	Days        int       `json:"days"`
	GeneratedAt time.Time `json:"generated_at"`
}

// AlmanacStats summarizes the stored almanac.
type AlmanacStats struct {
	TotalDays    int    `json:"total_days"`
	EarliestDate string `json:"earliest_date,omitempty"`
	LatestDate   string `json:"latest_date,omitempty"`
	Years        int    `json:"years"`
}
