package calendar

import "time"

// GridSize is the number of cells in a month view: six weeks of seven days.
const GridSize = 42

// GridCell is one day in a month view.
type GridCell struct {
	Year           int  `json:"year"`
	Month          int  `json:"month"`
	Day            int  `json:"day"`
	IsCurrentMonth bool `json:"is_current_month"`
}

// Date returns the cell as a UTC midnight time.
func (c GridCell) Date() time.Time {
	return dateOf(c.Year, c.Month, c.Day)
}

// IsLeapYear reports whether a Gregorian year has 366 days.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in a Gregorian month.
func DaysInMonth(year, month int) int {
	// Day 0 of the following month is the last day of this one.
	return dateOf(year, month+1, 0).Day()
}

// FirstWeekday returns the weekday of the first day of the month, 0 = Sunday.
func FirstWeekday(year, month int) int {
	return int(dateOf(year, month, 1).Weekday())
}

// DayOfYear returns the 1-based ordinal of a date within its year.
func DayOfYear(year, month, day int) int {
	return dateOf(year, month, day).YearDay()
}

// WeekNumber returns the Sunday-based week of the year containing the date.
// Week 1 is the (possibly partial) week holding January 1.
func WeekNumber(year, month, day int) int {
	offset := FirstWeekday(year, 1)
	n := DayOfYear(year, month, day) + offset
	return (n + 6) / 7
}

// BuildGrid lays a month out over six Sunday-first weeks. Leading cells hold
// the tail of the previous month and trailing cells the start of the next.
func BuildGrid(year, month int) [GridSize]GridCell {
	var grid [GridSize]GridCell

	start := dateOf(year, month, 1).AddDate(0, 0, -FirstWeekday(year, month))
	for i := range grid {
		d := start.AddDate(0, 0, i)
		grid[i] = GridCell{
			Year:           d.Year(),
			Month:          int(d.Month()),
			Day:            d.Day(),
			IsCurrentMonth: d.Year() == year && int(d.Month()) == month,
		}
	}

	return grid
}
