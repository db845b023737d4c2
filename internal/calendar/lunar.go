package calendar

import (
	"fmt"
	"time"
)

// LunarDate is a date in the Chinese lunar calendar.
type LunarDate struct {
	Year        int    `json:"year"`
	Month       int    `json:"month"` // 1-12
	Day         int    `json:"day"`   // 1-30
	IsLeapMonth bool   `json:"is_leap_month"`
	MonthName   string `json:"month_name"`
	DayName     string `json:"day_name"`
	YearName    string `json:"year_name"` // sexagenary stem-branch name
	Zodiac      string `json:"zodiac"`
	Festival    string `json:"festival,omitempty"`
}

// String renders the date as e.g. 甲辰年正月初一.
func (d LunarDate) String() string {
	return d.YearName + "年" + d.MonthName + d.DayName
}

// newLunarDate fills in the derived name fields.
func newLunarDate(year, month, day int, leap bool) LunarDate {
	d := LunarDate{
		Year:        year,
		Month:       month,
		Day:         day,
		IsLeapMonth: leap,
		MonthName:   MonthName(month, leap),
		DayName:     DayName(day),
		YearName:    YearName(year),
		Zodiac:      Zodiac(year),
	}
	d.Festival = FestivalOf(d)
	return d
}

// leapState tracks where the month walk stands relative to the leap month.
type leapState int

const (
	beforeLeap leapState = iota // leap month not reached yet
	insideLeap                  // the current segment is the leap month
	afterLeap                   // leap month consumed, or the year has none
)

// monthWalker steps through the month segments of one lunar year in order.
// A leap segment follows its ordinal month and carries the same number.
type monthWalker struct {
	info  LunarYearInfo
	month int
	state leapState
}

func newMonthWalker(info LunarYearInfo) *monthWalker {
	w := &monthWalker{info: info, month: 1, state: afterLeap}
	if info.HasLeapMonth() {
		w.state = beforeLeap
	}
	return w
}

// segment returns the current month number, its length and whether it is the leap month.
func (w *monthWalker) segment() (month, length int, leap bool) {
	if w.state == insideLeap {
		return w.month, w.info.LeapMonthLength, true
	}
	return w.month, w.info.MonthLengths[w.month-1], false
}

// next advances to the following segment. It returns false past month 12.
func (w *monthWalker) next() bool {
	switch w.state {
	case beforeLeap:
		if w.month == w.info.LeapMonth {
			w.state = insideLeap
			return true
		}
	case insideLeap:
		w.state = afterLeap
	}
	w.month++
	return w.month <= 12
}

// ToLunar converts a Gregorian date to its lunar calendar equivalent.
// Dates before 1900-01-31 or after 2100 fail with ErrOutOfRange.
func ToLunar(year, month, day int) (LunarDate, error) {
	if err := checkYear(year); err != nil {
		return LunarDate{}, fmt.Errorf("to lunar: %w", err)
	}

	date, err := validDate(year, month, day)
	if err != nil {
		return LunarDate{}, fmt.Errorf("to lunar: %w", err)
	}

	offset := daysBetween(Epoch, date)
	if offset < 0 {
		return LunarDate{}, fmt.Errorf("to lunar: %s precedes epoch %s: %w",
			FormatDate(date), FormatDate(Epoch), ErrOutOfRange)
	}

	// Skip whole lunar years.
	lunarYear := MinYear
	for ; lunarYear <= MaxYear; lunarYear++ {
		total := decode(lunarYear).TotalDays()
		if offset < total {
			break
		}
		offset -= total
	}
	if lunarYear > MaxYear {
		return LunarDate{}, fmt.Errorf("to lunar: %s beyond lunar year %d: %w",
			FormatDate(date), MaxYear, ErrOutOfRange)
	}

	// Walk the month segments of that year.
	w := newMonthWalker(decode(lunarYear))
	for {
		m, length, leap := w.segment()
		if offset < length {
			return newLunarDate(lunarYear, m, offset+1, leap), nil
		}
		offset -= length
		if !w.next() {
			break
		}
	}

	// Unreachable while the table totals agree with the month lengths.
	return LunarDate{}, fmt.Errorf("to lunar: lunar year %d exhausted: %w", lunarYear, ErrOutOfRange)
}

// ToLunarTime converts the calendar date of t to the lunar calendar.
func ToLunarTime(t time.Time) (LunarDate, error) {
	return ToLunar(t.Year(), int(t.Month()), t.Day())
}

// FromLunar converts a lunar date back to its Gregorian date.
func FromLunar(year, month, day int, leap bool) (time.Time, error) {
	if err := checkYear(year); err != nil {
		return time.Time{}, fmt.Errorf("from lunar: %w", err)
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("from lunar: month %d: %w", month, ErrOutOfRange)
	}

	info := decode(year)
	if leap && info.LeapMonth != month {
		return time.Time{}, fmt.Errorf("from lunar: year %d has no leap month %d: %w", year, month, ErrOutOfRange)
	}

	offset := 0
	for y := MinYear; y < year; y++ {
		offset += decode(y).TotalDays()
	}

	w := newMonthWalker(info)
	for {
		m, length, isLeap := w.segment()
		if m == month && isLeap == leap {
			if day < 1 || day > length {
				return time.Time{}, fmt.Errorf("from lunar: day %d of %s has %d days: %w",
					day, MonthName(month, leap), length, ErrOutOfRange)
			}
			return Epoch.AddDate(0, 0, offset+day-1), nil
		}
		offset += length
		if !w.next() {
			break
		}
	}

	return time.Time{}, fmt.Errorf("from lunar: month %d not found in %d: %w", month, year, ErrOutOfRange)
}

// LunarNewYear returns the Gregorian date of 正月初一 for a lunar year.
func LunarNewYear(year int) (time.Time, error) {
	return FromLunar(year, 1, 1, false)
}
