package calendar

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDecode_KnownYears(t *testing.T) {
	tests := []struct {
		year       int
		leapMonth  int
		leapLength int
		totalDays  int
	}{
		{1900, 8, 29, 384},
		{2020, 4, 29, 384},
		{2023, 2, 29, 384},
		{2024, 0, 0, 354},
		{2025, 6, 29, 384},
		{2033, 11, 29, 384},
	}

	for _, tt := range tests {
		info, err := Decode(tt.year)
		if err != nil {
			t.Fatalf("Decode(%d) error = %v", tt.year, err)
		}
		if info.LeapMonth != tt.leapMonth {
			t.Errorf("Decode(%d).LeapMonth = %d, want %d", tt.year, info.LeapMonth, tt.leapMonth)
		}
		if info.LeapMonthLength != tt.leapLength {
			t.Errorf("Decode(%d).LeapMonthLength = %d, want %d", tt.year, info.LeapMonthLength, tt.leapLength)
		}
		if got := info.TotalDays(); got != tt.totalDays {
			t.Errorf("Decode(%d).TotalDays() = %d, want %d", tt.year, got, tt.totalDays)
		}
	}
}

func TestDecode_MonthLengths1900(t *testing.T) {
	info, err := Decode(1900)
	if err != nil {
		t.Fatalf("Decode(1900) error = %v", err)
	}

	want := [12]int{29, 30, 29, 29, 30, 29, 30, 30, 30, 30, 29, 30}
	if diff := cmp.Diff(want, info.MonthLengths); diff != "" {
		t.Errorf("Decode(1900).MonthLengths mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_OutOfRange(t *testing.T) {
	for _, year := range []int{1899, 2101, 0, -5} {
		if _, err := Decode(year); !IsOutOfRange(err) {
			t.Errorf("Decode(%d) error = %v, want ErrOutOfRange", year, err)
		}
	}
}

func TestYearTotalDays_AllYearsInRange(t *testing.T) {
	for year := MinYear; year <= MaxYear; year++ {
		total, err := YearTotalDays(year)
		if err != nil {
			t.Fatalf("YearTotalDays(%d) error = %v", year, err)
		}
		if total < 353 || total > 385 {
			t.Errorf("YearTotalDays(%d) = %d, want within [353, 385]", year, total)
		}

		info := decode(year)
		if info.LeapMonth < 0 || info.LeapMonth > 12 {
			t.Errorf("year %d leap month = %d, want within [0, 12]", year, info.LeapMonth)
		}
		if info.LeapMonth == 0 && info.LeapMonthLength != 0 {
			t.Errorf("year %d has leap length %d without a leap month", year, info.LeapMonthLength)
		}
	}
}

func TestToLunar_KnownDates(t *testing.T) {
	tests := []struct {
		name                string
		year, month, day    int
		wantYear, wantMonth int
		wantDay             int
		wantLeap            bool
	}{
		{"epoch anchor", 1900, 1, 31, 1900, 1, 1, false},
		{"new year 1901", 1901, 2, 19, 1901, 1, 1, false},
		{"new year 2000", 2000, 2, 5, 2000, 1, 1, false},
		{"new year 2024", 2024, 2, 10, 2024, 1, 1, false},
		{"new year's eve 2024", 2024, 2, 9, 2023, 12, 30, false},
		{"gregorian new year 2024", 2024, 1, 1, 2023, 11, 20, false},
		{"leap second month 2023", 2023, 3, 22, 2023, 2, 1, true},
		{"third month after leap 2023", 2023, 4, 20, 2023, 3, 1, false},
		{"leap fourth month 2020", 2020, 5, 23, 2020, 4, 1, true},
		{"last day of leap fourth month 2020", 2020, 6, 20, 2020, 4, 29, true},
		{"fifth month after leap 2020", 2020, 6, 21, 2020, 5, 1, false},
		{"mid-autumn 2024", 2024, 9, 17, 2024, 8, 15, false},
		{"new year 2025", 2025, 1, 29, 2025, 1, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToLunar(tt.year, tt.month, tt.day)
			if err != nil {
				t.Fatalf("ToLunar() error = %v", err)
			}
			if got.Year != tt.wantYear || got.Month != tt.wantMonth || got.Day != tt.wantDay || got.IsLeapMonth != tt.wantLeap {
				t.Errorf("ToLunar(%d, %d, %d) = %d/%d/%d leap=%v, want %d/%d/%d leap=%v",
					tt.year, tt.month, tt.day,
					got.Year, got.Month, got.Day, got.IsLeapMonth,
					tt.wantYear, tt.wantMonth, tt.wantDay, tt.wantLeap)
			}
		})
	}
}

func TestToLunar_Names(t *testing.T) {
	got, err := ToLunar(2024, 2, 10)
	if err != nil {
		t.Fatalf("ToLunar() error = %v", err)
	}

	want := LunarDate{
		Year:      2024,
		Month:     1,
		Day:       1,
		MonthName: "正月",
		DayName:   "初一",
		YearName:  "甲辰",
		Zodiac:    "龙",
		Festival:  FestivalSpring,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToLunar(2024, 2, 10) mismatch (-want +got):\n%s", diff)
	}
	if s := got.String(); s != "甲辰年正月初一" {
		t.Errorf("String() = %q, want %q", s, "甲辰年正月初一")
	}

	leap, err := ToLunar(2023, 3, 22)
	if err != nil {
		t.Fatalf("ToLunar() error = %v", err)
	}
	if leap.MonthName != "闰二月" {
		t.Errorf("MonthName = %q, want %q", leap.MonthName, "闰二月")
	}
	if leap.Festival != "" {
		t.Errorf("Festival = %q, want none in a leap month", leap.Festival)
	}
}

func TestToLunar_OutOfRange(t *testing.T) {
	tests := []struct {
		name             string
		year, month, day int
	}{
		{"before 1900", 1899, 12, 31},
		{"after 2100", 2101, 1, 1},
		{"before epoch", 1900, 1, 30},
		{"first day of 1900", 1900, 1, 1},
		{"february 30", 2024, 2, 30},
		{"february 29 in common year", 2023, 2, 29},
		{"month 13", 2024, 13, 1},
		{"day zero", 2024, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToLunar(tt.year, tt.month, tt.day)
			if !IsOutOfRange(err) {
				t.Errorf("ToLunar(%d, %d, %d) error = %v, want ErrOutOfRange", tt.year, tt.month, tt.day, err)
			}
		})
	}
}

func TestToLunar_LastSupportedDay(t *testing.T) {
	got, err := ToLunar(2100, 12, 31)
	if err != nil {
		t.Fatalf("ToLunar(2100, 12, 31) error = %v", err)
	}
	if got.Year != 2100 {
		t.Errorf("lunar year = %d, want 2100", got.Year)
	}
}

// Every month segment in the table must map back onto itself.
func TestFromLunar_RoundTrip(t *testing.T) {
	for year := MinYear; year <= MaxYear; year++ {
		info := decode(year)
		w := newMonthWalker(info)
		for {
			month, length, leap := w.segment()
			for _, day := range []int{1, length} {
				date, err := FromLunar(year, month, day, leap)
				if err != nil {
					t.Fatalf("FromLunar(%d, %d, %d, %v) error = %v", year, month, day, leap, err)
				}
				if date.Year() > MaxYear {
					continue
				}

				got, err := ToLunarTime(date)
				if err != nil {
					t.Fatalf("ToLunarTime(%s) error = %v", FormatDate(date), err)
				}
				if got.Year != year || got.Month != month || got.Day != day || got.IsLeapMonth != leap {
					t.Errorf("round trip %d/%d/%d leap=%v via %s = %d/%d/%d leap=%v",
						year, month, day, leap, FormatDate(date),
						got.Year, got.Month, got.Day, got.IsLeapMonth)
				}
			}
			if !w.next() {
				break
			}
		}
	}
}

func TestFromLunar_Errors(t *testing.T) {
	tests := []struct {
		name             string
		year, month, day int
		leap             bool
	}{
		{"no such leap month", 2024, 4, 1, true},
		{"day 30 of short month", 2024, 1, 30, false},
		{"day zero", 2024, 1, 0, false},
		{"month 13", 2024, 13, 1, false},
		{"year before table", 1899, 1, 1, false},
		{"year after table", 2101, 1, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromLunar(tt.year, tt.month, tt.day, tt.leap)
			if !IsOutOfRange(err) {
				t.Errorf("FromLunar() error = %v, want ErrOutOfRange", err)
			}
		})
	}
}

func TestLunarNewYear(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{1900, "1900-01-31"},
		{1901, "1901-02-19"},
		{2000, "2000-02-05"},
		{2020, "2020-01-25"},
		{2023, "2023-01-22"},
		{2024, "2024-02-10"},
		{2025, "2025-01-29"},
	}

	for _, tt := range tests {
		got, err := LunarNewYear(tt.year)
		if err != nil {
			t.Fatalf("LunarNewYear(%d) error = %v", tt.year, err)
		}
		if FormatDate(got) != tt.want {
			t.Errorf("LunarNewYear(%d) = %s, want %s", tt.year, FormatDate(got), tt.want)
		}
	}
}

func TestYearName(t *testing.T) {
	tests := []struct {
		year       int
		wantName   string
		wantZodiac string
	}{
		{4, "甲子", "鼠"},
		{1900, "庚子", "鼠"},
		{1984, "甲子", "鼠"},
		{2023, "癸卯", "兔"},
		{2024, "甲辰", "龙"},
		{2025, "乙巳", "蛇"},
	}

	for _, tt := range tests {
		if got := YearName(tt.year); got != tt.wantName {
			t.Errorf("YearName(%d) = %q, want %q", tt.year, got, tt.wantName)
		}
		if got := Zodiac(tt.year); got != tt.wantZodiac {
			t.Errorf("Zodiac(%d) = %q, want %q", tt.year, got, tt.wantZodiac)
		}
	}
}

func TestZodiacIndex(t *testing.T) {
	tests := []struct {
		year int
		want int
	}{
		{1900, 0},
		{2021, 1},
		{2024, 4},
		{2031, 11},
		{1899, 11},
	}

	for _, tt := range tests {
		if got := ZodiacIndex(tt.year); got != tt.want {
			t.Errorf("ZodiacIndex(%d) = %d, want %d", tt.year, got, tt.want)
		}
	}
}

func TestDayName(t *testing.T) {
	tests := map[int]string{1: "初一", 10: "初十", 11: "十一", 20: "二十", 21: "廿一", 30: "三十", 0: "", 31: ""}
	for day, want := range tests {
		if got := DayName(day); got != want {
			t.Errorf("DayName(%d) = %q, want %q", day, got, want)
		}
	}
}

func TestFestivalOf(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2024-02-10", FestivalSpring},
		{"2024-02-24", FestivalLantern},
		{"2024-06-10", FestivalDragonBoat},
		{"2024-09-17", FestivalMidAutumn},
		{"2024-02-09", FestivalNewYearsEve},
		{"2024-03-01", ""},
	}

	for _, tt := range tests {
		date, err := time.Parse(DateLayout, tt.date)
		if err != nil {
			t.Fatalf("parse %s: %v", tt.date, err)
		}
		got, err := ToLunarTime(date)
		if err != nil {
			t.Fatalf("ToLunarTime(%s) error = %v", tt.date, err)
		}
		if got.Festival != tt.want {
			t.Errorf("festival on %s = %q, want %q", tt.date, got.Festival, tt.want)
		}
	}
}

func TestToLunar_Idempotent(t *testing.T) {
	first, err := ToLunar(1987, 6, 15)
	if err != nil {
		t.Fatalf("ToLunar() error = %v", err)
	}
	second, err := ToLunar(1987, 6, 15)
	if err != nil {
		t.Fatalf("ToLunar() error = %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated ToLunar() differs (-first +second):\n%s", diff)
	}
}
