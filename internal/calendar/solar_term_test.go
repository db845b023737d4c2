package calendar

import "testing"

func TestTermDate_ReferenceValues(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		termIndex int
		want      int
	}{
		{"minor cold 2024", 2024, 0, 6},
		{"spring begins 2024", 2024, 2, 4},
		{"spring equinox 2024", 2024, 5, 20},
		{"clear and bright 2024", 2024, 6, 4},
		{"winter solstice 2024", 2024, 23, 21},
		{"spring begins 2023", 2023, 2, 4},
		{"minor cold 1900", 1900, 0, 6},
		{"spring begins 1900", 1900, 2, 4},
		{"minor cold 2000", 2000, 0, 6},
		{"major cold 2000", 2000, 1, 21},
		{"rain water 2000", 2000, 3, 19},
		{"spring equinox 2000", 2000, 5, 20},
		{"clear and bright 1990", 1990, 6, 5},
		{"autumn begins 1990", 1990, 14, 8},
		{"winter solstice 1990", 1990, 23, 22},
		{"minor cold 2100", 2100, 0, 5},
		{"awakening of insects 2100", 2100, 4, 5},
		{"spring equinox 2100", 2100, 5, 20},
		{"winter solstice 2100", 2100, 23, 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TermDate(tt.year, tt.termIndex)
			if err != nil {
				t.Fatalf("TermDate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("TermDate(%d, %d) = %d, want %d", tt.year, tt.termIndex, got, tt.want)
			}
		})
	}
}

func TestTermDate_Corrections(t *testing.T) {
	tests := []struct {
		year      int
		termIndex int
		want      int
	}{
		{1982, 0, 6},
		{2019, 0, 5},
		{2026, 3, 18},
		{2008, 9, 21},
		{2016, 12, 7},
		{2002, 14, 8},
		{2021, 23, 21},
		{1911, 8, 7},
	}

	for _, tt := range tests {
		got, err := TermDate(tt.year, tt.termIndex)
		if err != nil {
			t.Fatalf("TermDate(%d, %d) error = %v", tt.year, tt.termIndex, err)
		}
		if got != tt.want {
			t.Errorf("TermDate(%d, %d) = %d, want %d", tt.year, tt.termIndex, got, tt.want)
		}
	}
}

func TestTermDate_OutOfRange(t *testing.T) {
	tests := []struct {
		year      int
		termIndex int
	}{
		{2024, -1},
		{2024, 24},
		{1899, 0},
		{2101, 0},
	}

	for _, tt := range tests {
		if _, err := TermDate(tt.year, tt.termIndex); !IsOutOfRange(err) {
			t.Errorf("TermDate(%d, %d) error = %v, want ErrOutOfRange", tt.year, tt.termIndex, err)
		}
	}
}

func TestTermDate_WithinMonthForAllYears(t *testing.T) {
	for year := MinYear; year <= MaxYear; year++ {
		for month := 1; month <= 12; month++ {
			first, err := TermDate(year, 2*(month-1))
			if err != nil {
				t.Fatalf("TermDate() error = %v", err)
			}
			second, err := TermDate(year, 2*(month-1)+1)
			if err != nil {
				t.Fatalf("TermDate() error = %v", err)
			}

			if first < 1 || second > DaysInMonth(year, month) || first >= second {
				t.Errorf("%d-%02d terms on days %d and %d", year, month, first, second)
			}
		}
	}
}

func TestTermOf(t *testing.T) {
	tests := []struct {
		name             string
		year, month, day int
		wantName         string
		wantOK           bool
	}{
		{"minor cold", 2024, 1, 6, "小寒", true},
		{"spring begins", 2024, 2, 4, "立春", true},
		{"winter solstice", 2024, 12, 21, "冬至", true},
		{"ordinary day", 2024, 2, 5, "", false},
		{"first of month", 2024, 7, 1, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ok, err := TermOf(tt.year, tt.month, tt.day)
			if err != nil {
				t.Fatalf("TermOf() error = %v", err)
			}
			if name != tt.wantName || ok != tt.wantOK {
				t.Errorf("TermOf(%d, %d, %d) = (%q, %v), want (%q, %v)",
					tt.year, tt.month, tt.day, name, ok, tt.wantName, tt.wantOK)
			}
		})
	}
}

func TestTermOf_OutOfRange(t *testing.T) {
	if _, _, err := TermOf(2101, 1, 5); !IsOutOfRange(err) {
		t.Errorf("TermOf(2101, 1, 5) error = %v, want ErrOutOfRange", err)
	}
	if _, _, err := TermOf(2024, 13, 5); !IsOutOfRange(err) {
		t.Errorf("TermOf(2024, 13, 5) error = %v, want ErrOutOfRange", err)
	}
}

func TestTermsOfYear(t *testing.T) {
	terms, err := TermsOfYear(2024)
	if err != nil {
		t.Fatalf("TermsOfYear() error = %v", err)
	}
	if len(terms) != TermCount {
		t.Fatalf("len(TermsOfYear()) = %d, want %d", len(terms), TermCount)
	}

	for i, term := range terms {
		if term.Index != i {
			t.Errorf("terms[%d].Index = %d", i, term.Index)
		}
		if int(term.Date.Month()) != TermMonth(i) {
			t.Errorf("terms[%d] in month %d, want %d", i, term.Date.Month(), TermMonth(i))
		}
		if i > 0 && !term.Date.After(terms[i-1].Date) {
			t.Errorf("terms[%d] %s not after terms[%d] %s", i, FormatDate(term.Date), i-1, FormatDate(terms[i-1].Date))
		}
	}

	if got := FormatDate(terms[0].Date); got != "2024-01-06" {
		t.Errorf("first term of 2024 = %s, want 2024-01-06", got)
	}
}

func TestTermName(t *testing.T) {
	if got := TermName(0); got != "小寒" {
		t.Errorf("TermName(0) = %q, want 小寒", got)
	}
	if got := TermName(23); got != "冬至" {
		t.Errorf("TermName(23) = %q, want 冬至", got)
	}
	if got := TermName(24); got != "" {
		t.Errorf("TermName(24) = %q, want empty", got)
	}
}
