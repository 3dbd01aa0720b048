package calendar

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestThirdWednesday(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  time.Time
	}{
		{2025, time.August, day(2025, 8, 20)},
		{2026, time.January, day(2026, 1, 21)},
		{2025, time.October, day(2025, 10, 15)},
		{2025, time.July, day(2025, 7, 16)},
	}

	for _, tt := range tests {
		got := ThirdWednesday(tt.year, tt.month)
		if !got.Equal(tt.want) {
			t.Errorf("ThirdWednesday(%d, %v) = %v, want %v", tt.year, tt.month, got, tt.want)
		}
		if got.Weekday() != time.Wednesday {
			t.Errorf("ThirdWednesday(%d, %v) fell on %v", tt.year, tt.month, got.Weekday())
		}
	}
}

func TestThirdWednesdayRolled_Holiday(t *testing.T) {
	// 2025-08-20 marked as a holiday: result must advance to Thursday.
	cal := New([]time.Time{day(2025, 8, 20)}, 2025, 2026)

	got := cal.ThirdWednesdayRolled(2025, time.August)
	if !got.Equal(day(2025, 8, 21)) {
		t.Errorf("ThirdWednesdayRolled = %v, want 2025-08-21", got)
	}

	// Without the holiday the Wednesday stands.
	clear := New(nil, 2025, 2026)
	if got := clear.ThirdWednesdayRolled(2025, time.August); !got.Equal(day(2025, 8, 20)) {
		t.Errorf("ThirdWednesdayRolled = %v, want 2025-08-20", got)
	}
}

func TestThirdWednesdayRolled_ConsecutiveHolidays(t *testing.T) {
	cal := New([]time.Time{day(2025, 8, 20), day(2025, 8, 21)}, 2025, 2025)

	got := cal.ThirdWednesdayRolled(2025, time.August)
	if !got.Equal(day(2025, 8, 22)) {
		t.Errorf("ThirdWednesdayRolled = %v, want 2025-08-22", got)
	}
}

func TestNextBusinessDay(t *testing.T) {
	cal := New(nil, 2025, 2025)

	// Saturday rolls to Monday.
	if got := cal.NextBusinessDay(day(2025, 7, 19)); !got.Equal(day(2025, 7, 21)) {
		t.Errorf("NextBusinessDay(Sat) = %v, want Monday 2025-07-21", got)
	}

	// A weekday is returned unchanged.
	if got := cal.NextBusinessDay(day(2025, 7, 18)); !got.Equal(day(2025, 7, 18)) {
		t.Errorf("NextBusinessDay(Fri) = %v, want unchanged", got)
	}
}

func TestAddBusinessDays(t *testing.T) {
	cal := New(nil, 2025, 2025)

	// Friday + 2 business days = Tuesday.
	if got := cal.AddBusinessDays(day(2025, 7, 18), 2); !got.Equal(day(2025, 7, 22)) {
		t.Errorf("AddBusinessDays(Fri, 2) = %v, want 2025-07-22", got)
	}

	// Zero is a no-op even on a weekend date.
	if got := cal.AddBusinessDays(day(2025, 7, 19), 0); !got.Equal(day(2025, 7, 19)) {
		t.Errorf("AddBusinessDays(Sat, 0) = %v, want unchanged", got)
	}
}

func TestCovers(t *testing.T) {
	cal := New(nil, 2024, 2026)

	if !cal.Covers(2025) {
		t.Error("Covers(2025) = false")
	}
	if cal.Covers(2027) {
		t.Error("Covers(2027) = true, table not maintained that far")
	}
}

func TestParse(t *testing.T) {
	cal, err := Parse([]string{"2025-12-25", "2025-12-26"}, 2025, 2025)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !cal.IsHoliday(day(2025, 12, 25)) {
		t.Error("IsHoliday(2025-12-25) = false")
	}

	if _, err := Parse([]string{"25/12/2025"}, 2025, 2025); err == nil {
		t.Error("Parse(malformed) error = nil, want error")
	}
}

func TestDate_Normalizes(t *testing.T) {
	ts := time.Date(2025, 7, 18, 15, 4, 5, 0, time.FixedZone("JST", 9*3600))
	got := Date(ts)
	if got.Hour() != 0 || got.Location() != time.UTC {
		t.Errorf("Date() = %v, want midnight UTC", got)
	}
}
