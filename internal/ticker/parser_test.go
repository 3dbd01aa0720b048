package ticker

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseLegs_ExplicitPair(t *testing.T) {
	pair, err := ParseLegs("LMCADS 250722-250820 Comdty")
	if err != nil {
		t.Fatalf("ParseLegs() error = %v", err)
	}

	if pair.Leg1.Kind != Explicit {
		t.Errorf("Leg1.Kind = %v, want Explicit", pair.Leg1.Kind)
	}
	if !pair.Leg1.Date.Equal(date(2025, 7, 22)) {
		t.Errorf("Leg1.Date = %v, want 2025-07-22", pair.Leg1.Date)
	}
	if !pair.Leg2.Date.Equal(date(2025, 8, 20)) {
		t.Errorf("Leg2.Date = %v, want 2025-08-20", pair.Leg2.Date)
	}
}

func TestParseLegs_Patterns(t *testing.T) {
	tests := []struct {
		raw   string
		want1 Kind
		want2 Kind
	}{
		{"LMCADS 250722-250820 Comdty", Explicit, Explicit},
		{"LMCADS 250722-03 Comdty", Explicit, ThreeMonth},
		{"LMCADS 03-250722 Comdty", ThreeMonth, Explicit},
		{"LMCADS 00-250722 Comdty", Cash, Explicit},
		{"LMCADS 250722-00 Comdty", Explicit, Cash},
		{"LMCADS 03F26 Comdty", ThreeMonth, ThirdWednesday},
		{"LMCADS F26G26 Comdty", ThirdWednesday, ThirdWednesday},
		{"LMCADS F2603 Comdty", ThirdWednesday, ThreeMonth},
		{"LMCADS 00Q25 Comdty", Cash, ThirdWednesday},
	}

	for _, tt := range tests {
		pair, err := ParseLegs(tt.raw)
		if err != nil {
			t.Errorf("ParseLegs(%q) error = %v", tt.raw, err)
			continue
		}
		if pair.Leg1.Kind != tt.want1 || pair.Leg2.Kind != tt.want2 {
			t.Errorf("ParseLegs(%q) kinds = (%v, %v), want (%v, %v)",
				tt.raw, pair.Leg1.Kind, pair.Leg2.Kind, tt.want1, tt.want2)
		}
	}
}

func TestParseLegs_MonthDecoding(t *testing.T) {
	pair, err := ParseLegs("LMCADS 03F26 Comdty")
	if err != nil {
		t.Fatalf("ParseLegs() error = %v", err)
	}

	if pair.Leg2.Month != time.January {
		t.Errorf("Leg2.Month = %v, want January", pair.Leg2.Month)
	}
	if pair.Leg2.Year != 2026 {
		t.Errorf("Leg2.Year = %d, want 2026", pair.Leg2.Year)
	}
}

func TestParseLegs_Unrecognized(t *testing.T) {
	for _, raw := range []string{
		"LMCADS03 Comdty",        // outright 3M future
		"LMCADY Comdty",          // outright cash
		"LMCADS Comdty",          // bare prefix
		"LMCADS 251301-03 Comdty", // month 13
		"LMCADS 250199-03 Comdty", // day 99
		"",
	} {
		_, err := ParseLegs(raw)
		if !errors.Is(err, ErrUnrecognizedFormat) {
			t.Errorf("ParseLegs(%q) error = %v, want ErrUnrecognizedFormat", raw, err)
		}
	}
}

func TestNominalType(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"LMCADS 250722-250820 Comdty", "Odd-Odd"},
		{"LMCADS 250722-03 Comdty", "Odd-3M"},
		{"LMCADS 03-250722 Comdty", "3M-Odd"},
		{"LMCADS 00-250722 Comdty", "Cash-Odd"},
		{"LMCADS 250722-00 Comdty", "Odd-Cash"},
		{"LMCADS 03F26 Comdty", "3M-3W"},
		{"LMCADS F26G26 Comdty", "Calendar"},
		{"LMCADS F2603 Comdty", "Month-3M"},
		{"LMCADS 00Q25 Comdty", "Cash-Month"},
		{"LMCADS03 Comdty", "Other"},
	}

	for _, tt := range tests {
		if got := NominalType(tt.raw); got != tt.want {
			t.Errorf("NominalType(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestIsSpread(t *testing.T) {
	if !IsSpread("LMAHDS H26J26 Comdty") {
		t.Error("IsSpread(calendar) = false, want true")
	}
	if IsSpread("LMAHDS03 Comdty") {
		t.Error("IsSpread(outright) = true, want false")
	}
	if IsSpread("LMAHDS Comdty") {
		t.Error("IsSpread(prefix only) = true, want false")
	}
}

func TestLeg_Token(t *testing.T) {
	tests := []struct {
		leg  Leg
		want string
	}{
		{Leg{Kind: ThreeMonth}, "3M"},
		{Leg{Kind: Cash}, "Cash"},
		{Leg{Kind: Explicit, Date: date(2025, 7, 22)}, "2025-07-22"},
		{Leg{Kind: ThirdWednesday, Month: time.August, Year: 2025}, "Q25"},
		{Leg{Kind: ThirdWednesday, Month: time.January, Year: 2026}, "F26"},
	}

	for _, tt := range tests {
		if got := tt.leg.Token(); got != tt.want {
			t.Errorf("Token() = %q, want %q", got, tt.want)
		}
	}
}

// The explicit-pair pattern must win over the calendar pattern for any
// six-digit leg spec; priority is part of the contract.
func TestParseLegs_PriorityOrder(t *testing.T) {
	pair, err := ParseLegs("LMCADS 260126-260226 Comdty")
	if err != nil {
		t.Fatalf("ParseLegs() error = %v", err)
	}
	if pair.Leg1.Kind != Explicit || pair.Leg2.Kind != Explicit {
		t.Errorf("kinds = (%v, %v), want explicit pair", pair.Leg1.Kind, pair.Leg2.Kind)
	}
}
