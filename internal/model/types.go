package model

import "time"

// -----------------------------------------------------------------------------
// Reference Types
// -----------------------------------------------------------------------------

// Metal represents one LME base metal. Static reference data, loaded once.
type Metal struct {
	ID         int    // Primary key in the reference database
	Code       string // Short code (e.g., "CU")
	Name       string // Human name (e.g., "Copper")
	BaseTicker string // Vendor ticker prefix (e.g., "LMCADS")
}

// metals is the static LME metal universe.
var metals = []Metal{
	{Code: "CU", Name: "Copper", BaseTicker: "LMCADS"},
	{Code: "AL", Name: "Aluminum", BaseTicker: "LMAHDS"},
	{Code: "ZN", Name: "Zinc", BaseTicker: "LMZSDS"},
	{Code: "PB", Name: "Lead", BaseTicker: "LMPBDS"},
	{Code: "NI", Name: "Nickel", BaseTicker: "LMNIDS"},
	{Code: "SN", Name: "Tin", BaseTicker: "LMSNDS"},
}

// Metals returns the static metal universe.
func Metals() []Metal {
	out := make([]Metal, len(metals))
	copy(out, metals)
	return out
}

// MetalByCode looks up a metal by its short code.
func MetalByCode(code string) (Metal, bool) {
	for _, m := range metals {
		if m.Code == code {
			return m, true
		}
	}
	return Metal{}, false
}

// -----------------------------------------------------------------------------
// Spread Types
// -----------------------------------------------------------------------------

// LegType classifies one settlement leg of a spread.
type LegType string

const (
	LegCash           LegType = "Cash" // Within tolerance of the cash prompt
	LegThreeMonth     LegType = "3M"   // Within tolerance of the rolling 3M prompt
	LegThirdWednesday LegType = "3W"   // Third Wednesday of its month (rolled)
	LegOdd            LegType = "Odd"  // Any other explicit date
)

// Spread represents one calendar-spread instrument. Identity is
// (metal, ticker); leg dates are nullable until resolved.
type Spread struct {
	ID          int64  // Primary key
	MetalCode   string // Foreign key to Metal
	Ticker      string // Vendor ticker, unique per metal
	NominalType string // Spread type implied by the raw ticker pattern
	Description string // Vendor instrument description

	// Resolution (populated by the date resolver)
	Leg1Date  *time.Time // Resolved near-leg date
	Leg2Date  *time.Time // Resolved far-leg date
	Leg1Label string     // "Cash", "3M", month token, or ISO date
	Leg2Label string

	// Classification (derived solely from resolved dates)
	ActualType          string // e.g. "Cash-3W"; empty until classified
	Reclassified        bool   // True when actual type contradicts nominal type
	ClassificationNotes string // Free text for flagged edge cases

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Resolved reports whether both leg dates are known.
func (s *Spread) Resolved() bool {
	return s.Leg1Date != nil && s.Leg2Date != nil
}

// -----------------------------------------------------------------------------
// Time-Series Types
// -----------------------------------------------------------------------------

// Tick is one quote snapshot for a spread. Identity is (spread_id, timestamp);
// ticks are immutable once written.
type Tick struct {
	SpreadID  int64
	Timestamp time.Time

	Bid       *float64
	Ask       *float64
	LastPrice *float64
	BidSize   *int64
	AskSize   *int64

	Volume        int64 // Vendor-reported cumulative volume
	SessionVolume int64 // Volume attributable to the current session; 0 when stale
	OpenInterest  int64

	SessionDate   time.Time  // Vendor trading date for the snapshot
	LastUpdate    *time.Time // Vendor last-update date, nil when not reported
	SpreadBP      *float64
	ContractValue *float64
}

// -----------------------------------------------------------------------------
// Scheduling Types
// -----------------------------------------------------------------------------

// FrequencyClass names one collection cadence.
type FrequencyClass string

const (
	ClassRealtime FrequencyClass = "REALTIME" // Recently active spreads only
	ClassRegular  FrequencyClass = "REGULAR"  // Full active spread universe
	ClassDaily    FrequencyClass = "DAILY"    // Discovery, prompt refresh, maintenance
)

// FrequencyClasses lists every cadence a worker is started for.
func FrequencyClasses() []FrequencyClass {
	return []FrequencyClass{ClassRealtime, ClassRegular, ClassDaily}
}

// ScheduleStatus is the state of one collection schedule.
type ScheduleStatus string

const (
	StatusIdle    ScheduleStatus = "idle"
	StatusDue     ScheduleStatus = "due"
	StatusRunning ScheduleStatus = "running"
	StatusErrored ScheduleStatus = "errored"
)

// CollectionSchedule is one (metal, frequency class) collection cadence.
// Mutated only by the scheduler.
type CollectionSchedule struct {
	ID        int64
	MetalCode string
	Class     FrequencyClass
	Interval  time.Duration
	LastRun   time.Time // Zero before the first successful run
	NextRun   time.Time
	Status    ScheduleStatus
}

// Due reports whether the schedule should run at time now.
func (s *CollectionSchedule) Due(now time.Time) bool {
	return s.Status != StatusRunning && !s.NextRun.After(now)
}
