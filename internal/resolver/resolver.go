// Package resolver converts parsed leg tokens into concrete prompt dates.
package resolver

import (
	"errors"
	"time"

	"github.com/jharlow/lme-data/internal/calendar"
	"github.com/jharlow/lme-data/internal/ticker"
)

// ErrPromptUnavailable signals that the benchmark prompt dates could not be
// obtained from the vendor. Non-fatal: callers fall back to NewEstimated.
var ErrPromptUnavailable = errors.New("prompt dates unavailable")

// Resolver resolves leg tokens against one snapshot of the benchmark prompt
// dates. Construct one per processing session; the cached prompts are never
// mutated, so a Resolver is safe for concurrent use.
type Resolver struct {
	ThreeMonthPrompt time.Time
	CashPrompt       time.Time

	// Estimated is true when the prompts were computed locally rather than
	// obtained from the vendor.
	Estimated bool

	cal *calendar.HolidayCalendar
}

// New creates a Resolver from vendor-supplied prompt dates.
func New(threeMonth, cash time.Time, cal *calendar.HolidayCalendar) *Resolver {
	return &Resolver{
		ThreeMonthPrompt: calendar.Date(threeMonth),
		CashPrompt:       calendar.Date(cash),
		cal:              cal,
	}
}

// NewEstimated creates a Resolver with locally computed fallback prompts:
// 3M = today + 90 calendar days rolled to the next business day,
// Cash = today advanced by 2 business days.
func NewEstimated(today time.Time, cal *calendar.HolidayCalendar) *Resolver {
	today = calendar.Date(today)
	return &Resolver{
		ThreeMonthPrompt: cal.NextBusinessDay(today.AddDate(0, 0, 90)),
		CashPrompt:       cal.AddBusinessDays(today, 2),
		Estimated:        true,
		cal:              cal,
	}
}

// Resolution is a fully resolved leg pair.
type Resolution struct {
	Leg1Date  time.Time
	Leg2Date  time.Time
	Leg1Label string
	Leg2Label string
	Estimated bool
}

// Resolve maps one leg token to its concrete date. Explicit dates pass
// through without adjustment; third-Wednesday legs roll forward past
// weekends and holidays.
func (r *Resolver) Resolve(leg ticker.Leg) time.Time {
	switch leg.Kind {
	case ticker.ThreeMonth:
		return r.ThreeMonthPrompt
	case ticker.Cash:
		return r.CashPrompt
	case ticker.ThirdWednesday:
		return r.cal.ThirdWednesdayRolled(leg.Year, leg.Month)
	default:
		return leg.Date
	}
}

// ResolvePair resolves both legs of a parsed ticker.
func (r *Resolver) ResolvePair(pair ticker.LegPair) Resolution {
	return Resolution{
		Leg1Date:  r.Resolve(pair.Leg1),
		Leg2Date:  r.Resolve(pair.Leg2),
		Leg1Label: pair.Leg1.Token(),
		Leg2Label: pair.Leg2.Token(),
		Estimated: r.Estimated,
	}
}

// DependsOnPrompts reports whether the pair's resolution would change if the
// cached prompt dates were refreshed. Explicit and third-Wednesday legs are
// stable for a given ticker.
func DependsOnPrompts(pair ticker.LegPair) bool {
	for _, leg := range []ticker.Leg{pair.Leg1, pair.Leg2} {
		if leg.Kind == ticker.ThreeMonth || leg.Kind == ticker.Cash {
			return true
		}
	}
	return false
}
