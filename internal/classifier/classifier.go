// Package classifier derives the authoritative spread type from resolved
// leg dates. The derived type may contradict the label implied by the raw
// ticker; such spreads are flagged as reclassified.
package classifier

import (
	"time"

	"github.com/jharlow/lme-data/internal/calendar"
	"github.com/jharlow/lme-data/internal/model"
	"github.com/jharlow/lme-data/internal/resolver"
)

// ToleranceDays is the window within which a leg date counts as matching
// the cash or 3M benchmark prompt.
const ToleranceDays = 2

// Classifier labels resolved leg dates against one prompt-date snapshot.
type Classifier struct {
	res *resolver.Resolver
	cal *calendar.HolidayCalendar
}

// New creates a Classifier sharing the resolver's prompt snapshot.
func New(res *resolver.Resolver, cal *calendar.HolidayCalendar) *Classifier {
	return &Classifier{res: res, cal: cal}
}

// ClassifyLeg returns exactly one leg type for any date. Checks run in
// fixed order: Cash, then 3M, then third Wednesday, then Odd. A date inside
// both prompt windows classifies as Cash.
func (c *Classifier) ClassifyLeg(d time.Time) model.LegType {
	d = calendar.Date(d)

	if withinDays(d, c.res.CashPrompt, ToleranceDays) {
		return model.LegCash
	}
	if withinDays(d, c.res.ThreeMonthPrompt, ToleranceDays) {
		return model.LegThreeMonth
	}
	if d.Equal(c.cal.ThirdWednesdayRolled(d.Year(), d.Month())) {
		return model.LegThirdWednesday
	}
	return model.LegOdd
}

// Classification is the derived spread type for one resolved leg pair.
type Classification struct {
	Leg1         model.LegType
	Leg2         model.LegType
	ActualType   string // e.g. "Cash-3W"
	Reclassified bool   // Set against the nominal type by Classify
	Notes        string // Human-readable note for known edge cases
}

// Classify derives the actual spread type from both leg dates and compares
// it against the nominal type parsed from the ticker.
func (c *Classifier) Classify(leg1, leg2 time.Time, nominalType string) Classification {
	cl := Classification{
		Leg1: c.ClassifyLeg(leg1),
		Leg2: c.ClassifyLeg(leg2),
	}
	cl.ActualType = string(cl.Leg1) + "-" + string(cl.Leg2)
	cl.Reclassified = NormalizeNominal(nominalType) != cl.ActualType

	// Recurring edge case: explicit-date tickers that are really a cash
	// versus third-Wednesday spread (e.g. "250722-250820").
	if cl.Reclassified && nominalType == "Odd-Odd" &&
		cl.Leg1 == model.LegCash && cl.Leg2 == model.LegThirdWednesday {
		cl.Notes = "cash/3W spread quoted in date notation"
	}

	return cl
}

// NormalizeNominal maps historical aliases of a nominal type onto the
// leg-classification scheme used by ActualType. "Calendar" and "3M-3W" are
// distinct nominal labels over the same 3W legs.
func NormalizeNominal(nominal string) string {
	switch nominal {
	case "Calendar":
		return "3W-3W"
	case "Cash-Month":
		return "Cash-3W"
	case "Month-3M":
		return "3W-3M"
	default:
		return nominal
	}
}

// withinDays reports whether two dates are at most n calendar days apart.
func withinDays(a, b time.Time, n int) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= time.Duration(n)*24*time.Hour
}
