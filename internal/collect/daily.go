package collect

import (
	"context"
	"fmt"
	"time"

	"github.com/jharlow/lme-data/internal/classifier"
	"github.com/jharlow/lme-data/internal/model"
	"github.com/jharlow/lme-data/internal/resolver"
	"github.com/jharlow/lme-data/internal/ticker"
)

// runDaily performs per-metal maintenance: dormant spreads are deactivated,
// the universe is rediscovered, and every active spread is re-resolved and
// reclassified against today's prompt dates.
//
// Deactivation runs before discovery so instruments the venue still lists
// are immediately reactivated by the sweep; only delisted or untraded
// spreads stay inactive.
func (r *Runner) runDaily(ctx context.Context, metal model.Metal) error {
	now := r.now()

	keepIDs, err := r.ticks.ActiveSpreadIDs(ctx, now.Add(-r.cfg.InactiveAfter))
	if err != nil {
		return err
	}
	deactivated, err := r.spreads.MarkInactiveExcept(ctx, metal.Code, keepIDs)
	if err != nil {
		return err
	}

	res, err := r.disc.Run(ctx, metal, now)
	if err != nil {
		return fmt.Errorf("discover %s universe: %w", metal.Code, err)
	}

	resolved, reclassified, err := r.resolveAll(ctx, metal, now)
	if err != nil {
		return err
	}

	r.logger.Info("daily maintenance",
		"metal", metal.Code,
		"deactivated", deactivated,
		"discovered", res.Created,
		"resolved", resolved,
		"reclassified", reclassified,
	)
	return nil
}

// resolveAll re-resolves and reclassifies the active universe against
// today's prompt dates. When the gateway cannot provide prompts,
// calendar-based estimates fill in only spreads that were never resolved:
// an estimate must not overwrite a resolution built from real prompts.
func (r *Runner) resolveAll(ctx context.Context, metal model.Metal, now time.Time) (resolved, reclassified int, err error) {
	var (
		res     *resolver.Resolver
		spreads []model.Spread
	)
	pd, perr := r.prompts.PromptDates(ctx, r.cfg.ThreeMonthTicker, r.cfg.CashTicker)
	if perr != nil {
		r.logger.Warn("prompt dates unavailable, using calendar estimates",
			"metal", metal.Code, "error", perr)
		res = resolver.NewEstimated(now, r.cal)
		spreads, err = r.spreads.UnresolvedSpreads(ctx, metal.Code)
	} else {
		res = resolver.New(pd.ThreeMonth, pd.Cash, r.cal)
		spreads, err = r.spreads.ActiveSpreads(ctx, metal.Code)
	}
	if err != nil {
		return 0, 0, err
	}
	cls := classifier.New(res, r.cal)

	for i := range spreads {
		sp := &spreads[i]

		legs, perr := ticker.ParseLegs(sp.Ticker)
		if perr != nil {
			r.logger.Warn("unparseable spread ticker", "ticker", sp.Ticker, "error", perr)
			continue
		}

		rn := res.ResolvePair(legs)
		cl := cls.Classify(rn.Leg1Date, rn.Leg2Date, sp.NominalType)

		leg1, leg2 := rn.Leg1Date, rn.Leg2Date
		sp.Leg1Date, sp.Leg2Date = &leg1, &leg2
		sp.Leg1Label, sp.Leg2Label = rn.Leg1Label, rn.Leg2Label
		sp.ActualType = cl.ActualType
		sp.Reclassified = cl.Reclassified
		sp.ClassificationNotes = cl.Notes
		if rn.Estimated {
			sp.ClassificationNotes = appendNote(sp.ClassificationNotes, "resolved with estimated prompt dates")
		}

		if err := r.spreads.UpdateResolution(ctx, sp); err != nil {
			return resolved, reclassified, err
		}
		resolved++

		if cl.Reclassified {
			reclassified++
			r.logger.Info("spread reclassified",
				"ticker", sp.Ticker,
				"nominal_type", sp.NominalType,
				"actual_type", sp.ActualType,
				"notes", sp.ClassificationNotes,
			)
		}
	}
	return resolved, reclassified, nil
}

func appendNote(notes, add string) string {
	if notes == "" {
		return add
	}
	return notes + "; " + add
}
