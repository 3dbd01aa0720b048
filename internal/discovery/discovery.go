// Package discovery enumerates the tradeable spread universe for each metal
// by sweeping instrument searches against the gateway and registering every
// ticker that parses as a calendar spread.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jharlow/lme-data/internal/model"
	"github.com/jharlow/lme-data/internal/session"
	"github.com/jharlow/lme-data/internal/ticker"
)

// instrumentFilter restricts searches to the commodity asset class.
const instrumentFilter = "CMDT"

// SearchGateway is the slice of the session client discovery needs.
type SearchGateway interface {
	Search(ctx context.Context, query, filter string) ([]session.SearchResult, error)
}

// SpreadRegistry persists discovered spreads.
type SpreadRegistry interface {
	Upsert(ctx context.Context, sp *model.Spread) (created bool, err error)
}

// Result summarizes one discovery sweep.
type Result struct {
	Queries    int // Search patterns issued
	Candidates int // Distinct tickers returned
	Spreads    int // Candidates that parsed as spreads
	Created    int // Spreads newly registered
}

// Discoverer sweeps the instrument search space for one or more metals.
type Discoverer struct {
	gw     SearchGateway
	reg    SpreadRegistry
	logger *slog.Logger
}

// New creates a Discoverer.
func New(gw SearchGateway, reg SpreadRegistry, logger *slog.Logger) *Discoverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discoverer{gw: gw, reg: reg, logger: logger}
}

// queries builds the search patterns for a metal. A bare prefix search is
// truncated by the gateway's result cap, so the sweep also issues narrower
// per-month, 3M, cash, and per-year patterns to reach the long tail.
func queries(m model.Metal, now time.Time) []string {
	qs := []string{m.BaseTicker}
	for _, code := range ticker.MonthCodes() {
		qs = append(qs, fmt.Sprintf("%s %s", m.BaseTicker, code))
	}
	qs = append(qs,
		fmt.Sprintf("%s 03", m.BaseTicker),
		fmt.Sprintf("%s 00", m.BaseTicker),
	)
	for y := now.Year(); y <= now.Year()+2; y++ {
		qs = append(qs, fmt.Sprintf("%s %02d", m.BaseTicker, y%100))
	}
	return qs
}

// Run discovers spreads for one metal: every search pattern is issued, the
// merged results are deduplicated, and each ticker that parses as a spread
// is registered.
func (d *Discoverer) Run(ctx context.Context, m model.Metal, now time.Time) (Result, error) {
	var res Result
	seen := make(map[string]struct{})

	for _, q := range queries(m, now) {
		res.Queries++

		results, err := d.gw.Search(ctx, q, instrumentFilter)
		if err != nil {
			return res, fmt.Errorf("search %q: %w", q, err)
		}

		for _, r := range results {
			if _, ok := seen[r.Ticker]; ok {
				continue
			}
			seen[r.Ticker] = struct{}{}
			res.Candidates++

			if !ticker.IsSpread(r.Ticker) {
				continue
			}
			res.Spreads++

			sp := model.Spread{
				MetalCode:   m.Code,
				Ticker:      r.Ticker,
				NominalType: ticker.NominalType(r.Ticker),
				Description: r.Description,
			}
			created, err := d.reg.Upsert(ctx, &sp)
			if err != nil {
				return res, err
			}
			if created {
				res.Created++
				d.logger.Info("discovered spread",
					"metal", m.Code,
					"ticker", sp.Ticker,
					"nominal_type", sp.NominalType)
			}
		}
	}

	d.logger.Info("discovery sweep complete",
		"metal", m.Code,
		"queries", res.Queries,
		"candidates", res.Candidates,
		"spreads", res.Spreads,
		"created", res.Created)
	return res, nil
}
