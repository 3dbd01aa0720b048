package collect

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jharlow/lme-data/internal/calendar"
	"github.com/jharlow/lme-data/internal/discovery"
	"github.com/jharlow/lme-data/internal/fetch"
	"github.com/jharlow/lme-data/internal/model"
	"github.com/jharlow/lme-data/internal/session"
)

// SpreadStore is the reference-database surface the runner needs.
type SpreadStore interface {
	ActiveSpreads(ctx context.Context, metalCode string) ([]model.Spread, error)
	UnresolvedSpreads(ctx context.Context, metalCode string) ([]model.Spread, error)
	ByIDs(ctx context.Context, ids []int64) ([]model.Spread, error)
	UpdateResolution(ctx context.Context, sp *model.Spread) error
	MarkInactiveExcept(ctx context.Context, metalCode string, keepIDs []int64) (int64, error)
}

// TickStore is the time-series surface the runner needs.
type TickStore interface {
	InsertBatch(ctx context.Context, ticks []model.Tick) (inserted, conflicts int, err error)
	ActiveSpreadIDs(ctx context.Context, since time.Time) ([]int64, error)
}

// BatchFetcher retrieves field maps for a ticker universe.
type BatchFetcher interface {
	FetchAll(ctx context.Context, tickers, fields []string) (map[string]session.FieldMap, []session.SecurityError, error)
}

// PromptSource retrieves the live benchmark prompt dates.
type PromptSource interface {
	PromptDates(ctx context.Context, threeMonthTicker, cashTicker string) (session.PromptDates, error)
}

// Discoverer sweeps the instrument search space for one metal.
type Discoverer interface {
	Run(ctx context.Context, m model.Metal, now time.Time) (discovery.Result, error)
}

// Config holds the runner's collection knobs.
type Config struct {
	ActiveLookback   time.Duration // Tick recency window for REALTIME cycles
	InactiveAfter    time.Duration // Dormancy window before a spread is deactivated
	ThreeMonthTicker string        // Benchmark instrument for the 3M prompt
	CashTicker       string        // Benchmark instrument for the cash prompt
}

// Runner executes collection cycles. It implements scheduler.CycleRunner.
type Runner struct {
	cfg     Config
	spreads SpreadStore
	ticks   TickStore
	fetcher BatchFetcher
	prompts PromptSource
	disc    Discoverer
	cal     *calendar.HolidayCalendar
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock overrides the runner's time source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a Runner.
func NewRunner(
	cfg Config,
	spreads SpreadStore,
	ticks TickStore,
	fetcher BatchFetcher,
	prompts PromptSource,
	disc Discoverer,
	cal *calendar.HolidayCalendar,
	opts ...Option,
) *Runner {
	r := &Runner{
		cfg:     cfg,
		spreads: spreads,
		ticks:   ticks,
		fetcher: fetcher,
		prompts: prompts,
		disc:    disc,
		cal:     cal,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run dispatches one cycle by the schedule's frequency class.
func (r *Runner) Run(ctx context.Context, s *model.CollectionSchedule) error {
	metal, ok := model.MetalByCode(s.MetalCode)
	if !ok {
		return fmt.Errorf("unknown metal %q in schedule %d", s.MetalCode, s.ID)
	}

	switch s.Class {
	case model.ClassRealtime:
		return r.runRealtime(ctx, metal)
	case model.ClassRegular:
		return r.runRegular(ctx, metal)
	case model.ClassDaily:
		return r.runDaily(ctx, metal)
	default:
		return fmt.Errorf("unknown frequency class %q in schedule %d", s.Class, s.ID)
	}
}

// runRealtime snapshots only spreads that ticked within the lookback window.
func (r *Runner) runRealtime(ctx context.Context, metal model.Metal) error {
	now := r.now()

	ids, err := r.ticks.ActiveSpreadIDs(ctx, now.Add(-r.cfg.ActiveLookback))
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		r.logger.Debug("no recently active spreads", "metal", metal.Code)
		return nil
	}

	spreads, err := r.spreads.ByIDs(ctx, ids)
	if err != nil {
		return err
	}
	return r.collectTicks(ctx, metal, filterMetal(spreads, metal.Code), now)
}

// runRegular snapshots the full active universe for a metal.
func (r *Runner) runRegular(ctx context.Context, metal model.Metal) error {
	now := r.now()

	spreads, err := r.spreads.ActiveSpreads(ctx, metal.Code)
	if err != nil {
		return err
	}
	return r.collectTicks(ctx, metal, spreads, now)
}

// collectTicks fetches one snapshot per spread and persists the active ones.
func (r *Runner) collectTicks(ctx context.Context, metal model.Metal, spreads []model.Spread, now time.Time) error {
	if len(spreads) == 0 {
		return nil
	}

	tickers := make([]string, len(spreads))
	for i, sp := range spreads {
		tickers[i] = sp.Ticker
	}

	data, secErrs, err := r.fetcher.FetchAll(ctx, tickers, fetch.DefaultFields())
	if err != nil {
		return fmt.Errorf("fetch %s universe: %w", metal.Code, err)
	}
	for _, se := range secErrs {
		r.logger.Warn("security error", "metal", metal.Code, "ticker", se.Ticker, "code", se.Code)
	}

	var ticks []model.Tick
	for _, sp := range spreads {
		fm, ok := data[sp.Ticker]
		if !ok || !fetch.Active(fm) {
			continue
		}
		ticks = append(ticks, fetch.BuildTick(sp.ID, fm, now, now))
	}

	inserted, conflicts, err := r.ticks.InsertBatch(ctx, ticks)
	if err != nil {
		return fmt.Errorf("persist %s ticks: %w", metal.Code, err)
	}

	r.logger.Info("collection cycle",
		"metal", metal.Code,
		"universe", len(spreads),
		"active", len(ticks),
		"inserted", inserted,
		"conflicts", conflicts,
	)
	return nil
}

func filterMetal(spreads []model.Spread, metalCode string) []model.Spread {
	out := spreads[:0]
	for _, sp := range spreads {
		if sp.MetalCode == metalCode && sp.IsActive {
			out = append(out, sp)
		}
	}
	return out
}
