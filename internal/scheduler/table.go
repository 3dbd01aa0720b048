package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jharlow/lme-data/internal/model"
)

// Store is the persistence surface the scheduler needs.
type Store interface {
	Schedules(ctx context.Context) ([]model.CollectionSchedule, error)
	RecordRun(ctx context.Context, id int64, lastRun, nextRun time.Time) error
	RecordStatus(ctx context.Context, id int64, status model.ScheduleStatus) error
}

// Table is the in-memory schedule table. All transitions happen under its
// lock; the database is write-through for run outcomes.
type Table struct {
	mu        sync.Mutex
	schedules map[int64]*model.CollectionSchedule

	store  Store
	logger *slog.Logger
}

// NewTable creates an empty schedule table.
func NewTable(store Store, logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.Default()
	}
	return &Table{
		schedules: make(map[int64]*model.CollectionSchedule),
		store:     store,
		logger:    logger,
	}
}

// Load replaces the table contents from the database. Schedules that were
// left in the running state by a crashed collector are reset to idle so
// they become claimable again.
func (t *Table) Load(ctx context.Context) error {
	scheds, err := t.store.Schedules(ctx)
	if err != nil {
		return fmt.Errorf("load schedules: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.schedules = make(map[int64]*model.CollectionSchedule, len(scheds))
	for i := range scheds {
		s := scheds[i]
		if s.Status == model.StatusRunning {
			s.Status = model.StatusIdle
		}
		t.schedules[s.ID] = &s
	}

	t.logger.Info("schedule table loaded", "count", len(t.schedules))
	return nil
}

// ClaimDue atomically claims every due schedule of a frequency class,
// marking each running so no other worker can claim it.
func (t *Table) ClaimDue(class model.FrequencyClass, now time.Time) []*model.CollectionSchedule {
	t.mu.Lock()
	defer t.mu.Unlock()

	var due []*model.CollectionSchedule
	for _, s := range t.schedules {
		if s.Class == class && s.Due(now) {
			s.Status = model.StatusRunning
			due = append(due, s)
		}
	}
	return due
}

// MarkDone records a successful cycle: the next due time is one interval
// from completion, not from the previous due time.
func (t *Table) MarkDone(ctx context.Context, s *model.CollectionSchedule, now time.Time) error {
	t.mu.Lock()
	s.LastRun = now
	s.NextRun = now.Add(s.Interval)
	s.Status = model.StatusIdle
	lastRun, nextRun := s.LastRun, s.NextRun
	t.mu.Unlock()

	if err := t.store.RecordRun(ctx, s.ID, lastRun, nextRun); err != nil {
		return fmt.Errorf("persist run for schedule %d: %w", s.ID, err)
	}
	return nil
}

// MarkFailed records a failed cycle. last_run and next_run stay untouched,
// so the schedule is immediately due again on the next poll.
func (t *Table) MarkFailed(ctx context.Context, s *model.CollectionSchedule) error {
	t.mu.Lock()
	s.Status = model.StatusErrored
	t.mu.Unlock()

	if err := t.store.RecordStatus(ctx, s.ID, model.StatusErrored); err != nil {
		return fmt.Errorf("persist status for schedule %d: %w", s.ID, err)
	}
	return nil
}

// Snapshot returns a copy of every schedule, for health reporting.
func (t *Table) Snapshot() []model.CollectionSchedule {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]model.CollectionSchedule, 0, len(t.schedules))
	for _, s := range t.schedules {
		out = append(out, *s)
	}
	return out
}
