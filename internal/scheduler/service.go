package scheduler

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jharlow/lme-data/internal/model"
)

// DefaultPollTick is how often each worker scans the table for due schedules.
const DefaultPollTick = 10 * time.Second

// CycleRunner executes one collection cycle for a claimed schedule.
type CycleRunner interface {
	Run(ctx context.Context, s *model.CollectionSchedule) error
}

// Service runs one worker per frequency class against the schedule table.
type Service struct {
	table    *Table
	runner   CycleRunner
	pollTick time.Duration
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
}

// NewService creates a scheduler service.
func NewService(table *Table, runner CycleRunner, pollTick time.Duration, logger *slog.Logger) *Service {
	if pollTick <= 0 {
		pollTick = DefaultPollTick
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		table:    table,
		runner:   runner,
		pollTick: pollTick,
		logger:   logger,
	}
}

// Start loads the schedule table and launches one worker per frequency class.
func (s *Service) Start(ctx context.Context) error {
	if err := s.table.Load(ctx); err != nil {
		return err
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.group, _ = errgroup.WithContext(s.ctx)

	for _, class := range model.FrequencyClasses() {
		class := class
		s.group.Go(func() error {
			s.runWorker(class)
			return nil
		})
	}

	s.logger.Info("scheduler started",
		"workers", len(model.FrequencyClasses()),
		"poll_tick", s.pollTick,
	)
	return nil
}

// Stop shuts the workers down, waiting up to the context deadline.
func (s *Service) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
		return ctx.Err()
	}
}

// Snapshot exposes the schedule table for health reporting.
func (s *Service) Snapshot() []model.CollectionSchedule {
	return s.table.Snapshot()
}

// runWorker claims and runs due schedules of one class until shutdown.
// Cycles of the same class run sequentially; classes run independently.
func (s *Service) runWorker(class model.FrequencyClass) {
	logger := s.logger.With("class", class)
	logger.Info("schedule worker started")

	ticker := time.NewTicker(s.pollTick)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			logger.Info("schedule worker stopped")
			return
		case now := <-ticker.C:
			for _, sched := range s.table.ClaimDue(class, now) {
				s.runOne(logger, sched)
			}
		}
	}
}

// runOne executes one cycle. Cycle errors are recorded and logged, never
// propagated: a failing metal must not stall its class worker.
func (s *Service) runOne(logger *slog.Logger, sched *model.CollectionSchedule) {
	start := time.Now()
	err := s.runner.Run(s.ctx, sched)
	if err != nil {
		logger.Error("collection cycle failed",
			"metal", sched.MetalCode,
			"schedule_id", sched.ID,
			"error", err,
		)
		if perr := s.table.MarkFailed(s.ctx, sched); perr != nil {
			logger.Error("failed to persist schedule status", "error", perr)
		}
		return
	}

	if perr := s.table.MarkDone(s.ctx, sched, time.Now()); perr != nil {
		logger.Error("failed to persist schedule run", "error", perr)
	}
	logger.Debug("collection cycle complete",
		"metal", sched.MetalCode,
		"duration", time.Since(start),
	)
}
