package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jharlow/lme-data/internal/model"
)

// ScheduleStore persists collection schedules in the reference database.
// Intervals are stored as whole seconds.
type ScheduleStore struct {
	db *pgxpool.Pool
}

// NewScheduleStore creates a ScheduleStore.
func NewScheduleStore(db *pgxpool.Pool) *ScheduleStore {
	return &ScheduleStore{db: db}
}

// Schedules returns every collection schedule.
func (s *ScheduleStore) Schedules(ctx context.Context) ([]model.CollectionSchedule, error) {
	rows, err := s.db.Query(ctx, `
		SELECT schedule_id, metal_code, frequency_class, interval_seconds,
		       last_run, next_run, status
		FROM collection_schedules
		ORDER BY schedule_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query schedules: %w", err)
	}
	defer rows.Close()

	var out []model.CollectionSchedule
	for rows.Next() {
		var (
			sched   model.CollectionSchedule
			seconds int64
		)
		if err := rows.Scan(
			&sched.ID, &sched.MetalCode, &sched.Class, &seconds,
			&sched.LastRun, &sched.NextRun, &sched.Status,
		); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		sched.Interval = time.Duration(seconds) * time.Second
		out = append(out, sched)
	}
	return out, rows.Err()
}

// RecordRun persists the outcome of a successful cycle: last run, the next
// due time, and the idle status.
func (s *ScheduleStore) RecordRun(ctx context.Context, id int64, lastRun, nextRun time.Time) error {
	ct, err := s.db.Exec(ctx, `
		UPDATE collection_schedules
		SET last_run = $2, next_run = $3, status = $4
		WHERE schedule_id = $1
	`, id, lastRun, nextRun, model.StatusIdle)
	if err != nil {
		return fmt.Errorf("record run for schedule %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("record run: schedule %d not found", id)
	}
	return nil
}

// RecordStatus persists only a schedule's status. Used for failed cycles,
// which leave last_run and next_run untouched so the schedule retries on
// the next poll.
func (s *ScheduleStore) RecordStatus(ctx context.Context, id int64, status model.ScheduleStatus) error {
	ct, err := s.db.Exec(ctx, `
		UPDATE collection_schedules SET status = $2 WHERE schedule_id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("record status for schedule %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("record status: schedule %d not found", id)
	}
	return nil
}
