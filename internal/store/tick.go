package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jharlow/lme-data/internal/model"
)

// TickStore persists quote snapshots in the time-series database.
type TickStore struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewTickStore creates a TickStore.
func NewTickStore(db *pgxpool.Pool, logger *slog.Logger) *TickStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TickStore{db: db, logger: logger}
}

// InsertBatch writes a collection cycle's ticks in one transaction using
// pgx batching. Duplicate (spread_id, ts) rows are skipped and counted as
// conflicts; any other failure rolls back the whole cycle.
func (t *TickStore) InsertBatch(ctx context.Context, ticks []model.Tick) (inserted, conflicts int, err error) {
	if len(ticks) == 0 {
		return 0, 0, nil
	}

	tx, err := t.db.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("begin tick batch: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, tk := range ticks {
		batch.Queue(`
			INSERT INTO ticks (
				spread_id, ts, bid, ask, last_price, bid_size, ask_size,
				volume, session_volume, open_interest,
				session_date, last_update, spread_bp, contract_value
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (spread_id, ts) DO NOTHING
		`, tk.SpreadID, tk.Timestamp, tk.Bid, tk.Ask, tk.LastPrice, tk.BidSize, tk.AskSize,
			tk.Volume, tk.SessionVolume, tk.OpenInterest,
			tk.SessionDate, tk.LastUpdate, tk.SpreadBP, tk.ContractValue)
	}

	results := tx.SendBatch(ctx, batch)
	for range ticks {
		ct, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, 0, fmt.Errorf("insert tick: %w", err)
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}
	if err := results.Close(); err != nil {
		return 0, 0, fmt.Errorf("close tick batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("commit tick batch: %w", err)
	}

	inserted = len(ticks) - conflicts
	t.logger.Debug("inserted ticks", "count", inserted, "conflicts", conflicts)
	return inserted, conflicts, nil
}

// ActiveSpreadIDs returns the distinct spreads that produced at least one
// tick since the given time.
func (t *TickStore) ActiveSpreadIDs(ctx context.Context, since time.Time) ([]int64, error) {
	rows, err := t.db.Query(ctx, `
		SELECT DISTINCT spread_id FROM ticks WHERE ts >= $1
	`, since)
	if err != nil {
		return nil, fmt.Errorf("query active spread ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan spread id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
