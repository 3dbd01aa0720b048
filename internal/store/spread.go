package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jharlow/lme-data/internal/model"
)

// spreadColumns is the scan order shared by every spread query.
const spreadColumns = `
	s.spread_id, m.code, s.ticker, s.nominal_type, s.description,
	s.leg1_date, s.leg2_date, s.leg1_label, s.leg2_label,
	s.actual_type, s.reclassified, s.classification_notes,
	s.is_active, s.created_at, s.updated_at`

// SpreadStore persists the spread universe in the reference database.
type SpreadStore struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewSpreadStore creates a SpreadStore.
func NewSpreadStore(db *pgxpool.Pool, logger *slog.Logger) *SpreadStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SpreadStore{db: db, logger: logger}
}

// Upsert inserts a discovered spread or refreshes an existing one. Identity
// is (metal, ticker); rediscovery reactivates and updates the description
// but never touches resolution columns. The spread's ID is populated, and
// created reports whether a new row was inserted.
func (s *SpreadStore) Upsert(ctx context.Context, sp *model.Spread) (created bool, err error) {
	err = s.db.QueryRow(ctx, `
		INSERT INTO spreads (metal_id, ticker, nominal_type, description, is_active, created_at, updated_at)
		SELECT m.metal_id, $2, $3, $4, TRUE, now(), now()
		FROM metals m WHERE m.code = $1
		ON CONFLICT (metal_id, ticker) DO UPDATE SET
			description = EXCLUDED.description,
			is_active   = TRUE,
			updated_at  = now()
		RETURNING spread_id, (xmax = 0)
	`, sp.MetalCode, sp.Ticker, sp.NominalType, sp.Description).Scan(&sp.ID, &created)
	if err != nil {
		return false, fmt.Errorf("upsert spread %s: %w", sp.Ticker, err)
	}
	return created, nil
}

// ActiveSpreads returns every active spread for a metal.
func (s *SpreadStore) ActiveSpreads(ctx context.Context, metalCode string) ([]model.Spread, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+spreadColumns+`
		FROM spreads s JOIN metals m ON m.metal_id = s.metal_id
		WHERE m.code = $1 AND s.is_active
		ORDER BY s.ticker
	`, metalCode)
	if err != nil {
		return nil, fmt.Errorf("query active spreads: %w", err)
	}
	return scanSpreads(rows)
}

// UnresolvedSpreads returns active spreads for a metal that have never been
// fully resolved and classified.
func (s *SpreadStore) UnresolvedSpreads(ctx context.Context, metalCode string) ([]model.Spread, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+spreadColumns+`
		FROM spreads s JOIN metals m ON m.metal_id = s.metal_id
		WHERE m.code = $1 AND s.is_active
		  AND (s.leg1_date IS NULL OR s.leg2_date IS NULL OR s.actual_type = '')
		ORDER BY s.ticker
	`, metalCode)
	if err != nil {
		return nil, fmt.Errorf("query unresolved spreads: %w", err)
	}
	return scanSpreads(rows)
}

// ByIDs returns the spreads for the given IDs, in no particular order.
func (s *SpreadStore) ByIDs(ctx context.Context, ids []int64) ([]model.Spread, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+spreadColumns+`
		FROM spreads s JOIN metals m ON m.metal_id = s.metal_id
		WHERE s.spread_id = ANY($1::bigint[])
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("query spreads by id: %w", err)
	}
	return scanSpreads(rows)
}

// UpdateResolution writes a spread's resolved leg dates and classification.
func (s *SpreadStore) UpdateResolution(ctx context.Context, sp *model.Spread) error {
	ct, err := s.db.Exec(ctx, `
		UPDATE spreads SET
			leg1_date = $2, leg2_date = $3,
			leg1_label = $4, leg2_label = $5,
			actual_type = $6, reclassified = $7, classification_notes = $8,
			updated_at = now()
		WHERE spread_id = $1
	`, sp.ID, sp.Leg1Date, sp.Leg2Date, sp.Leg1Label, sp.Leg2Label,
		sp.ActualType, sp.Reclassified, sp.ClassificationNotes)
	if err != nil {
		return fmt.Errorf("update resolution for spread %d: %w", sp.ID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("update resolution: spread %d not found", sp.ID)
	}
	return nil
}

// MarkInactiveExcept deactivates every active spread for a metal whose ID is
// not in keepIDs, and returns how many rows were deactivated.
func (s *SpreadStore) MarkInactiveExcept(ctx context.Context, metalCode string, keepIDs []int64) (int64, error) {
	if keepIDs == nil {
		keepIDs = []int64{}
	}
	ct, err := s.db.Exec(ctx, `
		UPDATE spreads s SET is_active = FALSE, updated_at = now()
		FROM metals m
		WHERE m.metal_id = s.metal_id AND m.code = $1
		  AND s.is_active
		  AND NOT (s.spread_id = ANY($2::bigint[]))
	`, metalCode, keepIDs)
	if err != nil {
		return 0, fmt.Errorf("mark inactive spreads: %w", err)
	}
	return ct.RowsAffected(), nil
}

func scanSpreads(rows pgx.Rows) ([]model.Spread, error) {
	defer rows.Close()

	var out []model.Spread
	for rows.Next() {
		var sp model.Spread
		if err := rows.Scan(
			&sp.ID, &sp.MetalCode, &sp.Ticker, &sp.NominalType, &sp.Description,
			&sp.Leg1Date, &sp.Leg2Date, &sp.Leg1Label, &sp.Leg2Label,
			&sp.ActualType, &sp.Reclassified, &sp.ClassificationNotes,
			&sp.IsActive, &sp.CreatedAt, &sp.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan spread: %w", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}
