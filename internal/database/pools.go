package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jharlow/lme-data/internal/config"
)

// Pools holds database connections for a collector.
type Pools struct {
	// Reference holds metals, spreads, and collection schedules.
	Reference *pgxpool.Pool

	// Timeseries holds tick snapshots.
	Timeseries *pgxpool.Pool
}

// NewPools creates connection pools for both databases.
func NewPools(ctx context.Context, cfg config.DatabaseConfig) (*Pools, error) {
	ref, err := Connect(ctx, cfg.Reference)
	if err != nil {
		return nil, fmt.Errorf("connect reference: %w", err)
	}

	ts, err := Connect(ctx, cfg.Timeseries)
	if err != nil {
		ref.Close()
		return nil, fmt.Errorf("connect timeseries: %w", err)
	}

	return &Pools{
		Reference:  ref,
		Timeseries: ts,
	}, nil
}

// Connect creates a single connection pool.
func Connect(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	connStr := BuildConnString(cfg)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Close closes both connection pools.
func (p *Pools) Close() {
	if p.Reference != nil {
		p.Reference.Close()
	}
	if p.Timeseries != nil {
		p.Timeseries.Close()
	}
}

// Ping verifies both connections are healthy.
func (p *Pools) Ping(ctx context.Context) error {
	if err := p.Reference.Ping(ctx); err != nil {
		return fmt.Errorf("ping reference: %w", err)
	}
	if err := p.Timeseries.Ping(ctx); err != nil {
		return fmt.Errorf("ping timeseries: %w", err)
	}
	return nil
}
