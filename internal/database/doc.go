// Package database provides connection pool management for the two
// PostgreSQL databases a collector uses:
//   - Reference: metals, spreads, collection schedules (relational data)
//   - Timeseries: tick snapshots (TimescaleDB hypertable in production)
package database
