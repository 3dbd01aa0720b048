// Package fetch batches reference-data requests against the market-data
// gateway and converts the returned field maps into tick snapshots.
//
// The gateway rejects oversized requests and throttles aggressive callers,
// so FetchAll splits the ticker universe into fixed-size chunks and paces
// them with a rate limiter. Per-ticker security errors are collected and
// reported; they never abort the remainder of a batch.
package fetch
