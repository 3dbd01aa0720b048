// Package store implements persistence for spreads, ticks, and collection
// schedules.
//
// Reference data (metals, spreads, schedules) and tick snapshots live in
// separate databases, so the stores never join across them: activity-based
// queries return spread IDs from the tick store, which callers feed back
// into the spread store.
package store
