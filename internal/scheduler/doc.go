// Package scheduler drives collection cycles from a schedule table.
//
// Each (metal, frequency class) pair has one schedule row. One worker per
// frequency class polls the in-memory table, claims due schedules, and runs
// their cycles sequentially. Successful cycles advance next_run by exactly
// one interval from completion; failed cycles leave next_run untouched so
// the schedule is retried on the next poll.
package scheduler
