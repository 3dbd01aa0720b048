// Package model defines shared data types for the LME spread collection platform.
//
// Conventions:
//   - Dates (prompt dates, session dates): time.Time normalized to midnight UTC
//   - Timestamps: time.Time in UTC
//   - Nullable market-data fields: pointer types, nil when the vendor omits them
package model
