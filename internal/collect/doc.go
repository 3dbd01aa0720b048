// Package collect implements the per-cycle collection pipelines the
// scheduler dispatches.
//
// REALTIME cycles snapshot only spreads that ticked recently, REGULAR
// cycles snapshot the full active universe, and DAILY cycles run
// maintenance: dormant-spread deactivation, discovery, prompt refresh,
// and leg resolution with reclassification.
package collect
