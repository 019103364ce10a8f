// Package engine derives display state from organizer records: urgency of
// due dates, diary streaks, supplement run-out forecasts, task ordering and
// task buckets.
//
// Every function is pure. The reference time is always a parameter, so one
// derivation pass can share a single instant across all calls.
package engine
