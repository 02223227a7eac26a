// Package store provides SQLite-backed storage for probe runs.
//
// The log is append-only:
//   - runs: one row per scenario execution or CLI session
//   - probes: one row per executed operation, keyed by content-addressed ID
//
// Writes are idempotent (ON CONFLICT DO NOTHING), so re-recording a replayed
// run is a no-op. Reads order by seq ASC, id ASC COLLATE BINARY, so results
// are identical across replays.
//
// Arguments and results are stored as RFC 8785 canonical JSON produced by
// package record.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package store
