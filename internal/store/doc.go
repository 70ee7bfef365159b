// Package store keeps run history in SQLite.
//
// Every run is stored with its verdicts so that runs can be listed, reopened
// and compared later, and so that a single case can be traced across runs to
// spot flaky behavior of the page under test.
//
// # Tables
//
//   - runs: one row per run, with pass/fail tallies
//   - verdicts: one row per case per run, keyed by (run_id, seq)
//
// # Ordering
//
// Runs are listed newest first by started_at, then id. Run ids are UUIDv7,
// so id order matches start order. Verdicts keep run order via seq.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
