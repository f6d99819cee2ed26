// Package store provides SQLite-backed run history for pagecheck.
//
// Every finished run is written once, together with its outcomes:
//   - Runs: scenario, timing, summary, abort stage, artifacts, report
//   - Outcomes: the recorded results of the run, in recording order
//
// # Ordering
//
// Queries are deterministic: runs are listed newest first
// (ORDER BY started_at DESC, id DESC COLLATE BINARY) and outcomes in
// recording order (ORDER BY seq ASC).
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Artifact lists are stored as canonical JSON (see ir.MarshalCanonical).
package store
