// Package store provides the SQLite-backed archive for coverage runs.
//
// Each archived run is one row in runs plus one outcomes row per
// combination the engine exercised:
//   - Runs: run identity, configuration, counts, wall-clock bounds
//   - Outcomes: per-combination results, sequenced in result set order
//     (valid entries first, invalid entries after)
//
// Reads reproduce the stored order exactly: ListRuns orders newest
// first with the run ID as tiebreak, ListOutcomes orders by seq ASC.
//
// Combinations are stored as canonical JSON next to their
// content-addressed IDs (internal/schema MarshalCanonical and
// CombinationID), so the same combination carries the same ID across
// runs and archives can be joined on it.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Outcome rows cannot outlive their run
//
// Writes are idempotent: saving a run whose ID already exists leaves
// the archive unchanged.
package store
