// Package engine implements the mapcover coverage engine.
//
// The engine exhaustively exercises a mapping function: it extracts value
// domains from a JSON Schema, enumerates every combination of those values,
// validates each combination against the schema, and feeds the conforming
// ones through the mapping function. Every combination ends up in exactly
// one of two buckets, valid or invalid.
//
// ARCHITECTURE:
//
// Generate, then exercise:
// Combination generation is a pure in-memory enumeration (internal/combin).
// The engine walks the generated slice and produces one outcome per
// combination, either serially or on a bounded worker pool.
//
// Outcome slots:
// Outcomes land in a pre-sized slice indexed by generation position, so both
// execution modes yield the same result set in the same order. Workers never
// share a slot and never reorder results.
//
// Fault isolation:
// The mapping function is untrusted code. Errors and panics it raises become
// invalid outcomes for the offending combination and never abort the run.
// Only infrastructure failures (ResourceError) and context cancellation
// abort a run, and an aborted run yields no partial result set.
package engine
