package testutil

import (
	"fmt"
	"sync"
)

// FixedRunIDGenerator generates the same run ID every time.
//
// This enables deterministic test execution and golden snapshot comparison:
// the same scenario with the same FixedRunIDGenerator produces
// byte-identical reports.
//
// Thread-safety: FixedRunIDGenerator is stateless and safe for concurrent
// use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a generator that always returns id.
//
// If id is empty, Generate() returns "test-run-default".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run ID.
//
// Implements engine.RunIDGenerator.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}

// SequenceRunIDGenerator generates "test-run-000001", "test-run-000002",
// and so on. Use it when a test performs several runs that must stay
// distinguishable, e.g. store round-trips.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex.
type SequenceRunIDGenerator struct {
	mu sync.Mutex
	n  int
}

// NewSequenceRunIDGenerator creates a sequence generator starting at 1.
func NewSequenceRunIDGenerator() *SequenceRunIDGenerator {
	return &SequenceRunIDGenerator{}
}

// Generate returns the next run ID in the sequence.
//
// Implements engine.RunIDGenerator.
func (g *SequenceRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("test-run-%06d", g.n)
}
