package store

import (
	"path/filepath"
	"testing"
	"time"

	"mapcover/internal/outcome"
	"mapcover/internal/schema"
)

// createTestStore creates a store backed by a temp-dir database.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run record with fixed timestamps.
func createTestRun(id string) RunRecord {
	started := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	return RunRecord{
		ID:         id,
		Mapping:    "hazus-earthquake",
		SchemaSHA:  "sha-test",
		Mode:       ModeSerial,
		Workers:    1,
		StartedAt:  started,
		FinishedAt: started.Add(250 * time.Millisecond),
	}
}

// createTestResultSet builds a small result set: two valid outcomes,
// one invalid.
func createTestResultSet() outcome.ResultSet {
	return outcome.ResultSet{
		Valid: []outcome.Valid{
			{
				Combination: schema.Combination{
					"BuildingType":  schema.String("W1"),
					"GroundFailure": schema.Bool(false),
				},
				ModelIDs: []string{"LF.W1.PC"},
			},
			{
				Combination: schema.Combination{
					"BuildingType":  schema.String("W1"),
					"GroundFailure": schema.Bool(true),
				},
				ModelIDs: []string{"LF.W1.PC", "GF.H.S", "GF.V.S"},
			},
		},
		Invalid: []outcome.Invalid{
			{
				Combination: schema.Combination{
					"BuildingType": schema.String("W2"),
				},
				Error: "missing required property",
				Trace: "GroundFailure: incomplete value",
			},
		},
	}
}
