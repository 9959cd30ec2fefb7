package store

import (
	"time"

	"mapcover/internal/schema"
)

// Run modes recorded in the runs table.
const (
	ModeSerial   = "serial"
	ModeParallel = "parallel"
)

// Outcome tags recorded in the outcomes table.
const (
	TagValid   = "valid"
	TagInvalid = "invalid"
)

// RunRecord is one archived coverage run.
//
// Total, ValidCount, and InvalidCount are derived from the result set
// when the run is saved; values set by the caller are ignored.
type RunRecord struct {
	ID           string
	Mapping      string
	SchemaSHA    string
	Mode         string
	Workers      int
	Total        int
	ValidCount   int
	InvalidCount int
	StartedAt    time.Time
	FinishedAt   time.Time
}

// OutcomeRecord is one archived combination outcome.
//
// ModelIDs is populated for valid rows; Error and Trace for invalid
// rows. Seq is the row's position in result set order.
type OutcomeRecord struct {
	RunID         string
	Seq           int64
	CombinationID string
	Tag           string
	Combination   schema.Combination
	ModelIDs      []string
	Error         string
	Trace         string
}
