// Package outcome models the classification a coverage run assigns to each
// generated combination, and persists result sets as JSON documents.
package outcome

import (
	"fmt"

	"mapcover/internal/schema"
)

// Outcome is the classification of one exercised combination.
//
// The interface is sealed: the only implementations are Valid and Invalid.
// Every combination produces exactly one of the two; there is no third state
// and no dropped combination.
type Outcome interface {
	outcome()
}

// Valid records a combination that passed schema validation and was
// classified by the mapping function, together with every model identifier
// the function assigned to it.
type Valid struct {
	Combination schema.Combination `json:"combination"`
	ModelIDs    []string           `json:"model_ids"`
}

func (Valid) outcome() {}

// Invalid records a combination that failed schema validation or broke the
// mapping function. Error is the human-readable failure message; Trace
// carries the diagnostic detail (validator output, error chain, or stack).
type Invalid struct {
	Combination schema.Combination `json:"combination"`
	Error       string             `json:"error"`
	Trace       string             `json:"trace"`
}

func (Invalid) outcome() {}

// ResultSet is the partition of a run's outcomes into the valid and invalid
// buckets. Each bucket preserves generation order.
type ResultSet struct {
	Valid   []Valid   `json:"valid"`
	Invalid []Invalid `json:"invalid"`
}

// Partition splits outcomes into a ResultSet by tag. Relative order within
// each bucket matches the input order. Both buckets are non-nil even when
// empty, so downstream JSON serialization yields [] rather than null.
func Partition(outcomes []Outcome) ResultSet {
	rs := ResultSet{Valid: []Valid{}, Invalid: []Invalid{}}
	for _, o := range outcomes {
		switch v := o.(type) {
		case Valid:
			rs.Valid = append(rs.Valid, v)
		case Invalid:
			rs.Invalid = append(rs.Invalid, v)
		default:
			panic(fmt.Sprintf("outcome: unknown type %T", o))
		}
	}
	return rs
}

// Total returns the number of outcomes across both buckets.
func (rs ResultSet) Total() int {
	return len(rs.Valid) + len(rs.Invalid)
}
