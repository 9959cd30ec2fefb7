package harness

import (
	"fmt"
	"strings"

	"mapcover/internal/engine"
	"mapcover/internal/outcome"
)

// AssertionError is one failed scenario expectation. It renders expected
// and actual side by side so a failing scenario reads without digging
// through the report.
type AssertionError struct {
	Type     string // expectation kind, e.g. "valid_count"
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "expectation failed: %s\n", e.Type)
	fmt.Fprintf(&b, "  expected: %s\n", e.Expected)
	fmt.Fprintf(&b, "  actual: %s", e.Actual)
	return b.String()
}

// EvaluateExpectations checks a report against an expect clause and
// returns one error per failed expectation. A nil slice means everything
// matched.
func EvaluateExpectations(report *engine.Report, expect ExpectClause) []error {
	var errs []error

	if expect.Total != nil && report.Total() != *expect.Total {
		errs = append(errs, countError("total_count", *expect.Total, report.Total()))
	}
	if expect.Valid != nil && len(report.Results.Valid) != *expect.Valid {
		errs = append(errs, countError("valid_count", *expect.Valid, len(report.Results.Valid)))
	}
	if expect.Invalid != nil && len(report.Results.Invalid) != *expect.Invalid {
		errs = append(errs, countError("invalid_count", *expect.Invalid, len(report.Results.Invalid)))
	}
	for _, id := range expect.ModelIDs {
		if err := assertModelID(report.Results, id); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

func countError(kind string, expected, actual int) error {
	return &AssertionError{
		Type:     kind,
		Expected: fmt.Sprintf("%d outcomes", expected),
		Actual:   fmt.Sprintf("%d outcomes", actual),
	}
}

// assertModelID checks that at least one valid outcome produced the model
// ID.
func assertModelID(rs outcome.ResultSet, id string) error {
	for _, v := range rs.Valid {
		for _, got := range v.ModelIDs {
			if got == id {
				return nil
			}
		}
	}
	return &AssertionError{
		Type:     "model_id",
		Expected: fmt.Sprintf("model ID %s in at least one valid outcome", id),
		Actual:   fmt.Sprintf("absent from all %d valid outcomes", len(rs.Valid)),
	}
}
