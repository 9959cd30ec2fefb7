package coverage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"mapcover/internal/outcome"
)

// Status records whether one fragility model ID from the database appears
// anywhere in the valid results.
type Status struct {
	FragilityModelID string `json:"fragility_model_id"`
	IsMapped         bool   `json:"is_mapped"`
}

// Summary aggregates a fragility cross-reference. The ID lists keep
// database order.
type Summary struct {
	TotalFragilityIDs int      `json:"total_fragility_ids"`
	Mapped            int      `json:"mapped"`
	Unmapped          int      `json:"unmapped"`
	MappedIDs         []string `json:"mapped_ids"`
	UnmappedIDs       []string `json:"unmapped_ids"`
}

// CheckFragilityMapping reads fragility model IDs from a CSV database (first
// column, header row skipped) and reports for each whether any valid
// combination mapped to it.
//
// An empty or header-only database yields an empty status list, not an
// error.
func CheckFragilityMapping(valid []outcome.Valid, db io.Reader) ([]Status, Summary, error) {
	mapped := ModelIDCounts(valid)

	r := csv.NewReader(db)
	// Fragility databases carry a varying number of metadata columns; only
	// the first one matters here.
	r.FieldsPerRecord = -1

	statuses := []Status{}
	summary := Summary{MappedIDs: []string{}, UnmappedIDs: []string{}}

	header := true
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, Summary{}, fmt.Errorf("read fragility database: %w", err)
		}
		if header {
			header = false
			continue
		}

		id := row[0]
		_, isMapped := mapped[id]
		statuses = append(statuses, Status{FragilityModelID: id, IsMapped: isMapped})
		if isMapped {
			summary.MappedIDs = append(summary.MappedIDs, id)
		} else {
			summary.UnmappedIDs = append(summary.UnmappedIDs, id)
		}
	}

	summary.TotalFragilityIDs = len(statuses)
	summary.Mapped = len(summary.MappedIDs)
	summary.Unmapped = len(summary.UnmappedIDs)
	return statuses, summary, nil
}
