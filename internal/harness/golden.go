package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"mapcover/internal/outcome"
)

// ResultSnapshot is the golden-file form of a scenario run: the report
// fields that are stable across runs plus the full partitioned result
// set. Wall-clock fields are left out; the fixed run ID keeps the rest
// byte-stable.
type ResultSnapshot struct {
	ScenarioName string            `json:"scenario_name"`
	RunID        string            `json:"run_id"`
	Mapping      string            `json:"mapping"`
	Results      outcome.ResultSet `json:"results"`
}

// RunWithGolden executes a scenario and compares the serialized result
// set against its golden file under testdata/golden. The golden name is
// scenario.Golden, falling back to the scenario name.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Test failure (via goldie) occurs when the result set does not match the
// golden file. The error return covers execution failures only.
func (h *Harness) RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := h.Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}

	snapshot := ResultSnapshot{
		ScenarioName: scenario.Name,
		RunID:        result.Report.RunID,
		Mapping:      result.Report.Mapping,
		Results:      result.Report.Results,
	}
	data, err := marshalSnapshot(snapshot)
	if err != nil {
		return nil, err
	}

	name := scenario.Golden
	if name == "" {
		name = scenario.Name
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return result, nil
}

// marshalSnapshot encodes a snapshot the way the sink writes result
// files: four-space indent, no HTML escaping.
func marshalSnapshot(s ResultSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
