package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one end-to-end coverage run and what it must produce.
type Scenario struct {
	// Name uniquely identifies this scenario. It doubles as the default
	// golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Mapping is the registry name of the mapping module to exercise.
	Mapping string `yaml:"mapping"`

	// Schema is an inline JSON Schema document. Takes precedence over
	// SchemaFile and the module's bundled schema.
	Schema string `yaml:"schema,omitempty"`

	// SchemaFile is a JSON Schema path, resolved relative to the
	// scenario file. Used when Schema is empty; with both empty the run
	// falls back to the mapping module's bundled schema.
	SchemaFile string `yaml:"schema_file,omitempty"`

	// Parallel selects worker-pool execution.
	Parallel bool `yaml:"parallel,omitempty"`

	// Workers bounds the pool in parallel mode. Zero means one worker
	// per CPU.
	Workers int `yaml:"workers,omitempty"`

	// RunID is the fixed run ID stamped on the report. Defaults to
	// "test-run-default", which keeps golden files stable.
	RunID string `yaml:"run_id,omitempty"`

	// Expect states what the run must produce.
	Expect ExpectClause `yaml:"expect,omitempty"`

	// Golden names the golden file for result-set comparison, without
	// extension. Empty means the scenario's own name. Comparison only
	// happens under RunWithGolden.
	Golden string `yaml:"golden,omitempty"`
}

// ExpectClause specifies expected run results. Unset counts are not
// checked.
type ExpectClause struct {
	// Total is the expected combination count.
	Total *int `yaml:"total,omitempty"`

	// Valid is the expected valid-bucket size.
	Valid *int `yaml:"valid,omitempty"`

	// Invalid is the expected invalid-bucket size.
	Invalid *int `yaml:"invalid,omitempty"`

	// ModelIDs lists model IDs that must each appear in at least one
	// valid outcome.
	ModelIDs []string `yaml:"model_ids,omitempty"`
}

// Empty reports whether the clause checks nothing.
func (e ExpectClause) Empty() bool {
	return e.Total == nil && e.Valid == nil && e.Invalid == nil && len(e.ModelIDs) == 0
}

// LoadScenario reads and parses a scenario YAML file. A relative
// SchemaFile is resolved against the scenario file's directory. Unknown
// fields, missing required fields, and a missing schema file all fail
// here, before anything runs.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if scenario.SchemaFile != "" && !filepath.IsAbs(scenario.SchemaFile) {
		scenario.SchemaFile = filepath.Join(filepath.Dir(path), scenario.SchemaFile)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and consistent.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Mapping == "" {
		return fmt.Errorf("mapping is required")
	}
	if s.Schema != "" && s.SchemaFile != "" {
		return fmt.Errorf("schema and schema_file are mutually exclusive")
	}
	if s.SchemaFile != "" {
		if _, err := os.Stat(s.SchemaFile); os.IsNotExist(err) {
			return fmt.Errorf("schema file not found: %s", s.SchemaFile)
		}
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must be non-negative")
	}
	if s.Workers > 0 && !s.Parallel {
		return fmt.Errorf("workers is only meaningful with parallel: true")
	}
	if s.Expect.Empty() && s.Golden == "" {
		return fmt.Errorf("expect must check at least one of total, valid, invalid, model_ids, or a golden must be named")
	}
	return nil
}
