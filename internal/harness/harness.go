package harness

import (
	"context"
	"fmt"
	"os"

	"mapcover/internal/engine"
	"mapcover/internal/mapping"
	"mapcover/internal/testutil"
)

// Harness runs scenarios through the real coverage engine.
//
// Mapping modules come from the registry handed to New; scenarios name
// them and the harness injects them. Run IDs are fixed per scenario, so
// repeated runs of the same scenario produce identical reports.
type Harness struct {
	registry *mapping.Registry
}

// New creates a harness resolving mappings from registry. A nil registry
// means the built-in modules.
func New(registry *mapping.Registry) *Harness {
	if registry == nil {
		registry = mapping.Builtins()
	}
	return &Harness{registry: registry}
}

// Result is the outcome of one scenario execution.
type Result struct {
	// Pass indicates overall scenario success: every expectation matched.
	Pass bool

	// Report is the engine's coverage report. Always set when Run returns
	// no error, whether or not the scenario passed.
	Report *engine.Report

	// Errors contains one message per failed expectation. Empty when
	// Pass is true.
	Errors []string
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

// Run executes a scenario and evaluates its expectations.
//
// The error return covers runs that could not produce a report: an
// unregistered mapping, an unreadable schema, or an engine abort. Failed
// expectations are not errors; they land in the result.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	mod, ok := h.registry.Lookup(scenario.Mapping)
	if !ok {
		return nil, fmt.Errorf("scenario %q: mapping %q is not registered", scenario.Name, scenario.Mapping)
	}

	schemaJSON, err := resolveSchema(scenario, mod)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	opts := []engine.EngineOption{
		engine.WithMappingName(mod.Name),
		engine.WithParallel(scenario.Parallel),
		engine.WithRunIDGenerator(testutil.NewFixedRunIDGenerator(scenario.RunID)),
	}
	if scenario.Workers > 0 {
		opts = append(opts, engine.WithWorkers(scenario.Workers))
	}

	report, err := engine.New(mod.Fn, opts...).Run(ctx, schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	result := &Result{Pass: true, Report: report, Errors: []string{}}
	for _, expErr := range EvaluateExpectations(report, scenario.Expect) {
		result.AddError(expErr.Error())
	}
	return result, nil
}

// resolveSchema picks the schema document for a scenario: inline first,
// then the schema file, then the module's bundled schema.
func resolveSchema(scenario *Scenario, mod mapping.Module) ([]byte, error) {
	switch {
	case scenario.Schema != "":
		return []byte(scenario.Schema), nil
	case scenario.SchemaFile != "":
		data, err := os.ReadFile(scenario.SchemaFile)
		if err != nil {
			return nil, fmt.Errorf("read schema file: %w", err)
		}
		return data, nil
	case mod.Schema != nil:
		return mod.Schema, nil
	default:
		return nil, fmt.Errorf("no schema configured and mapping %q bundles none", mod.Name)
	}
}
