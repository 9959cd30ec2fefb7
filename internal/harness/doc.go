// Package harness runs YAML-defined coverage scenarios end to end.
//
// A scenario names a mapping module, supplies an input schema (inline,
// from a file, or the module's bundled one), and states what the run must
// produce: combination counts and model-ID spot checks. The harness runs
// the scenario through the real engine with a fixed run ID, so the same
// scenario always produces the same report.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: fruit_serial
//	description: "Two-property schema through a scripted mapping"
//	mapping: fruit-stand
//	schema: |
//	  {
//	      "properties": {
//	          "Fruit": {"type": "string", "enum": ["Apple", "Banana"]},
//	          "Crisp": {"type": "boolean"}
//	      },
//	      "required": ["Fruit"]
//	  }
//	expect:
//	  total: 6
//	  valid: 3
//	  invalid: 3
//	  model_ids:
//	    - FRU.1
//
// Unknown YAML fields are rejected, so a typo fails the load instead of
// silently dropping an expectation.
//
// # Golden Files
//
// RunWithGolden additionally compares the serialized result set against
// testdata/golden/<name>.golden. Regenerate golden files with:
//
//	go test ./internal/harness -update
package harness
