package engine

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/encoding/jsonschema"

	"mapcover/internal/schema"
)

// Validator checks combinations against the JSON Schema they were generated
// from. One Validator wraps one compiled schema.
//
// Validation enforces the schema's constraints exactly as written (enum,
// type, required), via CUE's JSON Schema support. Domain extraction is
// deliberately looser than that, so a generated combination can fail here:
// a synthetic placeholder for an unconstrained non-string property is the
// usual case.
//
// Thread-safety: a Validator is confined to a single goroutine. The engine
// builds one per worker instead of sharing.
type Validator struct {
	ctx         *cue.Context
	constraints cue.Value
}

// NewValidator compiles schemaJSON into a reusable validation value.
func NewValidator(schemaJSON []byte) (*Validator, error) {
	ctx := cuecontext.New()

	// JSON is a subset of CUE, so the schema document compiles directly.
	schemaVal := ctx.CompileBytes(schemaJSON, cue.Filename("input_schema.json"))
	if err := schemaVal.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	file, err := jsonschema.Extract(schemaVal, &jsonschema.Config{})
	if err != nil {
		return nil, fmt.Errorf("extract schema constraints: %w", err)
	}

	constraints := ctx.BuildFile(file, cue.Filename("input_schema.cue"))
	if err := constraints.Err(); err != nil {
		return nil, fmt.Errorf("build schema constraints: %w", err)
	}

	return &Validator{ctx: ctx, constraints: constraints}, nil
}

// Validate checks one combination against the schema. A nil return means
// the combination conforms. The returned error carries every violation CUE
// found; render it with ViolationTrace.
func (v *Validator) Validate(c schema.Combination) error {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode combination: %w", err)
	}

	inst := v.ctx.CompileBytes(data, cue.Filename("asset.json"))
	if err := inst.Err(); err != nil {
		return fmt.Errorf("compile combination: %w", err)
	}

	return v.constraints.Unify(inst).Validate(cue.Concrete(true))
}

// ViolationTrace renders the full multi-line detail of a validation error,
// one line per violated constraint, with schema positions where CUE has
// them.
func ViolationTrace(err error) string {
	if err == nil {
		return ""
	}
	return cueerrors.Details(err, nil)
}
