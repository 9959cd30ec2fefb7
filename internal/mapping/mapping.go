// Package mapping defines the contract between the coverage engine and the
// mapping functions it exercises, plus the built-in mapping modules.
//
// A mapping function is untrusted external logic from the engine's point of
// view: it receives an asset description and classifies it into
// performance-model components. The engine only ever reads the component
// labels; everything else the function returns passes through opaquely.
package mapping

import (
	"fmt"

	"mapcover/internal/schema"
)

// GeneralInfo is the general-information substructure of an asset: a flat
// mapping of schema property names to scalar values. Under the coverage
// engine it is exactly one generated combination.
type GeneralInfo map[string]schema.Value

// Has reports whether the field is present.
func (g GeneralInfo) Has(key string) bool {
	_, ok := g[key]
	return ok
}

// String returns the named field as a string label.
func (g GeneralInfo) String(key string) (string, error) {
	v, ok := g[key]
	if !ok {
		return "", &MissingFieldError{Field: key}
	}
	s, ok := v.(schema.String)
	if !ok {
		return "", fmt.Errorf("general information field %q is not a string (got %s)", key, schema.Display(v))
	}
	return string(s), nil
}

// Bool returns the named field as a boolean.
func (g GeneralInfo) Bool(key string) (bool, error) {
	v, ok := g[key]
	if !ok {
		return false, &MissingFieldError{Field: key}
	}
	b, ok := v.(schema.Bool)
	if !ok {
		return false, fmt.Errorf("general information field %q is not a boolean (got %s)", key, schema.Display(v))
	}
	return bool(b), nil
}

// MarshalJSON implements json.Marshaler (sorted keys, strict values).
func (g GeneralInfo) MarshalJSON() ([]byte, error) {
	return schema.Combination(g).MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler (strict values).
func (g *GeneralInfo) UnmarshalJSON(data []byte) error {
	var c schema.Combination
	if err := c.UnmarshalJSON(data); err != nil {
		return err
	}
	*g = GeneralInfo(c)
	return nil
}

// MissingFieldError reports a field a mapping function needed but the asset
// did not carry. Under the coverage engine this is the normal way an
// optional-absent combination lands in the invalid bucket.
type MissingFieldError struct {
	Field string
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("general information is missing %q", e.Field)
}

// Asset is the envelope handed to a mapping function. The engine wraps each
// generated combination as {"GeneralInformation": combination}.
type Asset struct {
	GeneralInformation GeneralInfo `json:"GeneralInformation"`
}

// LossParams is the damage/loss parameter structure a mapping function
// returns. Opaque to the engine.
type LossParams map[string]any

// Assignment is a mapping function's result: the pass-through general
// information, the loss parameters, and the component table whose labels
// are the model identifiers the engine reads.
type Assignment struct {
	GeneralInfo GeneralInfo
	LossParams  LossParams
	Components  *ComponentTable
}

// Func is the mapping-function contract. Implementations signal failure for
// inputs they cannot classify via the error return; the engine converts
// both errors and panics into invalid outcomes.
type Func func(asset Asset) (*Assignment, error)
