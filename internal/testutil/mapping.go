// Package testutil provides deterministic test doubles shared across
// packages: scripted mapping functions and predictable run ID generators.
package testutil

import (
	"errors"
	"fmt"

	"mapcover/internal/mapping"
	"mapcover/internal/schema"
)

// StaticMapping returns a mapping function that assigns the same model IDs
// to every asset. The assignment carries the asset's general information
// through unchanged.
func StaticMapping(modelIDs ...string) mapping.Func {
	return func(asset mapping.Asset) (*mapping.Assignment, error) {
		comp := mapping.NewComponentTable()
		for _, id := range modelIDs {
			comp.Add(id, mapping.Component{Units: "ea", Location: 1, Direction: 1, Theta0: 1, Family: "N/A"})
		}
		return &mapping.Assignment{
			GeneralInfo: asset.GeneralInformation,
			Components:  comp,
		}, nil
	}
}

// FailingMapping returns a mapping function that rejects every asset with
// the given message.
func FailingMapping(msg string) mapping.Func {
	return func(mapping.Asset) (*mapping.Assignment, error) {
		return nil, errors.New(msg)
	}
}

// PanicMapping returns a mapping function that panics on every asset.
func PanicMapping(value any) mapping.Func {
	return func(mapping.Asset) (*mapping.Assignment, error) {
		panic(value)
	}
}

// FailOn wraps a mapping function, rejecting assets whose field carries the
// given label and delegating everything else to inner.
func FailOn(field, label string, inner mapping.Func) mapping.Func {
	return func(asset mapping.Asset) (*mapping.Assignment, error) {
		if v, ok := asset.GeneralInformation[field]; ok && schema.ValuesEqual(v, schema.String(label)) {
			return nil, fmt.Errorf("scripted failure for %s=%s", field, label)
		}
		return inner(asset)
	}
}

// PanicOn wraps a mapping function, panicking on assets whose field carries
// the given label and delegating everything else to inner.
func PanicOn(field, label string, inner mapping.Func) mapping.Func {
	return func(asset mapping.Asset) (*mapping.Assignment, error) {
		if v, ok := asset.GeneralInformation[field]; ok && schema.ValuesEqual(v, schema.String(label)) {
			panic(fmt.Sprintf("scripted panic for %s=%s", field, label))
		}
		return inner(asset)
	}
}
