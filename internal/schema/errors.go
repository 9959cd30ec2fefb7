package schema

import (
	"errors"
	"fmt"
)

// ShapeError reports a schema document whose shape the extractor cannot
// enumerate: missing or non-object `properties`, a property declaration that
// is not an object, an enum literal outside the scalar value set, and so on.
//
// A ShapeError is fatal to the whole run. It is never recovered into a
// per-combination outcome.
type ShapeError struct {
	// Path locates the offending node, e.g. "properties.BuildingType.enum[2]".
	// Empty for document-level problems.
	Path string

	// Reason is a human-readable description.
	Reason string
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("schema shape: %s", e.Reason)
	}
	return fmt.Sprintf("schema shape: %s: %s", e.Path, e.Reason)
}

// NewShapeError creates a ShapeError for the given location.
func NewShapeError(path, reason string) *ShapeError {
	return &ShapeError{Path: path, Reason: reason}
}

// IsShapeError returns true if the error is a schema shape error.
// Uses errors.As to handle wrapped errors.
func IsShapeError(err error) bool {
	var se *ShapeError
	return errors.As(err, &se)
}
