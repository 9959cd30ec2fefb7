package engine

import (
	"errors"
	"fmt"
)

// ResourceError represents an infrastructure failure during a coverage run.
//
// Resource errors cover the machinery around the mapping function, not the
// function itself:
//   - Validator construction: the schema failed to compile
//   - Worker pool setup
//
// A ResourceError aborts the run. This is the opposite of mapping failures,
// which are recorded as invalid outcomes and never abort anything.
type ResourceError struct {
	// Op names the operation that failed, e.g. "create validator".
	Op string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ResourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resource failure: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("resource failure: %s", e.Op)
}

// Unwrap returns the underlying cause.
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// IsResourceError returns true if the error is an infrastructure failure.
// Uses errors.As to handle wrapped errors.
func IsResourceError(err error) bool {
	var re *ResourceError
	return errors.As(err, &re)
}

// NewResourceError creates a ResourceError for a failed operation.
func NewResourceError(op string, err error) *ResourceError {
	return &ResourceError{Op: op, Err: err}
}

// PanicError wraps a panic recovered from a mapping function. The stack is
// captured inside the panicking goroutine at recovery time.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("mapping function panicked: %v", e.Value)
}
