package engine

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"mapcover/internal/mapping"
	"mapcover/internal/outcome"
	"mapcover/internal/schema"
)

// SchemaViolationMessage is the user-facing message recorded for every
// combination that fails schema validation. The per-field detail goes in
// the outcome's trace, not the message.
const SchemaViolationMessage = "The provided building information does not conform to the input requirements for the chosen damage and loss model."

// exercise runs one combination through validation and the mapping function
// and classifies it.
//
// Mapping failures never propagate: errors and panics both become invalid
// outcomes, so one bad combination cannot take down a run.
func exercise(v *Validator, fn mapping.Func, comb schema.Combination) outcome.Outcome {
	if err := v.Validate(comb); err != nil {
		return outcome.Invalid{
			Combination: comb,
			Error:       SchemaViolationMessage,
			Trace:       ViolationTrace(err),
		}
	}

	asg, err := runMapping(fn, comb)
	if err != nil {
		return outcome.Invalid{
			Combination: comb,
			Error:       err.Error(),
			Trace:       errorTrace(err),
		}
	}
	if asg == nil {
		err := errors.New("mapping function returned no assignment")
		return outcome.Invalid{
			Combination: comb,
			Error:       err.Error(),
			Trace:       errorTrace(err),
		}
	}

	return outcome.Valid{
		Combination: comb,
		ModelIDs:    asg.Components.Labels(),
	}
}

// runMapping invokes the mapping function, converting panics into errors.
func runMapping(fn mapping.Func, comb schema.Combination) (asg *mapping.Assignment, err error) {
	defer func() {
		if r := recover(); r != nil {
			asg = nil
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn(mapping.Asset{GeneralInformation: mapping.GeneralInfo(comb)})
}

// errorTrace renders the diagnostic trace for a mapping failure: the stack
// when the function panicked, otherwise the error chain from the outermost
// message down to the root cause.
func errorTrace(err error) string {
	var pe *PanicError
	if errors.As(err, &pe) {
		return fmt.Sprintf("panic: %v\n\n%s", pe.Value, pe.Stack)
	}

	var b strings.Builder
	for e := err; e != nil; e = errors.Unwrap(e) {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
	}
	return b.String()
}
