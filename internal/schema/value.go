package schema

import (
	"encoding/json"
	"fmt"
)

// Value is a sealed interface over the scalar value types a property domain
// can hold. Only String, Bool, and Number implement it.
//
// Enumerated literals are opaque labels: a Number keeps the lexical form it
// had in the schema document and is never converted to a typed numeric.
// Null, arrays, and objects are not values - the engine only enumerates flat
// scalar domains.
type Value interface {
	domainValue() // Sealed - only these types implement it
}

// String represents a string label.
type String string

func (String) domainValue() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) domainValue() {}

// Number represents a numeric literal kept in its original lexical form.
// Two Numbers are equal iff their lexical forms are equal ("1" != "1.0").
type Number json.Number

func (Number) domainValue() {}

// MarshalJSON implements json.Marshaler for String.
func (v String) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(v))
}

// MarshalJSON implements json.Marshaler for Bool.
func (v Bool) MarshalJSON() ([]byte, error) {
	if v {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

// MarshalJSON implements json.Marshaler for Number.
// The literal is emitted verbatim.
func (v Number) MarshalJSON() ([]byte, error) {
	if v == "" {
		return nil, fmt.Errorf("empty number literal")
	}
	return []byte(v), nil
}

// String returns the label text without quoting.
func (v String) String() string { return string(v) }

// String returns "true" or "false".
func (v Bool) String() string {
	if v {
		return "true"
	}
	return "false"
}

// String returns the numeric literal verbatim.
func (v Number) String() string { return string(v) }

// Display returns the human-readable form of a value, as shown in domain
// listings and error messages.
func Display(v Value) string {
	switch val := v.(type) {
	case String:
		return val.String()
	case Bool:
		return val.String()
	case Number:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ValuesEqual reports whether two values have the same type and content.
func ValuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	default:
		return false
	}
}

// MarshalValue marshals a Value to JSON bytes.
func MarshalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case String:
		return val.MarshalJSON()
	case Bool:
		return val.MarshalJSON()
	case Number:
		return val.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown Value type: %T", v)
	}
}

// UnmarshalValue decodes a JSON scalar into a Value with strict validation.
// CRITICAL: null, arrays, and objects are rejected - only strings, booleans,
// and numbers are representable in a property domain.
func UnmarshalValue(data []byte) (Value, error) {
	trimmed := trimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty JSON value")
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		return String(s), nil

	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return nil, err
		}
		return Bool(b), nil

	case 'n':
		return nil, fmt.Errorf("null is not a domain value")

	case '[':
		return nil, fmt.Errorf("arrays are not domain values")

	case '{':
		return nil, fmt.Errorf("objects are not domain values")

	default:
		// Must be a number - keep the lexical form
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return nil, err
		}
		return Number(n), nil
	}
}

func trimSpace(data []byte) []byte {
	start := 0
	for start < len(data) && isJSONSpace(data[start]) {
		start++
	}
	end := len(data)
	for end > start && isJSONSpace(data[end-1]) {
		end--
	}
	return data[start:end]
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
