package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 canonical JSON for a combination.
// CRITICAL: this is the ONLY serialization that should be used for
// content-addressed identity computation (CombinationID, archive keys).
//
// Key differences from Combination.MarshalJSON:
// 1. No HTML escaping (< > & are NOT escaped)
// 2. Strings are NFC normalized
// 3. U+2028 and U+2029 stay literal
//
// Number values are emitted in their original lexical form: they are opaque
// labels here, so two schemas spelling the same quantity differently ("1"
// vs "1.0") intentionally produce different canonical bytes.
func MarshalCanonical(c Combination) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, k := range c.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}

		keyBytes, err := marshalCanonicalString(k)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := marshalCanonicalValue(c[k])
		if err != nil {
			return nil, fmt.Errorf("value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalCanonicalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case String:
		return marshalCanonicalString(string(val))
	case Bool:
		if val {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case Number:
		if val == "" {
			return nil, fmt.Errorf("empty number literal")
		}
		return []byte(val), nil
	default:
		return nil, fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

// marshalCanonicalString produces a canonical JSON string with NFC
// normalization.
// CRITICAL: RFC 8785 compliance:
// - No HTML escaping (<, >, & are NOT escaped)
// - U+2028 (LINE SEPARATOR) and U+2029 (PARAGRAPH SEPARATOR) are NOT escaped
// - Only control characters (U+0000-U+001F), backslash, and quote are escaped
func marshalCanonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	// json.Encoder adds a trailing newline, remove it
	result := buf.Bytes()
	if len(result) > 0 && result[len(result)-1] == '\n' {
		result = result[:len(result)-1]
	}

	// Go's encoder escapes U+2028/U+2029 for JavaScript compatibility, which
	// violates RFC 8785. Restore the literal characters.
	return unescapeSeparators(result), nil
}

// unescapeSeparators converts \u2028 and \u2029 escape sequences to literal
// characters. Escape pairs are walked left to right, so a \\u2028 produced by
// a literal backslash in the source string is left untouched.
func unescapeSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); {
		if data[i] != '\\' {
			out = append(out, data[i])
			i++
			continue
		}
		if i+6 <= len(data) && data[i+1] == 'u' && data[i+2] == '2' &&
			data[i+3] == '0' && data[i+4] == '2' && (data[i+5] == '8' || data[i+5] == '9') {
			if data[i+5] == '8' {
				out = append(out, "\u2028"...)
			} else {
				out = append(out, "\u2029"...)
			}
			i += 6
			continue
		}
		// Some other escape pair: copy both bytes so the second byte cannot
		// be misread as the start of a new escape.
		if i+1 < len(data) {
			out = append(out, data[i], data[i+1])
			i += 2
		} else {
			out = append(out, data[i])
			i++
		}
	}
	return out
}
