package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Extract parses a restricted JSON Schema document into property domains.
//
// The document must be an object with a `properties` object; an optional
// `required` array marks required property names. All other top-level
// members are ignored. Per property:
//
//   - an `enum` lists the domain verbatim (opaque labels; KindString unless
//     the declared type is boolean)
//   - type "boolean" without enum yields [true, false]
//   - type "string" without enum yields the single placeholder "example_string"
//   - any other type yields the single placeholder "default_<type>"
//     ("default_unknown" when type is missing); an empty enum degenerates to
//     the same placeholder
//
// Declared property order is preserved: encoding/json's map decoding would
// lose it, so the document is walked token by token. Property order fixes
// the combination enumeration order, so this is a correctness requirement,
// not cosmetics.
//
// Malformed shape (non-object root or properties, non-object property
// declaration, non-scalar enum literal, duplicate property) fails with a
// *ShapeError. No side effects.
func Extract(data []byte) (*Domains, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, NewShapeError("", fmt.Sprintf("document is not valid JSON: %v", err))
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, NewShapeError("", "document root must be an object")
	}

	var (
		props       []PropertyDomain
		sawProps    bool
		sawRequired bool
		required    map[string]bool
	)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, NewShapeError("", fmt.Sprintf("document is not valid JSON: %v", err))
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, NewShapeError("", fmt.Sprintf("unexpected token %v", keyTok))
		}

		switch key {
		case "properties":
			if sawProps {
				return nil, NewShapeError("properties", "duplicate block")
			}
			sawProps = true
			props, err = extractProperties(dec)
			if err != nil {
				return nil, err
			}

		case "required":
			if sawRequired {
				return nil, NewShapeError("required", "duplicate block")
			}
			sawRequired = true
			var names []string
			if err := dec.Decode(&names); err != nil {
				return nil, NewShapeError("required", "must be an array of property names")
			}
			required = make(map[string]bool, len(names))
			for _, n := range names {
				required[n] = true
			}

		default:
			// $schema, title, additionalProperties, ... - not our concern
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, NewShapeError(key, fmt.Sprintf("unreadable value: %v", err))
			}
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, NewShapeError("", fmt.Sprintf("document is not valid JSON: %v", err))
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, NewShapeError("", "trailing content after schema document")
	}

	if !sawProps {
		return nil, NewShapeError("properties", "block is missing")
	}

	for i := range props {
		props[i].Required = required[props[i].Name]
	}

	domains, err := NewDomains(props)
	if err != nil {
		return nil, NewShapeError("properties", err.Error())
	}
	return domains, nil
}

// extractProperties walks the properties object in document order.
// The decoder is positioned just before the object's opening brace.
func extractProperties(dec *json.Decoder) ([]PropertyDomain, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, NewShapeError("properties", fmt.Sprintf("unreadable value: %v", err))
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, NewShapeError("properties", "must be an object")
	}

	props := make([]PropertyDomain, 0)
	seen := make(map[string]bool)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, NewShapeError("properties", fmt.Sprintf("unreadable value: %v", err))
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, NewShapeError("properties", fmt.Sprintf("unexpected token %v", keyTok))
		}
		if seen[name] {
			return nil, NewShapeError("properties."+name, "duplicate property")
		}
		seen[name] = true

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, NewShapeError("properties."+name, fmt.Sprintf("unreadable declaration: %v", err))
		}
		dom, err := domainFromDecl(name, raw)
		if err != nil {
			return nil, err
		}
		props = append(props, dom)
	}

	if _, err := dec.Token(); err != nil {
		return nil, NewShapeError("properties", fmt.Sprintf("unreadable value: %v", err))
	}
	return props, nil
}

// domainFromDecl turns one property declaration into its domain.
func domainFromDecl(name string, raw json.RawMessage) (PropertyDomain, error) {
	path := "properties." + name

	trimmed := trimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return PropertyDomain{}, NewShapeError(path, "declaration must be an object")
	}

	var decl struct {
		Type json.RawMessage   `json:"type"`
		Enum []json.RawMessage `json:"enum"`
	}
	if err := json.Unmarshal(trimmed, &decl); err != nil {
		return PropertyDomain{}, NewShapeError(path, fmt.Sprintf("unreadable declaration: %v", err))
	}

	declType := "unknown"
	if len(decl.Type) > 0 {
		var s string
		if err := json.Unmarshal(decl.Type, &s); err != nil {
			return PropertyDomain{}, NewShapeError(path+".type", "must be a string")
		}
		declType = s
	}

	if len(decl.Enum) > 0 {
		values := make([]Value, len(decl.Enum))
		for i, rawVal := range decl.Enum {
			v, err := UnmarshalValue(rawVal)
			if err != nil {
				return PropertyDomain{}, NewShapeError(fmt.Sprintf("%s.enum[%d]", path, i), err.Error())
			}
			values[i] = v
		}
		kind := KindString
		if declType == "boolean" {
			kind = KindBoolean
		}
		return PropertyDomain{Name: name, Kind: kind, Values: values}, nil
	}

	switch {
	case decl.Enum != nil:
		// enum: [] - degenerate, same fallback as an unsupported type
		return PropertyDomain{Name: name, Kind: KindOther, Values: []Value{String("default_" + declType)}}, nil
	case declType == "boolean":
		return PropertyDomain{Name: name, Kind: KindBoolean, Values: []Value{Bool(true), Bool(false)}}, nil
	case declType == "string":
		return PropertyDomain{Name: name, Kind: KindString, Values: []Value{String("example_string")}}, nil
	default:
		return PropertyDomain{Name: name, Kind: KindOther, Values: []Value{String("default_" + declType)}}, nil
	}
}
