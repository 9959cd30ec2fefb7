package schema

import "fmt"

// Kind categorizes a property domain.
type Kind string

const (
	// KindString covers enumerated labels and unconstrained strings.
	// Enumerations are treated as opaque labels regardless of their declared
	// base type, unless that base type is boolean.
	KindString Kind = "string"

	// KindBoolean covers boolean properties.
	KindBoolean Kind = "boolean"

	// KindOther covers declared types the engine does not natively enumerate;
	// such domains hold a single synthetic placeholder value.
	KindOther Kind = "other"
)

// PropertyDomain describes one property's value domain.
//
// Values is in declared order and never empty. It never contains an absence
// marker: "this optional property is not supplied" is the generator's
// concern, not a value.
type PropertyDomain struct {
	Name     string  `json:"name"`
	Kind     Kind    `json:"kind"`
	Values   []Value `json:"values"`
	Required bool    `json:"required"`
}

// Domains is the ordered set of property domains extracted from a schema.
// Order matches the schema document's declared property order, which in turn
// fixes the combination enumeration order.
type Domains struct {
	props  []PropertyDomain
	byName map[string]int
}

// NewDomains builds a Domains collection, rejecting duplicate property names
// and empty value lists.
func NewDomains(props []PropertyDomain) (*Domains, error) {
	byName := make(map[string]int, len(props))
	for i, p := range props {
		if p.Name == "" {
			return nil, fmt.Errorf("property %d: empty name", i)
		}
		if len(p.Values) == 0 {
			return nil, fmt.Errorf("property %q: empty value domain", p.Name)
		}
		if _, dup := byName[p.Name]; dup {
			return nil, fmt.Errorf("property %q: duplicate declaration", p.Name)
		}
		byName[p.Name] = i
	}

	// The collection owns its property slice; the caller keeps theirs.
	copied := make([]PropertyDomain, len(props))
	copy(copied, props)

	return &Domains{props: copied, byName: byName}, nil
}

// Len returns the number of properties.
func (d *Domains) Len() int {
	return len(d.props)
}

// Properties returns the domains in declared order.
// The returned slice is a copy; Values slices are shared and read-only.
func (d *Domains) Properties() []PropertyDomain {
	out := make([]PropertyDomain, len(d.props))
	copy(out, d.props)
	return out
}

// Lookup returns the domain for a property name.
func (d *Domains) Lookup(name string) (PropertyDomain, bool) {
	i, ok := d.byName[name]
	if !ok {
		return PropertyDomain{}, false
	}
	return d.props[i], true
}

// RequiredNames returns the names of required properties in declared order.
// Always non-nil.
func (d *Domains) RequiredNames() []string {
	names := make([]string, 0)
	for _, p := range d.props {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}
