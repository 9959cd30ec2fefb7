package mapping

import (
	"fmt"
	"sort"
)

// Module is a registered mapping function together with the input schema it
// bundles, when it has one. Bundling keeps the schema and the function that
// interprets it in one place, so callers can run a module without hunting
// for a matching schema file.
type Module struct {
	Name   string
	Fn     Func
	Schema []byte // input schema JSON; nil when the module bundles none
}

// Registry resolves mapping modules by name. The engine receives its mapping
// function by injection, never by resolving code from file paths; the
// registry is how callers perform that injection.
//
// Thread-safety: Register is construction-time only. A registry is
// read-only once handed to concurrent callers.
type Registry struct {
	modules map[string]Module
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]Module)}
}

// Register adds a module. Duplicate names and nil functions are rejected.
func (r *Registry) Register(m Module) error {
	if m.Name == "" {
		return fmt.Errorf("register mapping: empty name")
	}
	if m.Fn == nil {
		return fmt.Errorf("register mapping %q: nil function", m.Name)
	}
	if _, dup := r.modules[m.Name]; dup {
		return fmt.Errorf("register mapping %q: already registered", m.Name)
	}
	r.modules[m.Name] = m
	return nil
}

// Lookup returns the named module.
func (r *Registry) Lookup(name string) (Module, bool) {
	m, ok := r.modules[name]
	return m, ok
}

// Names returns the registered module names, sorted. Always non-nil.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtins returns a registry preloaded with the built-in mapping modules.
func Builtins() *Registry {
	r := NewRegistry()
	if err := r.Register(Module{
		Name:   HazusEarthquakeName,
		Fn:     HazusEarthquake,
		Schema: HazusEarthquakeSchema(),
	}); err != nil {
		panic(err)
	}
	return r
}
