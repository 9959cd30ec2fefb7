package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Component is one row of a component assignment table: the placement and
// quantity attributes of a single performance-model component.
type Component struct {
	Units     string  `json:"Units"`
	Location  int     `json:"Location"`
	Direction int     `json:"Direction"`
	Theta0    float64 `json:"Theta_0"`
	Family    string  `json:"Family"`
}

// ComponentTable is an insertion-ordered table of model-identifier labels to
// components. Label order is the order the mapping function assigned them,
// which is the order the engine reports model IDs in.
type ComponentTable struct {
	labels []string
	rows   map[string]Component
}

// NewComponentTable creates an empty table.
func NewComponentTable() *ComponentTable {
	return &ComponentTable{rows: make(map[string]Component)}
}

// Add appends a labeled component. Re-adding an existing label replaces the
// row but keeps its original position.
func (t *ComponentTable) Add(label string, c Component) {
	if _, exists := t.rows[label]; !exists {
		t.labels = append(t.labels, label)
	}
	t.rows[label] = c
}

// Labels returns the model-identifier labels in insertion order.
// Always non-nil; safe on a nil table.
func (t *ComponentTable) Labels() []string {
	if t == nil {
		return []string{}
	}
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}

// Lookup returns the component for a label.
func (t *ComponentTable) Lookup(label string) (Component, bool) {
	if t == nil {
		return Component{}, false
	}
	c, ok := t.rows[label]
	return c, ok
}

// Len returns the number of rows.
func (t *ComponentTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.labels)
}

// MarshalJSON emits the table as an object in insertion order.
func (t *ComponentTable) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("{}"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range t.labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(label)
		if err != nil {
			return nil, fmt.Errorf("marshal label %q: %w", label, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		rowBytes, err := json.Marshal(t.rows[label])
		if err != nil {
			return nil, fmt.Errorf("marshal component %q: %w", label, err)
		}
		buf.Write(rowBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
