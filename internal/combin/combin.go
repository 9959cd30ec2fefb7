// Package combin enumerates property-value combinations from extracted
// schema domains.
//
// The enumeration is a Cartesian product over the properties in declared
// order, each domain's values in declared order, with the rightmost property
// varying fastest. Optional properties contribute one extra trailing
// "absent" slot; a combination never stores an absent property, it simply
// omits the key. Required properties have no absent slot, so every emitted
// combination satisfies the required-presence invariant by construction.
//
// Generate is pure and deterministic: the same domains always produce the
// same combinations in the same order, which test suites assert on.
package combin

import "mapcover/internal/schema"

// Count returns the number of combinations Generate emits, in closed form:
// the product over required properties of |values| times the product over
// optional properties of |values|+1.
func Count(d *schema.Domains) int64 {
	total := int64(1)
	for _, p := range d.Properties() {
		slots := int64(len(p.Values))
		if !p.Required {
			slots++
		}
		total *= slots
	}
	return total
}

// Generate materializes every combination for the given domains.
// len(Generate(d)) == Count(d) always holds.
func Generate(d *schema.Domains) []schema.Combination {
	props := d.Properties()

	// Slot counts per property; the extra slot on optional properties is
	// the trailing absence slot.
	slots := make([]int, len(props))
	for i, p := range props {
		slots[i] = len(p.Values)
		if !p.Required {
			slots[i]++
		}
	}

	out := make([]schema.Combination, 0, int(Count(d)))
	idx := make([]int, len(props))

	for {
		combo := make(schema.Combination, len(props))
		for i, p := range props {
			if idx[i] < len(p.Values) {
				combo[p.Name] = p.Values[idx[i]]
			}
			// idx[i] == len(p.Values): absence slot, key omitted
		}
		out = append(out, combo)

		// Odometer step, rightmost property fastest.
		pos := len(props) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < slots[pos] {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			return out
		}
	}
}
