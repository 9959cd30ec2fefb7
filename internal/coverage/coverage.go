// Package coverage computes model-coverage statistics over the valid bucket
// of a coverage run and cross-references fragility databases against it.
package coverage

import (
	"sort"
	"strings"

	"mapcover/internal/outcome"
)

// ModelIDCounts returns how many valid combinations each model ID appears
// in. An entry contributes once per ID it carries.
func ModelIDCounts(valid []outcome.Valid) map[string]int {
	counts := make(map[string]int)
	for _, entry := range valid {
		for _, id := range entry.ModelIDs {
			counts[id]++
		}
	}
	return counts
}

// ModelIDSetCounts returns how many valid combinations produced each model
// ID set. Keys are the entry's IDs sorted and joined with ", ", so two
// entries carrying the same IDs in different order count together. An entry
// with no IDs counts under the empty key.
func ModelIDSetCounts(valid []outcome.Valid) map[string]int {
	counts := make(map[string]int)
	for _, entry := range valid {
		ids := make([]string, len(entry.ModelIDs))
		copy(ids, entry.ModelIDs)
		sort.Strings(ids)
		counts[strings.Join(ids, ", ")]++
	}
	return counts
}

// OutputPath derives a sibling artifact name from base: "out.json" with
// suffix "_model_id_counts" becomes "out_model_id_counts.json". Only a
// trailing ".json" is stripped; a base without one keeps its full name and
// gains the suffix plus ".json".
func OutputPath(base, suffix string) string {
	return strings.TrimSuffix(base, ".json") + suffix + ".json"
}
