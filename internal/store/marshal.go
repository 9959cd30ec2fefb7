package store

import (
	"encoding/json"
	"fmt"
	"time"

	"mapcover/internal/schema"
)

// timeLayout is RFC 3339 with a fixed nanosecond width. Fixed width
// keeps lexical order equal to time order in the TEXT time columns,
// which the ListRuns ORDER BY relies on.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime renders a timestamp for storage, always in UTC.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime parses a stored timestamp.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}

// marshalCombination converts a combination to canonical JSON TEXT for storage.
// Canonical form keeps the stored column byte-stable across runs, so the
// same combination always archives to the same text.
func marshalCombination(c schema.Combination) (string, error) {
	data, err := schema.MarshalCanonical(c)
	if err != nil {
		return "", fmt.Errorf("marshal combination: %w", err)
	}
	return string(data), nil
}

// unmarshalCombination parses canonical JSON TEXT back to a combination.
// Uses schema.Combination.UnmarshalJSON, which rejects nulls, arrays,
// and nested objects the archive should never contain.
func unmarshalCombination(data string) (schema.Combination, error) {
	if data == "" || data == "{}" {
		return schema.Combination{}, nil
	}
	var c schema.Combination
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("unmarshal combination: %w", err)
	}
	return c, nil
}

// marshalModelIDs converts a model ID list to compact JSON TEXT.
// A nil list archives as an empty array, never as JSON null.
func marshalModelIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("marshal model ids: %w", err)
	}
	return string(data), nil
}

// unmarshalModelIDs parses JSON TEXT back to a model ID list.
func unmarshalModelIDs(data string) ([]string, error) {
	if data == "" {
		return []string{}, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(data), &ids); err != nil {
		return nil, fmt.Errorf("unmarshal model ids: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
