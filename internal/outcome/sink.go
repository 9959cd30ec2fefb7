package outcome

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Default file names for persisted result sets. Downstream coverage tooling
// looks for these names next to each other.
const (
	DefaultValidFileName   = "valid_combinations.json"
	DefaultInvalidFileName = "invalid_combinations.json"
)

// WriteFile writes v to path as four-space-indented JSON.
func WriteFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("write results %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write results %s: %w", path, err)
	}
	return nil
}

// WriteResultFiles persists the two buckets as separate JSON array documents.
func WriteResultFiles(rs ResultSet, validPath, invalidPath string) error {
	if err := WriteFile(validPath, rs.Valid); err != nil {
		return err
	}
	return WriteFile(invalidPath, rs.Invalid)
}

// ReadValidFile loads a persisted valid bucket. Decoding is strict: unknown
// entry fields and trailing content are rejected.
func ReadValidFile(path string) ([]Valid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read valid results: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()

	var out []Valid
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("read valid results %s: %w", path, err)
	}
	if err := dec.Decode(new(json.RawMessage)); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read valid results %s: trailing content after JSON document", path)
	}
	if out == nil {
		out = []Valid{}
	}
	return out, nil
}
