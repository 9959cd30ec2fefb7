package outcome

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapcover/internal/schema"
)

func TestWriteAndReadResultFiles(t *testing.T) {
	dir := t.TempDir()
	validPath := filepath.Join(dir, DefaultValidFileName)
	invalidPath := filepath.Join(dir, DefaultInvalidFileName)

	rs := ResultSet{
		Valid: []Valid{
			{Combination: combo("k", "a"), ModelIDs: []string{"M.1", "M.2"}},
			{Combination: combo("k", "b"), ModelIDs: []string{"M.1"}},
		},
		Invalid: []Invalid{
			{Combination: combo("k", "c"), Error: "bad", Trace: "detail"},
		},
	}

	require.NoError(t, WriteResultFiles(rs, validPath, invalidPath))

	got, err := ReadValidFile(validPath)
	require.NoError(t, err)
	assert.Equal(t, rs.Valid, got)

	raw, err := os.ReadFile(validPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "[\n    {"), "expected four-space indent, got %q", string(raw[:10]))

	rawInvalid, err := os.ReadFile(invalidPath)
	require.NoError(t, err)
	assert.Contains(t, string(rawInvalid), `"error": "bad"`)
	assert.Contains(t, string(rawInvalid), `"trace": "detail"`)
}

func TestWriteResultFilesEmptyBuckets(t *testing.T) {
	dir := t.TempDir()
	validPath := filepath.Join(dir, "valid.json")
	invalidPath := filepath.Join(dir, "invalid.json")

	require.NoError(t, WriteResultFiles(Partition(nil), validPath, invalidPath))

	raw, err := os.ReadFile(invalidPath)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(raw))

	got, err := ReadValidFile(validPath)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReadValidFileStrict(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{
			name:    "unknown entry field",
			path:    write("unknown.json", `[{"combination":{"k":"a"},"model_ids":["M.1"],"extra":1}]`),
			wantErr: "unknown field",
		},
		{
			name:    "trailing content",
			path:    write("trailing.json", "[]\n{}"),
			wantErr: "trailing content",
		},
		{
			name:    "non array",
			path:    write("object.json", `{"valid":[]}`),
			wantErr: "cannot unmarshal",
		},
		{
			name:    "missing file",
			path:    filepath.Join(dir, "absent.json"),
			wantErr: "read valid results",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadValidFile(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReadValidFileStrictValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "null_value.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"combination":{"k":null},"model_ids":[]}]`), 0o644))

	_, err := ReadValidFile(path)
	require.Error(t, err)
}

func TestWriteFileRoundTripValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mixed.json")

	in := []Valid{{
		Combination: schema.Combination{
			"Label":   schema.String("W1"),
			"Flag":    schema.Bool(true),
			"Stories": schema.Number("12"),
		},
		ModelIDs: []string{"LF.W1.HC"},
	}}

	require.NoError(t, WriteFile(path, in))

	got, err := ReadValidFile(path)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}
