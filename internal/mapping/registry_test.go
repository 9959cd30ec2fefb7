package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopMapping(asset Asset) (*Assignment, error) {
	return &Assignment{GeneralInfo: asset.GeneralInformation}, nil
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Module{Name: "noop", Fn: noopMapping}))

	m, ok := r.Lookup("noop")
	require.True(t, ok)
	assert.Equal(t, "noop", m.Name)
	assert.NotNil(t, m.Fn)
	assert.Nil(t, m.Schema)

	_, ok = r.Lookup("absent")
	assert.False(t, ok)
}

func TestRegistryRegisterRejections(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Module{Name: "noop", Fn: noopMapping}))

	tests := []struct {
		name    string
		module  Module
		wantErr string
	}{
		{
			name:    "empty name",
			module:  Module{Fn: noopMapping},
			wantErr: "empty name",
		},
		{
			name:    "nil function",
			module:  Module{Name: "broken"},
			wantErr: "nil function",
		},
		{
			name:    "duplicate",
			module:  Module{Name: "noop", Fn: noopMapping},
			wantErr: "already registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Register(tt.module)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Module{Name: "zeta", Fn: noopMapping}))
	require.NoError(t, r.Register(Module{Name: "alpha", Fn: noopMapping}))
	require.NoError(t, r.Register(Module{Name: "mid", Fn: noopMapping}))

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())
}

func TestRegistryNamesEmpty(t *testing.T) {
	r := NewRegistry()
	names := r.Names()
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestBuiltins(t *testing.T) {
	r := Builtins()

	m, ok := r.Lookup(HazusEarthquakeName)
	require.True(t, ok)
	assert.NotNil(t, m.Fn)
	assert.NotEmpty(t, m.Schema)
	assert.Contains(t, r.Names(), HazusEarthquakeName)
}
