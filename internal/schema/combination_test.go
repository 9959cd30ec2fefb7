package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombinationMarshalJSONSortedKeys(t *testing.T) {
	c := Combination{
		"zebra": String("z"),
		"alpha": Bool(true),
		"beta":  Number("3"),
	}

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":true,"beta":3,"zebra":"z"}`, string(data))
}

func TestCombinationMarshalJSONEmpty(t *testing.T) {
	data, err := json.Marshal(Combination{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestCombinationUnmarshalJSON(t *testing.T) {
	var c Combination
	err := json.Unmarshal([]byte(`{"BuildingType":"W1","GroundFailure":true,"Stories":2}`), &c)
	require.NoError(t, err)

	assert.Equal(t, Combination{
		"BuildingType": String("W1"),
		"GroundFailure": Bool(true),
		"Stories":      Number("2"),
	}, c)
}

func TestCombinationUnmarshalJSONRejectsNull(t *testing.T) {
	var c Combination
	err := json.Unmarshal([]byte(`{"HeightClass":null}`), &c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HeightClass")
}

func TestCombinationUnmarshalJSONRejectsNested(t *testing.T) {
	var c Combination
	err := json.Unmarshal([]byte(`{"Location":{"lat":1}}`), &c)
	assert.Error(t, err)
}

func TestCombinationEqual(t *testing.T) {
	a := Combination{"A": String("x"), "B": Bool(true)}

	assert.True(t, a.Equal(Combination{"A": String("x"), "B": Bool(true)}))
	assert.False(t, a.Equal(Combination{"A": String("x")}))
	assert.False(t, a.Equal(Combination{"A": String("x"), "B": Bool(false)}))
	assert.False(t, a.Equal(Combination{"A": String("x"), "C": Bool(true)}))
	assert.True(t, Combination{}.Equal(Combination{}))
}

func TestCombinationClone(t *testing.T) {
	orig := Combination{"A": String("x")}
	clone := orig.Clone()

	clone["A"] = String("y")
	clone["B"] = Bool(true)

	assert.Equal(t, Combination{"A": String("x")}, orig)
}

func TestCombinationRoundTrip(t *testing.T) {
	orig := Combination{
		"BuildingType":   String("URM"),
		"DesignLevel":    String("Pre-Code"),
		"GroundFailure":  Bool(false),
		"NumberOfFloors": Number("12"),
	}

	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var back Combination
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, orig.Equal(back))
}
