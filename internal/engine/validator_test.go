package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapcover/internal/schema"
)

const validatorSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"Fruit": {"type": "string", "enum": ["Apple", "Banana"]},
		"Crisp": {"type": "boolean"}
	},
	"required": ["Fruit"]
}`

func newFruitValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator([]byte(validatorSchema))
	require.NoError(t, err)
	return v
}

func TestValidator_AcceptsConformingCombination(t *testing.T) {
	v := newFruitValidator(t)

	assert.NoError(t, v.Validate(schema.Combination{
		"Fruit": schema.String("Apple"),
		"Crisp": schema.Bool(true),
	}))
}

func TestValidator_AcceptsAbsentOptional(t *testing.T) {
	v := newFruitValidator(t)

	assert.NoError(t, v.Validate(schema.Combination{
		"Fruit": schema.String("Banana"),
	}))
}

func TestValidator_RejectsOutOfEnum(t *testing.T) {
	v := newFruitValidator(t)

	err := v.Validate(schema.Combination{"Fruit": schema.String("Cherry")})
	require.Error(t, err)
	assert.Contains(t, ViolationTrace(err), "Fruit")
}

func TestValidator_RejectsMissingRequired(t *testing.T) {
	v := newFruitValidator(t)

	err := v.Validate(schema.Combination{"Crisp": schema.Bool(false)})
	require.Error(t, err)
}

func TestValidator_RejectsWrongType(t *testing.T) {
	v := newFruitValidator(t)

	err := v.Validate(schema.Combination{
		"Fruit": schema.String("Apple"),
		"Crisp": schema.String("yes"),
	})
	require.Error(t, err)
	assert.Contains(t, ViolationTrace(err), "Crisp")
}

func TestValidator_ReportsEveryViolation(t *testing.T) {
	v := newFruitValidator(t)

	err := v.Validate(schema.Combination{
		"Fruit": schema.String("Cherry"),
		"Crisp": schema.String("yes"),
	})
	require.Error(t, err)

	trace := ViolationTrace(err)
	assert.Contains(t, trace, "Fruit")
	assert.Contains(t, trace, "Crisp")
}

func TestValidator_NumericEnum(t *testing.T) {
	const storiesSchema = `{
		"type": "object",
		"properties": {
			"Stories": {"type": "number", "enum": [1, 2.5]}
		},
		"required": ["Stories"]
	}`
	v, err := NewValidator([]byte(storiesSchema))
	require.NoError(t, err)

	assert.NoError(t, v.Validate(schema.Combination{"Stories": schema.Number("1")}))
	assert.NoError(t, v.Validate(schema.Combination{"Stories": schema.Number("2.5")}))
	assert.Error(t, v.Validate(schema.Combination{"Stories": schema.Number("3")}))
}

func TestValidator_ReusableAcrossCalls(t *testing.T) {
	v := newFruitValidator(t)

	require.Error(t, v.Validate(schema.Combination{"Fruit": schema.String("Cherry")}))
	assert.NoError(t, v.Validate(schema.Combination{"Fruit": schema.String("Apple")}))
	require.Error(t, v.Validate(schema.Combination{"Fruit": schema.String("Durian")}))
	assert.NoError(t, v.Validate(schema.Combination{"Fruit": schema.String("Banana")}))
}

func TestNewValidator_MalformedSchema(t *testing.T) {
	_, err := NewValidator([]byte("{]"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile schema")
}

func TestNewValidator_UnsupportedConstraint(t *testing.T) {
	_, err := NewValidator([]byte(`{"type": "object", "additionalProperties": 3}`))
	require.Error(t, err)
}

func TestViolationTrace_NilError(t *testing.T) {
	assert.Equal(t, "", ViolationTrace(nil))
}
