package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    Combination
		expected string
	}{
		{"empty", Combination{}, "{}"},
		{"single string", Combination{"a": String("x")}, `{"a":"x"}`},
		{"single bool", Combination{"a": Bool(false)}, `{"a":false}`},
		{"number verbatim", Combination{"a": Number("1.50")}, `{"a":1.50}`},
		{
			"sorted keys",
			Combination{"zebra": String("z"), "alpha": String("a"), "beta": String("b")},
			`{"alpha":"a","beta":"b","zebra":"z"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalUTF16Ordering(t *testing.T) {
	// U+E000 vs U+10000 - UTF-16 order differs from UTF-8.
	// UTF-16: 0xD800 (surrogate lead of U+10000) < 0xE000, so the
	// surrogate-pair key must sort first even though UTF-8 says otherwise.
	c := Combination{
		"": String("1"),
		"𐀀":      String("2"),
	}

	result, err := MarshalCanonical(c)
	require.NoError(t, err)

	expected := `{"𐀀":"2","` + "" + `":"1"}`
	assert.Equal(t, expected, string(result))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	c := Combination{"cmp": String("a<b>&c")}

	result, err := MarshalCanonical(c)
	require.NoError(t, err)
	assert.Equal(t, `{"cmp":"a<b>&c"}`, string(result))
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	// e + combining acute (NFD) must normalize to the precomposed form.
	decomposed := Combination{"k": String("Café")}
	precomposed := Combination{"k": String("Café")}

	d, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	p, err := MarshalCanonical(precomposed)
	require.NoError(t, err)

	assert.Equal(t, string(p), string(d))
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	// U+2028/U+2029 stay literal per RFC 8785.
	c := Combination{"k": String("a b c")}

	result, err := MarshalCanonical(c)
	require.NoError(t, err)
	assert.Equal(t, "{\"k\":\"a b c\"}", string(result))
}

func TestMarshalCanonicalEscapedBackslashStays(t *testing.T) {
	// A literal backslash followed by the text "u2028" is not a separator
	// escape and must survive untouched.
	c := Combination{"k": String(`\u2028`)}

	result, err := MarshalCanonical(c)
	require.NoError(t, err)
	assert.Equal(t, `{"k":"\\u2028"}`, string(result))
}

func TestCombinationIDStable(t *testing.T) {
	a := Combination{"BuildingType": String("W1"), "GroundFailure": Bool(true)}
	b := Combination{"GroundFailure": Bool(true), "BuildingType": String("W1")}

	idA, err := CombinationID(a)
	require.NoError(t, err)
	idB, err := CombinationID(b)
	require.NoError(t, err)

	assert.Equal(t, idA, idB)
	assert.Len(t, idA, 64) // hex SHA-256
}

func TestCombinationIDDiffers(t *testing.T) {
	base := Combination{"A": String("x")}
	changedValue := Combination{"A": String("y")}
	changedKey := Combination{"B": String("x")}
	extraKey := Combination{"A": String("x"), "B": Bool(true)}

	baseID := MustCombinationID(base)
	assert.NotEqual(t, baseID, MustCombinationID(changedValue))
	assert.NotEqual(t, baseID, MustCombinationID(changedKey))
	assert.NotEqual(t, baseID, MustCombinationID(extraKey))
}

func TestCombinationIDTypeSensitive(t *testing.T) {
	// "true" the label and true the boolean are different inputs and must
	// hash differently.
	asString := MustCombinationID(Combination{"A": String("true")})
	asBool := MustCombinationID(Combination{"A": Bool(true)})
	assert.NotEqual(t, asString, asBool)
}

func TestSchemaDigest(t *testing.T) {
	a := SchemaDigest([]byte(`{"properties":{}}`))
	b := SchemaDigest([]byte(`{"properties":{}}`))
	c := SchemaDigest([]byte(`{"properties":{"A":{}}}`))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
