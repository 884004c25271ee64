package wire

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalString(t *testing.T, v Val) string {
	t.Helper()
	data, err := MarshalCanonical(v)
	require.NoError(t, err)
	return string(data)
}

func TestCanonicalScalars(t *testing.T) {
	assert.Equal(t, `"hi"`, marshalString(t, Str("hi")))
	assert.Equal(t, `42`, marshalString(t, Int(42)))
	assert.Equal(t, `-7`, marshalString(t, Int(-7)))
	assert.Equal(t, `2.5`, marshalString(t, Float(2.5)))
	assert.Equal(t, `true`, marshalString(t, Bool(true)))
	assert.Equal(t, `false`, marshalString(t, Bool(false)))
}

func TestCanonicalNoInsignificantWhitespace(t *testing.T) {
	v := Obj{"a": Arr{Int(1), Int(2)}, "b": Obj{"c": Str("d")}}
	assert.Equal(t, `{"a":[1,2],"b":{"c":"d"}}`, marshalString(t, v))
}

func TestCanonicalKeyOrder(t *testing.T) {
	v := Obj{"b": Int(1), "a": Int(2), "@type": Str("T"), "z": Int(3)}
	// '@' (0x40) sorts before lowercase letters.
	assert.Equal(t, `{"@type":"T","a":2,"b":1,"z":3}`, marshalString(t, v))
}

func TestCanonicalKeyOrderUTF16(t *testing.T) {
	// U+1D306 (surrogate pair D834 DF06) sorts before U+FF21 in UTF-16
	// code units, after it in UTF-8 bytes. RFC 8785 requires UTF-16.
	// Both keys are NFC-stable, so normalization cannot rewrite them.
	v := Obj{"\U0001D306": Int(1), "\uFF21": Int(2)}
	assert.Equal(t, "{\"\U0001D306\":1,\"\uFF21\":2}", marshalString(t, v))
}

func TestCanonicalStringEscapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"carriage return", "a\rb", `"a\rb"`},
		{"backspace", "a\bb", `"a\bb"`},
		{"form feed", "a\fb", `"a\fb"`},
		{"other control", "a\x01b", `"a\u0001b"`},
		{"no html escaping", `<a>&`, `"<a>&"`},
		{"unicode passes through", "café", `"café"`},
		{"line separator unescaped", "a b", "\"a b\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, marshalString(t, Str(tt.in)))
		})
	}
}

func TestCanonicalNFCNormalization(t *testing.T) {
	// e + combining acute normalizes to the precomposed form.
	decomposed := "é"
	assert.Equal(t, `"é"`, marshalString(t, Str(decomposed)))

	composed := "é"
	assert.Equal(t, marshalString(t, Str(composed)), marshalString(t, Str(decomposed)))
}

func TestCanonicalFloatFormats(t *testing.T) {
	assert.Equal(t, `0.5`, marshalString(t, Float(0.5)))
	assert.Equal(t, `-1.25`, marshalString(t, Float(-1.25)))
	assert.Equal(t, `1e+21`, marshalString(t, Float(1e21)))
}

func TestCanonicalRejectsNonFinite(t *testing.T) {
	_, err := MarshalCanonical(Obj{"x": Float(math.Inf(1))})
	assert.Error(t, err)

	_, err = MarshalCanonical(Float(math.NaN()))
	assert.Error(t, err)
}

func TestCanonicalRejectsNil(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.Error(t, err)

	_, err = MarshalCanonical(Obj{"k": nil})
	assert.Error(t, err)
}

func TestCanonicalDeterminism(t *testing.T) {
	v := Obj{
		"@type": Str("Triple"),
		"subject": Obj{"@type": Str("NodeValue"), "variable": Str("S")},
		"predicate": Obj{"@type": Str("NodeValue"), "node": Str("p")},
		"object": Obj{"@type": Str("Value"), "data": Obj{"@type": Str("xsd:integer"), "@value": Int(1)}},
	}
	first := marshalString(t, v)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, marshalString(t, v))
	}
}
