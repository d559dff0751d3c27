package canonical

import (
	"math"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil", nil, "null"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"negative int64", int64(-100), "-100"},
		{"uint64", uint64(7), "7"},
		{"float", 0.5, "0.5"},
		{"negative float", -0.25, "-0.25"},
		{"integral float", 3.0, "3"},
		{"zero float", 0.0, "0"},
		{"small float", 0.0000001, "0.0000001"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"float vector", []float64{1, 0.5, -2}, "[1,0.5,-2]"},
		{"array of ints", []any{1, 2, 3}, "[1,2,3]"},
		{"simple object", map[string]any{"a": 1}, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalSortedKeys(t *testing.T) {
	obj := map[string]any{
		"zebra": 1,
		"alpha": 2,
		"beta":  3,
	}

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":3,"zebra":1}`, string(result))
}

func TestMarshalNestedSortedKeys(t *testing.T) {
	obj := map[string]any{
		"z": map[string]any{
			"b": 1,
			"a": 2,
		},
		"a": 3,
	}

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":3,"z":{"a":2,"b":1}}`, string(result))
}

func TestMarshalNoHTMLEscape(t *testing.T) {
	result, err := Marshal("<script>&</script>")
	require.NoError(t, err)
	assert.Equal(t, `"<script>&</script>"`, string(result))
}

func TestMarshalNFCNormalization(t *testing.T) {
	// "é" as NFD (e + combining acute) must encode the same as NFC "é".
	nfd := "é"
	nfc := "é"

	a, err := Marshal(nfd)
	require.NoError(t, err)
	b, err := Marshal(nfc)
	require.NoError(t, err)
	assert.Equal(t, string(b), string(a))
}

func TestMarshalFloatStability(t *testing.T) {
	// Shortest round-trip decimal, no exponent, no trailing zeros.
	tests := []struct {
		input    float64
		expected string
	}{
		{0.1, "0.1"},
		{1.0 / 3.0, "0.3333333333333333"},
		{1e-7, "0.0000001"},
		{1719847200.25, "1719847200.25"},
		{math.Sqrt2, "1.4142135623730951"},
	}

	for _, tt := range tests {
		result, err := Marshal(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, string(result), "input %v", tt.input)
	}
}

func TestMarshalRejectsNaNAndInf(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Marshal(map[string]any{"v": f})
		require.Error(t, err)
		var ee *EncodeError
		require.ErrorAs(t, err, &ee)
		assert.Equal(t, "v", ee.Path)
	}
}

func TestMarshalRejectsUnsupportedType(t *testing.T) {
	_, err := Marshal(map[string]any{"ch": make(chan int)})
	require.Error(t, err)
	var ee *EncodeError
	require.ErrorAs(t, err, &ee)
	assert.Contains(t, ee.Message, "unsupported type")
}

func TestMarshalErrorPathNested(t *testing.T) {
	obj := map[string]any{
		"transactions": []any{
			map[string]any{"amount": 10.0},
			map[string]any{"amount": math.NaN()},
		},
	}

	_, err := Marshal(obj)
	require.Error(t, err)
	var ee *EncodeError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "transactions[1].amount", ee.Path)
}

func TestMarshalGolden(t *testing.T) {
	obj := map[string]any{
		"index":     int64(3),
		"timestamp": 1719847200.5,
		"prev_hash": "0",
		"transactions": []any{
			map[string]any{"from": "Alice", "to": "Bob", "amount": 10.0},
			map[string]any{"from": "Eve", "to": "Carl", "amount": 5.0},
		},
		"projection": []float64{1, 0, 0.5, 0, 0},
	}

	result, err := Marshal(obj)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "block_encoding", result)
}
