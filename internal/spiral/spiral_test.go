package spiral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringlabs/saturn/internal/vec"
)

func TestMapAtZero(t *testing.T) {
	p := Map(0, Coefficients{A: 1, B: 0.5, C: 0.1})
	require.Len(t, p, Dimension)
	assert.Equal(t, vec.Vector{1, 0, 0.5, 0, 0}, p)
}

func TestMapQuarterTurn(t *testing.T) {
	p := Map(math.Pi/2, DefaultCoefficients)
	assert.InDelta(t, 0, p[0], 1e-12)           // cos(π/2)
	assert.InDelta(t, 1, p[1], 1e-12)           // sin(π/2)
	assert.InDelta(t, -0.5, p[2], 1e-12)        // 0.5·cos(π)
	assert.InDelta(t, 0, p[3], 1e-12)           // 0.5·sin(π)
	assert.InDelta(t, 0.1*math.Pi/2, p[4], 1e-12)
}

func TestMapIsDeterministic(t *testing.T) {
	a := Map(2.37, DefaultCoefficients)
	b := Map(2.37, DefaultCoefficients)
	assert.Equal(t, a, b)
}

func TestResonanceSelf(t *testing.T) {
	p := Map(1.0, DefaultCoefficients)
	r, err := Resonance(p, p)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r, 1e-12)
}

func TestResonanceErrors(t *testing.T) {
	p := Map(1.0, DefaultCoefficients)

	_, err := Resonance(p, vec.Vector{1, 2})
	assert.ErrorIs(t, err, vec.ErrDimensionMismatch)

	_, err = Resonance(p, vec.Vector{0, 0, 0, 0, 0})
	assert.ErrorIs(t, err, vec.ErrZeroVector)
}
