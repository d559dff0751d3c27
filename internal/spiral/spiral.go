// Package spiral maps a scalar angle onto a five-dimensional spiral.
//
// The embedding is closed-form and stateless; it is used to project a
// block index into vector space so the ledger's history can participate
// in resonance computations.
package spiral

import (
	"math"

	"github.com/ringlabs/saturn/internal/vec"
)

// Dimension is the fixed length of every spiral point.
const Dimension = 5

// Coefficients parameterize the spiral.
type Coefficients struct {
	// A is the radius of the first two dimensions.
	A float64
	// B is the radius of the third and fourth dimensions.
	B float64
	// C is the growth rate of the fifth dimension.
	C float64
}

// DefaultCoefficients matches the canonical spiral: a=1, b=0.5, c=0.1.
var DefaultCoefficients = Coefficients{A: 1, B: 0.5, C: 0.1}

// Map returns the spiral point at angle theta:
//
//	(a·cosθ, a·sinθ, b·cos2θ, b·sin2θ, c·θ)
func Map(theta float64, c Coefficients) vec.Vector {
	return vec.Vector{
		c.A * math.Cos(theta),
		c.A * math.Sin(theta),
		c.B * math.Cos(2*theta),
		c.B * math.Sin(2*theta),
		c.C * theta,
	}
}

// Resonance is cosine similarity between two points, duplicated here so
// the spiral can be used standalone. Same contract as vec.Cosine: fails
// on dimension mismatch or zero-norm input.
func Resonance(x, y vec.Vector) (float64, error) {
	return vec.Cosine(x, y)
}
