// Package vec provides fixed-dimension float64 vector math: norm, dot
// product, and cosine similarity ("resonance") with explicit failure on
// dimension mismatch or zero-norm inputs.
//
// There is no epsilon fallback anywhere: a zero vector has no direction
// and comparing against one is an error, never a silent 0.
package vec

import (
	"errors"
	"math"
)

// Vector is an ordered sequence of float64 components. The dimension is
// fixed by construction; operations over two vectors require equal
// dimensions.
type Vector = []float64

// Sentinel errors for vector operations.
var (
	// ErrDimensionMismatch is returned when an operation receives two
	// vectors of different lengths.
	ErrDimensionMismatch = errors.New("vectors must have the same dimension")

	// ErrZeroVector is returned when cosine similarity is requested for
	// a vector whose norm is exactly zero.
	ErrZeroVector = errors.New("cannot compute cosine similarity for zero vector")
)

// Dot returns the dot product of x and y.
func Dot(x, y Vector) (float64, error) {
	if len(x) != len(y) {
		return 0, ErrDimensionMismatch
	}
	var sum float64
	for i := range x {
		sum += x[i] * y[i]
	}
	return sum, nil
}

// Norm returns the Euclidean norm of x. The norm of an empty vector is 0.
func Norm(x Vector) float64 {
	var sumSq float64
	for _, v := range x {
		sumSq += v * v
	}
	return math.Sqrt(sumSq)
}

// Cosine returns the cosine similarity dot(x,y) / (|x|*|y|).
//
// Fails with ErrDimensionMismatch when len(x) != len(y) and with
// ErrZeroVector when either norm is exactly zero.
func Cosine(x, y Vector) (float64, error) {
	dot, err := Dot(x, y)
	if err != nil {
		return 0, err
	}
	xNorm := Norm(x)
	yNorm := Norm(y)
	if xNorm == 0 || yNorm == 0 {
		return 0, ErrZeroVector
	}
	return dot / (xNorm * yNorm), nil
}

// Clone returns an independent copy of x. A nil input yields nil.
func Clone(x Vector) Vector {
	if x == nil {
		return nil
	}
	out := make(Vector, len(x))
	copy(out, x)
	return out
}

// IsFinite reports whether every component of x is a finite number.
func IsFinite(x Vector) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
