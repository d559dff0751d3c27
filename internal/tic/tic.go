// Package tic implements the temporal information condenser: given a
// collection of vectors, it selects the attractor, the member with
// maximum total pairwise resonance against the whole collection.
//
// Selection is exact: every candidate is scored against every member
// (O(n²)), no sampling or approximation, because downstream invariant
// checks depend on exact selection. Ties go to the FIRST candidate in
// input order reaching the maximum; ties are never merged or averaged.
package tic

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ringlabs/saturn/internal/vec"
)

// ErrEmptyInput is returned when Condense or TensorProduct receives no
// vectors.
var ErrEmptyInput = errors.New("empty vector collection")

// Default tolerances for Invariant.
const (
	DefaultAtol = 1e-6
	DefaultRtol = 1e-6
)

// Condenser selects attractors and caches the most recent result.
//
// The cache is advisory state for callers that want "the current
// condensate"; it is never consulted during selection. Safe for
// concurrent use.
type Condenser struct {
	mu    sync.RWMutex
	state vec.Vector
}

// New creates a Condenser with no cached state.
func New() *Condenser {
	return &Condenser{}
}

// Condense returns the member of vectors with the strictly maximum
// total resonance against all members (including itself, which
// contributes 1 for any nonzero vector). The result is a copy of an
// input member, not a synthesized vector.
//
// Fails with ErrEmptyInput on an empty collection and propagates
// resonance errors (mixed dimensions, zero-norm members).
func (c *Condenser) Condense(vectors []vec.Vector) (vec.Vector, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyInput
	}

	best := -1
	var bestScore float64
	for i, candidate := range vectors {
		var total float64
		for j, other := range vectors {
			r, err := vec.Cosine(candidate, other)
			if err != nil {
				return nil, fmt.Errorf("condense: resonance(%d, %d): %w", i, j, err)
			}
			total += r
		}
		// Strict inequality keeps the first maximal candidate.
		if best < 0 || total > bestScore {
			best = i
			bestScore = total
		}
	}

	attractor := vec.Clone(vectors[best])
	c.mu.Lock()
	c.state = vec.Clone(attractor)
	c.mu.Unlock()
	return attractor, nil
}

// CondenseHistories flattens an ordered collection of histories (each
// an ordered sequence of vectors) and condenses the combined points.
func (c *Condenser) CondenseHistories(histories [][]vec.Vector) (vec.Vector, error) {
	var points []vec.Vector
	for _, history := range histories {
		points = append(points, history...)
	}
	return c.Condense(points)
}

// State returns a copy of the most recent condensate, if any.
func (c *Condenser) State() (vec.Vector, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state == nil {
		return nil, false
	}
	return vec.Clone(c.state), true
}

// InvariantOption overrides the default tolerances.
type InvariantOption func(*invariantConfig)

type invariantConfig struct {
	atol float64
	rtol float64
}

// WithAtol sets the absolute tolerance.
func WithAtol(atol float64) InvariantOption {
	return func(cfg *invariantConfig) { cfg.atol = atol }
}

// WithRtol sets the relative tolerance.
func WithRtol(rtol float64) InvariantOption {
	return func(cfg *invariantConfig) { cfg.rtol = rtol }
}

// Invariant reports elementwise approximate equality: for every
// component, |a_k - b_k| <= atol + rtol*|b_k|. Vectors of different
// lengths are not invariant; that is a false result, not an error.
func Invariant(a, b vec.Vector, opts ...InvariantOption) bool {
	if len(a) != len(b) {
		return false
	}

	cfg := invariantConfig{atol: DefaultAtol, rtol: DefaultRtol}
	for _, opt := range opts {
		opt(&cfg)
	}

	for k := range a {
		diff := a[k] - b[k]
		if diff < 0 {
			diff = -diff
		}
		ref := b[k]
		if ref < 0 {
			ref = -ref
		}
		if diff > cfg.atol+cfg.rtol*ref {
			return false
		}
	}
	return true
}

// TensorProduct synthesizes a new vector as the iterative Kronecker
// product of blocks: result = result ⊗ next, starting from the first
// block. The output length is the product of the input lengths.
func TensorProduct(blocks []vec.Vector) (vec.Vector, error) {
	if len(blocks) == 0 {
		return nil, ErrEmptyInput
	}

	result := vec.Clone(blocks[0])
	for _, block := range blocks[1:] {
		next := make(vec.Vector, 0, len(result)*len(block))
		for _, r := range result {
			for _, b := range block {
				next = append(next, r*b)
			}
		}
		result = next
	}
	return result, nil
}
