// Package hdag implements the resonance graph: a mutable store of named
// vector nodes with directed, weighted edges and cosine-similarity
// queries.
//
// Despite the historical name ("hierarchical DAG"), acyclicity is NOT
// enforced; edges may form cycles and duplicate edges are permitted.
// Nodes use overwrite-on-insert semantics, edges are append-only, and
// Neighbors preserves edge insertion order.
//
// A Graph is safe for concurrent use: one exclusive writer, concurrent
// readers. With a snapshot path configured, every successful mutation
// rewrites the on-disk snapshot atomically (write to temp, then
// rename), so an interrupted process never leaves a torn file.
package hdag

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ringlabs/saturn/internal/vec"
)

// Sentinel errors for graph operations.
var (
	// ErrUnknownNode is returned when an operation references a node
	// name absent from the node set.
	ErrUnknownNode = errors.New("unknown node")

	// ErrInvalidVector is returned when a node vector is empty or
	// contains non-finite components.
	ErrInvalidVector = errors.New("node vector must be a non-empty finite numeric sequence")
)

// Edge is a directed weighted connection between two existing nodes.
// Edges are stored in insertion order; duplicates are not deduplicated.
type Edge struct {
	Source string
	Target string
	Weight float64
}

// Neighbor is one outgoing edge endpoint as returned by Neighbors.
type Neighbor struct {
	Target string
	Weight float64
}

// Graph is the resonance graph.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]vec.Vector
	edges []Edge

	snapshotPath string
}

// Option configures a Graph at construction.
type Option func(*Graph)

// WithSnapshotPath enables snapshot persistence: after every successful
// mutation the full graph is rewritten to path atomically.
func WithSnapshotPath(path string) Option {
	return func(g *Graph) { g.snapshotPath = path }
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{nodes: make(map[string]vec.Vector)}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddNode inserts or overwrites the named node. Re-adding a name
// replaces its vector; edges referencing the name survive.
func (g *Graph) AddNode(name string, v vec.Vector) error {
	if len(v) == 0 || !vec.IsFinite(v) {
		return fmt.Errorf("add node %q: %w", name, ErrInvalidVector)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes[name] = vec.Clone(v)
	return g.persistLocked()
}

// AddEdge appends a directed edge from src to dst. Both endpoints must
// already exist.
func (g *Graph) AddEdge(src, dst string, weight float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[src]; !ok {
		return fmt.Errorf("add edge: source %q: %w", src, ErrUnknownNode)
	}
	if _, ok := g.nodes[dst]; !ok {
		return fmt.Errorf("add edge: target %q: %w", dst, ErrUnknownNode)
	}
	g.edges = append(g.edges, Edge{Source: src, Target: dst, Weight: weight})
	return g.persistLocked()
}

// Node returns a copy of the named node's vector.
func (g *Graph) Node(name string) (vec.Vector, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v, ok := g.nodes[name]
	if !ok {
		return nil, fmt.Errorf("node %q: %w", name, ErrUnknownNode)
	}
	return vec.Clone(v), nil
}

// Resonance is cosine similarity between two vectors. Same contract as
// vec.Cosine: dimension mismatch and zero-norm inputs are errors, never
// a silent zero.
func (g *Graph) Resonance(x, y vec.Vector) (float64, error) {
	return vec.Cosine(x, y)
}

// ResonanceByName computes resonance between two stored nodes.
func (g *Graph) ResonanceByName(a, b string) (float64, error) {
	g.mu.RLock()
	x, okA := g.nodes[a]
	y, okB := g.nodes[b]
	g.mu.RUnlock()

	if !okA {
		return 0, fmt.Errorf("node %q: %w", a, ErrUnknownNode)
	}
	if !okB {
		return 0, fmt.Errorf("node %q: %w", b, ErrUnknownNode)
	}
	return vec.Cosine(x, y)
}

// Neighbors returns the targets and weights of all edges whose source
// is name, in edge insertion order.
func (g *Graph) Neighbors(name string) ([]Neighbor, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.nodes[name]; !ok {
		return nil, fmt.Errorf("node %q: %w", name, ErrUnknownNode)
	}

	var out []Neighbor
	for _, e := range g.edges {
		if e.Source == name {
			out = append(out, Neighbor{Target: e.Target, Weight: e.Weight})
		}
	}
	return out, nil
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Edges returns a copy of the edge list in insertion order.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Reset removes all nodes and edges.
func (g *Graph) Reset() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes = make(map[string]vec.Vector)
	g.edges = nil
	return g.persistLocked()
}
