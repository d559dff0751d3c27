package hdag

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ringlabs/saturn/internal/vec"
)

// Snapshot is the on-disk representation of a graph:
//
//	{"nodes": {name: [f64, ...]}, "edges": [[src, dst, weight], ...]}
//
// Edges keep their insertion order. Node map order is irrelevant to the
// round-trip property; JSON objects are unordered.
type Snapshot struct {
	Nodes map[string][]float64 `json:"nodes"`
	Edges [][3]any             `json:"edges"`
}

// snapshotLocked builds a Snapshot from current state. Caller holds at
// least a read lock.
func (g *Graph) snapshotLocked() Snapshot {
	nodes := make(map[string][]float64, len(g.nodes))
	for name, v := range g.nodes {
		nodes[name] = vec.Clone(v)
	}
	edges := make([][3]any, len(g.edges))
	for i, e := range g.edges {
		edges[i] = [3]any{e.Source, e.Target, e.Weight}
	}
	return Snapshot{Nodes: nodes, Edges: edges}
}

// Snapshot returns the current snapshot of the graph.
func (g *Graph) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snapshotLocked()
}

// persistLocked rewrites the snapshot file if persistence is enabled.
// Caller holds the write lock. Write-to-temp then rename keeps the
// snapshot whole even if the process dies mid-write.
func (g *Graph) persistLocked() error {
	if g.snapshotPath == "" {
		return nil
	}

	data, err := json.Marshal(g.snapshotLocked())
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(g.snapshotPath)
	tmp, err := os.CreateTemp(dir, filepath.Base(g.snapshotPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot temp file: %w", err)
	}
	if err := os.Rename(tmpName, g.snapshotPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load replaces the graph's contents with the snapshot stored at path.
// Node vectors and the ordered edge list round-trip exactly.
func (g *Graph) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var raw struct {
		Nodes map[string][]float64 `json:"nodes"`
		Edges [][]json.RawMessage  `json:"edges"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	edges := make([]Edge, len(raw.Edges))
	for i, triple := range raw.Edges {
		if len(triple) != 3 {
			return fmt.Errorf("decode snapshot: edge %d has %d elements, want 3", i, len(triple))
		}
		var e Edge
		if err := json.Unmarshal(triple[0], &e.Source); err != nil {
			return fmt.Errorf("decode snapshot: edge %d source: %w", i, err)
		}
		if err := json.Unmarshal(triple[1], &e.Target); err != nil {
			return fmt.Errorf("decode snapshot: edge %d target: %w", i, err)
		}
		if err := json.Unmarshal(triple[2], &e.Weight); err != nil {
			return fmt.Errorf("decode snapshot: edge %d weight: %w", i, err)
		}
		edges[i] = e
	}

	nodes := make(map[string]vec.Vector, len(raw.Nodes))
	for name, v := range raw.Nodes {
		nodes[name] = vec.Clone(v)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodes = nodes
	g.edges = edges
	return nil
}
