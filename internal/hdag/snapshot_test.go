package hdag

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringlabs/saturn/internal/vec"
)

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")

	g := New(WithSnapshotPath(path))
	require.NoError(t, g.AddNode("a", vec.Vector{1, 0}))
	require.NoError(t, g.AddNode("b", vec.Vector{0, 1}))
	require.NoError(t, g.AddNode("c", vec.Vector{1, 1}))
	require.NoError(t, g.AddEdge("a", "b", 0.3))
	require.NoError(t, g.AddEdge("a", "c", 0.7))
	require.NoError(t, g.AddEdge("b", "c", -1.5))

	restored := New()
	require.NoError(t, restored.Load(path))

	for _, name := range []string{"a", "b", "c"} {
		want, err := g.Node(name)
		require.NoError(t, err)
		got, err := restored.Node(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, "node %s", name)
	}
	assert.Equal(t, g.Edges(), restored.Edges())

	neighbors, err := restored.Neighbors("a")
	require.NoError(t, err)
	assert.Equal(t, []Neighbor{{Target: "b", Weight: 0.3}, {Target: "c", Weight: 0.7}}, neighbors)
}

func TestSnapshotWrittenOnEveryMutation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	g := New(WithSnapshotPath(path))

	require.NoError(t, g.AddNode("a", vec.Vector{1, 0}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var snap struct {
		Nodes map[string][]float64 `json:"nodes"`
		Edges [][]any              `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, []float64{1, 0}, snap.Nodes["a"])
	assert.Empty(t, snap.Edges)

	require.NoError(t, g.AddNode("b", vec.Vector{0, 1}))
	require.NoError(t, g.AddEdge("a", "b", 2.5))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &snap))
	require.Len(t, snap.Edges, 1)
	assert.Equal(t, []any{"a", "b", 2.5}, snap.Edges[0])
}

func TestSnapshotFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	g := New(WithSnapshotPath(path))
	require.NoError(t, g.AddNode("n", vec.Vector{0.5}))
	require.NoError(t, g.AddEdge("n", "n", 1))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodes":{"n":[0.5]},"edges":[["n","n",1]]}`, string(data))
}

func TestSnapshotNoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	g := New(WithSnapshotPath(path))
	require.NoError(t, g.AddNode("a", vec.Vector{1}))
	require.NoError(t, g.AddNode("b", vec.Vector{2}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "graph.json", entries[0].Name())
}

func TestLoadRejectsMalformedEdges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"nodes":{},"edges":[["a","b"]]}`), 0o644))

	g := New()
	err := g.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "edge 0")
}

func TestLoadMissingFile(t *testing.T) {
	g := New()
	assert.Error(t, g.Load(filepath.Join(t.TempDir(), "absent.json")))
}
