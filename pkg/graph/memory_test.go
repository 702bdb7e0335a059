package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryNodesAndFeatures(t *testing.T) {
	g := NewMemory(false)
	require.NoError(t, g.AddNode("b", "paper", []float64{1, 2}))
	require.NoError(t, g.AddNode("a", "paper", []float64{3, 4}))
	require.ErrorIs(t, g.AddNode("a", "paper", []float64{0, 0}), ErrNodeExists)

	assert.Equal(t, []string{"b", "a"}, g.Nodes())
	assert.Equal(t, 2, g.NumNodes())
	assert.False(t, g.Directed())

	feats, err := g.NodeFeatures([]string{"a", "b", "a"})
	require.NoError(t, err)
	r, c := feats.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, []float64{3, 4}, feats.RawRowView(0))
	assert.Equal(t, []float64{1, 2}, feats.RawRowView(1))

	_, err = g.NodeFeatures([]string{"ghost"})
	assert.ErrorIs(t, err, ErrNodeNotFound)
	_, err = g.NodeFeatures(nil)
	assert.Error(t, err)
}

func TestMemoryFeaturesAreCopied(t *testing.T) {
	g := NewMemory(false)
	f := []float64{1, 2}
	require.NoError(t, g.AddNode("a", "", f))
	f[0] = 99

	feats, err := g.NodeFeatures([]string{"a"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, feats.At(0, 0))
}

func TestMemoryCheckForML(t *testing.T) {
	g := NewMemory(false)
	assert.ErrorIs(t, g.CheckForML(), ErrEmptyGraph)

	require.NoError(t, g.AddNode("a", "", []float64{1, 2}))
	require.NoError(t, g.CheckForML())

	require.NoError(t, g.AddNode("b", "", []float64{1}))
	assert.Error(t, g.CheckForML())

	h := NewMemory(false)
	require.NoError(t, h.AddNode("a", "", nil))
	assert.ErrorIs(t, h.CheckForML(), ErrNoFeatures)
}

func TestMemorySchema(t *testing.T) {
	g := NewMemory(false)
	require.NoError(t, g.AddNode("a", "", []float64{1}))
	assert.Equal(t, []string{DefaultNodeType}, g.Schema().NodeTypes)

	require.NoError(t, g.AddNode("b", "paper", []float64{1}))
	require.NoError(t, g.AddNode("c", "author", []float64{1}))
	assert.Equal(t, []string{"author", "default", "paper"}, g.Schema().NodeTypes)
	assert.Equal(t, []string{DefaultEdgeType}, g.Schema().EdgeTypes)
}

func TestMemorySubgraph(t *testing.T) {
	g := NewMemory(false)
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, g.AddNode(id, "", []float64{1}))
	}
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "c"))
	require.NoError(t, g.AddEdge("c", "d"))
	require.NoError(t, g.AddEdge("a", "b")) // duplicate
	require.ErrorIs(t, g.AddEdge("a", "zzz"), ErrNodeNotFound)
	require.ErrorIs(t, g.AddEdge("zzz", "a"), ErrNodeNotFound)

	view := g.Subgraph([]string{"c", "a", "b", "ghost", "a"})
	assert.Equal(t, []string{"a", "b", "c"}, view.Nodes())

	assert.ElementsMatch(t, []string{"b"}, view.Neighbors("a"))
	assert.ElementsMatch(t, []string{"a", "c"}, view.Neighbors("b"))
	// d is outside the view
	assert.ElementsMatch(t, []string{"b"}, view.Neighbors("c"))
	assert.Empty(t, view.Neighbors("d"))
	assert.Empty(t, view.Neighbors("ghost"))
}

func TestMemoryDirectedAndLoops(t *testing.T) {
	g := NewMemory(true)
	for _, id := range []string{"a", "b"} {
		require.NoError(t, g.AddNode(id, "", []float64{1}))
	}
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "b"))

	view := g.Subgraph([]string{"a", "b"})
	assert.Equal(t, []string{"b"}, view.Neighbors("a"))
	assert.Equal(t, []string{"b"}, view.Neighbors("b"))
}
