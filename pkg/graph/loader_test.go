package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDataset = `
directed: false
nodes:
  - {id: a, type: paper, features: [1, 0], target: [1, 0]}
  - {id: b, type: paper, features: [0, 1]}
  - {id: c, type: paper, features: [1, 1], target: [0, 1]}
edges:
  - [a, b]
  - [b, c]
`

func writeDataset(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDocument(t *testing.T) {
	doc, err := LoadDocument(writeDataset(t, sampleDataset))
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 3)
	require.Len(t, doc.Edges, 2)

	g, err := doc.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, g.Nodes())
	require.NoError(t, g.CheckForML())
	assert.Equal(t, []string{"paper"}, g.Schema().NodeTypes)
	assert.ElementsMatch(t, []string{"a", "c"}, g.Subgraph(g.Nodes()).Neighbors("b"))

	ids, values := doc.Targets()
	assert.Equal(t, []string{"a", "c"}, ids)
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}}, values)
}

func TestLoadDocumentErrors(t *testing.T) {
	_, err := LoadDocument(writeDataset(t, "nodes: []\nunknown: 1\n"))
	assert.Error(t, err)

	_, err = LoadDocument(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	doc, err := LoadDocument(writeDataset(t, "nodes:\n  - {id: a, features: [1]}\nedges:\n  - [a]\n"))
	require.NoError(t, err)
	_, err = doc.Build()
	assert.Error(t, err)

	doc, err = LoadDocument(writeDataset(t, "nodes:\n  - {id: a, features: [1]}\nedges:\n  - [a, b]\n"))
	require.NoError(t, err)
	_, err = doc.Build()
	assert.ErrorIs(t, err, ErrNodeNotFound)
}
