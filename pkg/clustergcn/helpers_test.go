package clustergcn

import (
	"fmt"
	"testing"

	"github.com/sanonone/clustergcn/pkg/graph"
	"github.com/stretchr/testify/require"
)

// chainGraph builds n0 - n1 - ... - n{n-1} with features [i, 2i].
func chainGraph(t *testing.T, n int) *graph.Memory {
	t.Helper()
	g := graph.NewMemory(false)
	for i := 0; i < n; i++ {
		require.NoError(t, g.AddNode(nodeID(i), "", []float64{float64(i), float64(2 * i)}))
	}
	for i := 1; i < n; i++ {
		require.NoError(t, g.AddEdge(nodeID(i-1), nodeID(i)))
	}
	return g
}

func nodeID(i int) string { return fmt.Sprintf("n%d", i) }

func testConfig(name string) Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Seed = 42
	return cfg
}

// coverage counts how many times each node appears across clusters.
func coverage(clusters [][]string) map[string]int {
	seen := make(map[string]int)
	for _, c := range clusters {
		for _, id := range c {
			seen[id]++
		}
	}
	return seen
}

func requirePartitionOf(t *testing.T, clusters [][]string, nodes []string) {
	t.Helper()
	seen := coverage(clusters)
	require.Len(t, seen, len(nodes))
	for _, id := range nodes {
		require.Equalf(t, 1, seen[id], "node %s should appear exactly once", id)
	}
}
