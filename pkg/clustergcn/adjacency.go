package clustergcn

import (
	"github.com/sanonone/clustergcn/pkg/graph"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// buildAdjacency returns the unweighted adjacency matrix of view. Rows and
// columns follow nodes; lookup maps each id to its position in nodes.
func buildAdjacency(view graph.View, nodes []string, lookup map[string]int) *mat.Dense {
	n := len(nodes)
	adj := mat.NewDense(n, n, nil)
	for i, id := range nodes {
		for _, nb := range view.Neighbors(id) {
			if j, ok := lookup[nb]; ok {
				adj.Set(i, j, 1)
			}
		}
	}
	return adj
}

// normalizeAdjacency applies the ClusterGCN diagonal enhancement in place:
//
//	A' = D^-1 (A + I),  then  A'_ii *= (1 + lam)
//
// where D_ii = deg(i) + 1, deg counting neighbours other than i itself.
// That is the row sum of A + I, so row scaling is enough to apply D^-1.
func normalizeAdjacency(adj *mat.Dense, lam float64) {
	n, _ := adj.Dims()
	for i := 0; i < n; i++ {
		adj.Set(i, i, 1)
	}
	for i := 0; i < n; i++ {
		row := adj.RawRowView(i)
		floats.Scale(1/floats.Sum(row), row)
		row[i] *= 1 + lam
	}
}
