package clustergcn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Tensor is a dense row-major float tensor.
type Tensor struct {
	Shape []int
	Data  []float64
}

// At returns the element at the given coordinates. It panics if the number
// of coordinates does not match the rank or a coordinate is out of range.
func (t Tensor) At(idx ...int) float64 {
	return t.Data[offset(t.Shape, idx)]
}

// IndexTensor is the integer counterpart of Tensor, used for gather indices.
type IndexTensor struct {
	Shape []int
	Data  []int
}

// At returns the element at the given coordinates.
func (t IndexTensor) At(idx ...int) int {
	return t.Data[offset(t.Shape, idx)]
}

func offset(shape, idx []int) int {
	if len(idx) != len(shape) {
		panic(fmt.Sprintf("clustergcn: %d indices for rank %d tensor", len(idx), len(shape)))
	}
	off := 0
	for d, i := range idx {
		if i < 0 || i >= shape[d] {
			panic(fmt.Sprintf("clustergcn: index %d out of range for dimension %d of size %d", i, d, shape[d]))
		}
		off = off*shape[d] + i
	}
	return off
}

// Batch is one ClusterGCN mini-batch. Every tensor carries a leading batch
// dimension of one so it can be fed to a model as is.
type Batch struct {
	// Features has shape (1, n, f): row i is the feature vector of Nodes[i].
	Features Tensor
	// TargetIndices has shape (1, 1, t): positions of TargetNodes within Nodes.
	TargetIndices IndexTensor
	// Adjacency has shape (1, n, n), rows and columns ordered as Nodes.
	Adjacency Tensor
	// Targets has shape (1, t, c), or is nil when the sequence has no target values.
	Targets *Tensor

	// Nodes is the subgraph node order used by every tensor above.
	Nodes []string
	// TargetNodes are the target ids present in this batch, in Nodes order.
	TargetNodes []string
}

// NumNodes returns n, the number of subgraph nodes.
func (b Batch) NumNodes() int { return len(b.Nodes) }

// NumTargets returns t, the number of target nodes in the batch.
func (b Batch) NumTargets() int { return len(b.TargetNodes) }

// batchTensor copies m into a (1, rows, cols) tensor.
func batchTensor(m *mat.Dense) Tensor {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		data = append(data, m.RawRowView(i)...)
	}
	return Tensor{Shape: []int{1, r, c}, Data: data}
}

func indexTensor(indices []int) IndexTensor {
	return IndexTensor{Shape: []int{1, 1, len(indices)}, Data: indices}
}
