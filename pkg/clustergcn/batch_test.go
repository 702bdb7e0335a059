package clustergcn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestTensorAt(t *testing.T) {
	tensor := batchTensor(mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}))
	assert.Equal(t, []int{1, 2, 3}, tensor.Shape)
	assert.Equal(t, 6.0, tensor.At(0, 1, 2))
	assert.Equal(t, 2.0, tensor.At(0, 0, 1))

	assert.Panics(t, func() { tensor.At(0, 2, 0) })
	assert.Panics(t, func() { tensor.At(1, 1) })
}

func TestIndexTensor(t *testing.T) {
	idx := indexTensor([]int{4, 0, 2})
	assert.Equal(t, []int{1, 1, 3}, idx.Shape)
	assert.Equal(t, 2, idx.At(0, 0, 2))

	empty := indexTensor([]int{})
	assert.Equal(t, []int{1, 1, 0}, empty.Shape)
	assert.Panics(t, func() { empty.At(0, 0, 0) })
}
