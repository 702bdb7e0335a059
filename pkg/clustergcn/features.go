package clustergcn

import (
	"fmt"

	"github.com/x448/float16"
	"gonum.org/v1/gonum/mat"
)

// featureCache holds the feature vector of every graph node, fetched once at
// generator construction. Rows are addressed through index.
type featureCache struct {
	index map[string]int
	dim   int

	full *mat.Dense        // Float64 storage
	half []float16.Float16 // Float16 storage, row-major
}

func newFeatureCache(nodes []string, feats *mat.Dense, precision Precision) (*featureCache, error) {
	rows, dim := feats.Dims()
	if rows != len(nodes) {
		return nil, fmt.Errorf("feature matrix has %d rows for %d nodes: %w", rows, len(nodes), ErrMissingFeatures)
	}

	c := &featureCache{
		index: make(map[string]int, len(nodes)),
		dim:   dim,
	}
	for i, id := range nodes {
		c.index[id] = i
	}

	switch precision {
	case Float16:
		c.half = make([]float16.Float16, 0, rows*dim)
		for i := 0; i < rows; i++ {
			for _, v := range feats.RawRowView(i) {
				c.half = append(c.half, float16.Fromfloat32(float32(v)))
			}
		}
	default:
		c.full = mat.DenseCopyOf(feats)
	}
	return c, nil
}

// gather returns a len(ids) x dim matrix, row i holding the features of ids[i].
func (c *featureCache) gather(ids []string) (*mat.Dense, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("features: empty node list: %w", ErrUnknownNode)
	}
	out := mat.NewDense(len(ids), c.dim, nil)
	for i, id := range ids {
		row, ok := c.index[id]
		if !ok {
			return nil, fmt.Errorf("features for %q: %w", id, ErrUnknownNode)
		}
		if c.full != nil {
			out.SetRow(i, c.full.RawRowView(row))
			continue
		}
		dst := out.RawRowView(i)
		for j, h := range c.half[row*c.dim : (row+1)*c.dim] {
			dst[j] = float64(h.Float32())
		}
	}
	return out, nil
}
