package clustergcn

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// resolvePartition turns a ClusterSpec into the canonical [][]string partition.
func resolvePartition(spec ClusterSpec, nodes []string, rng *rand.Rand) ([][]string, error) {
	switch spec := spec.(type) {
	case Count:
		return randomPartition(nodes, int(spec), rng)
	case Explicit:
		return explicitPartition(spec, nodes)
	default:
		return nil, fmt.Errorf("unsupported cluster spec %T: %w", spec, ErrInvalidType)
	}
}

// randomPartition shuffles nodes and cuts them into k contiguous chunks of
// len(nodes)/k ids. The leftover ids are folded into the last chunk, so
// exactly k clusters come out.
func randomPartition(nodes []string, k int, rng *rand.Rand) ([][]string, error) {
	n := len(nodes)
	if k > n {
		return nil, fmt.Errorf("cannot split %d nodes into %d clusters: %w", n, k, ErrInvalidConfig)
	}

	shuffled := slices.Clone(nodes)
	rng.Shuffle(n, func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	size := n / k
	clusters := make([][]string, k)
	for c := 0; c < k; c++ {
		start := c * size
		end := start + size
		if c == k-1 {
			end = n
		}
		clusters[c] = shuffled[start:end:end]
	}
	return clusters, nil
}

// explicitPartition deep-copies a caller partition after checking that every
// cluster is non-empty, references known nodes and shares no node with another.
func explicitPartition(spec Explicit, nodes []string) ([][]string, error) {
	known := make(map[string]struct{}, len(nodes))
	for _, id := range nodes {
		known[id] = struct{}{}
	}

	owner := make(map[string]int)
	clusters := make([][]string, len(spec))
	for i, cluster := range spec {
		if len(cluster) == 0 {
			return nil, fmt.Errorf("cluster %d is empty: %w", i, ErrInvalidConfig)
		}
		for _, id := range cluster {
			if _, ok := known[id]; !ok {
				return nil, fmt.Errorf("cluster %d: node %q: %w: %w", i, id, ErrInvalidConfig, ErrUnknownNode)
			}
			if prev, dup := owner[id]; dup {
				return nil, fmt.Errorf("node %q appears in clusters %d and %d: %w", id, prev, i, ErrInvalidConfig)
			}
			owner[id] = i
		}
		clusters[i] = slices.Clone(cluster)
	}
	return clusters, nil
}

// combineClusters concatenates consecutive groups of q clusters, taking the
// clusters in the order given by perm.
func combineClusters(clusters [][]string, perm []int, q int) [][]string {
	combined := make([][]string, 0, len(perm)/q)
	for i := 0; i+q <= len(perm); i += q {
		size := 0
		for _, c := range perm[i : i+q] {
			size += len(clusters[c])
		}
		group := make([]string, 0, size)
		for _, c := range perm[i : i+q] {
			group = append(group, clusters[c]...)
		}
		combined = append(combined, group)
	}
	return combined
}

func cloneClusters(clusters [][]string) [][]string {
	out := make([][]string, len(clusters))
	for i, c := range clusters {
		out[i] = slices.Clone(c)
	}
	return out
}
