// Package clustergcn prepares mini-batches for ClusterGCN training
// (Chiang et al., 2019, https://arxiv.org/abs/1905.07953).
//
// A Generator partitions a graph into clusters once. Each call to Flow returns
// a Sequence that, for every batch index, extracts the subgraph induced by a
// cluster (or by q merged clusters), builds its normalised adjacency matrix
// and gathers the matching features and targets.
//
// Basic usage:
//
//	cfg := clustergcn.DefaultConfig()
//	cfg.Clusters = clustergcn.Count(10)
//	gen, err := clustergcn.NewGenerator(g, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	seq, err := gen.Flow(trainIDs, trainTargets)
//	for epoch := 0; epoch < epochs; epoch++ {
//	    for i := 0; i < seq.Len(); i++ {
//	        batch, err := seq.Get(i)
//	        ...
//	    }
//	    seq.OnEpochEnd()
//	}
//
// Generators and sequences are not safe for concurrent use.
package clustergcn

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/sanonone/clustergcn/pkg/graph"
	"github.com/sanonone/clustergcn/pkg/metrics"
)

// Generator holds a fixed partition of a graph and produces Sequences.
type Generator struct {
	graph    graph.Graph
	cfg      Config
	k        int
	clusters [][]string
	nodes    []string
	features *featureCache
	rng      *rand.Rand
}

// NewGenerator validates cfg against g, partitions the graph and caches
// every node's features. Nothing is returned on error.
func NewGenerator(g graph.Graph, cfg Config) (*Generator, error) {
	if g == nil {
		return nil, fmt.Errorf("graph must not be nil: %w", ErrInvalidType)
	}
	if cfg.Name == "" {
		cfg.Name = DefaultConfig().Name
	}
	if cfg.FeaturePrecision == "" {
		cfg.FeaturePrecision = Float64
	}

	// 1. Parameters
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Name, err)
	}

	// 2. Graph preconditions
	if err := g.CheckForML(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", cfg.Name, ErrMissingFeatures, err)
	}
	schema := g.Schema()
	if len(schema.NodeTypes) != 1 {
		return nil, fmt.Errorf("%s: node generator requires a graph with a single node type, got %d %v: %w",
			cfg.Name, len(schema.NodeTypes), schema.NodeTypes, ErrUnsupported)
	}

	// 3. Partition
	rng := newRand(cfg.Seed)
	nodes := g.Nodes()
	clusters, err := resolvePartition(cfg.Clusters, nodes, rng)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Name, err)
	}

	// 4. Feature pre-fetch
	feats, err := g.NodeFeatures(nodes)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch features: %w: %w", cfg.Name, ErrMissingFeatures, err)
	}
	cache, err := newFeatureCache(nodes, feats, cfg.FeaturePrecision)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Name, err)
	}

	gen := &Generator{
		graph:    g,
		cfg:      cfg,
		k:        len(clusters),
		clusters: clusters,
		nodes:    nodes,
		features: cache,
		rng:      rng,
	}

	slog.Info("[ClusterGCN] Partition ready", "generator", cfg.Name, "clusters", gen.k, "nodes", len(nodes), "q", cfg.Q)
	for i, c := range clusters {
		slog.Debug("[ClusterGCN] Cluster size", "generator", cfg.Name, "cluster", i, "size", len(c))
	}
	metrics.Clusters.WithLabelValues(cfg.Name).Set(float64(gen.k))

	return gen, nil
}

// Flow returns a Sequence over the generator's clusters for the given target
// nodes. targets is optional; when non-nil it must have one row per node id,
// row i holding the target values of nodeIDs[i].
func (g *Generator) Flow(nodeIDs []string, targets [][]float64) (*Sequence, error) {
	if targets != nil && len(targets) != len(nodeIDs) {
		return nil, fmt.Errorf("%s: targets must be the same length as node ids (%d != %d): %w",
			g.cfg.Name, len(targets), len(nodeIDs), ErrInvalidConfig)
	}

	return newSequence(sequenceParams{
		name:      g.cfg.Name,
		graph:     g.graph,
		features:  g.features,
		clusters:  g.clusters,
		nodeIDs:   nodeIDs,
		targets:   targets,
		q:         g.cfg.Q,
		lam:       g.cfg.Lam,
		normalize: g.cfg.Normalize,
		rng:       rand.New(rand.NewPCG(g.rng.Uint64(), g.rng.Uint64())),
	})
}

// Name returns the generator name used in logs and metrics.
func (g *Generator) Name() string { return g.cfg.Name }

// K returns the number of clusters.
func (g *Generator) K() int { return g.k }

// Q returns the number of clusters merged per batch.
func (g *Generator) Q() int { return g.cfg.Q }

// Lam returns the diagonal enhancement coefficient.
func (g *Generator) Lam() float64 { return g.cfg.Lam }

// Nodes returns the graph node list in feature-cache order.
func (g *Generator) Nodes() []string { return slices.Clone(g.nodes) }

// Clusters returns a copy of the partition.
func (g *Generator) Clusters() [][]string { return cloneClusters(g.clusters) }

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
