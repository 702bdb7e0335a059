package clustergcn

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/sanonone/clustergcn/pkg/graph"
	"github.com/sanonone/clustergcn/pkg/metrics"
	"github.com/tidwall/btree"
	"gonum.org/v1/gonum/mat"
)

// Sequence serves the mini-batches of one flow. It is created by
// Generator.Flow and is reusable across any number of epochs.
//
// Between epochs the training driver calls OnEpochEnd, which reshuffles (and,
// for q > 1, regroups) the clusters. A Sequence is meant for a single
// sequential consumer.
type Sequence struct {
	id        string
	name      string
	graph     graph.Graph
	features  *featureCache
	q         int
	lam       float64
	normalize bool
	rng       *rand.Rand

	clustersOriginal [][]string
	clusters         [][]string

	targetIDs    []string
	targetSet    map[string]struct{}
	targets      *mat.Dense // nil when no target values were given, or when there are none
	targetWidth  int
	hasTargets   bool
	targetLookup map[string]int

	// buffer collects the target ids seen per batch index during an epoch.
	buffer    btree.Map[int, []string]
	nodeOrder []string
}

type sequenceParams struct {
	name      string
	graph     graph.Graph
	features  *featureCache
	clusters  [][]string
	nodeIDs   []string
	targets   [][]float64
	q         int
	lam       float64
	normalize bool
	rng       *rand.Rand
}

func newSequence(p sequenceParams) (*Sequence, error) {
	if p.q <= 0 {
		return nil, fmt.Errorf("q must be greater than 0, got %d: %w", p.q, ErrInvalidValue)
	}
	if len(p.clusters)%p.q != 0 {
		return nil, fmt.Errorf("the number of clusters (%d) is not exactly divisible by q (%d): %w",
			len(p.clusters), p.q, ErrInvalidConfig)
	}

	s := &Sequence{
		id:               uuid.NewString(),
		name:             p.name,
		graph:            p.graph,
		features:         p.features,
		q:                p.q,
		lam:              p.lam,
		normalize:        p.normalize,
		rng:              p.rng,
		clustersOriginal: cloneClusters(p.clusters),
		targetIDs:        slices.Clone(p.nodeIDs),
		targetSet:        make(map[string]struct{}, len(p.nodeIDs)),
	}
	for _, id := range s.targetIDs {
		s.targetSet[id] = struct{}{}
	}

	if p.targets != nil {
		if err := s.setTargets(p.targets); err != nil {
			return nil, err
		}
	}

	s.OnEpochEnd()
	slog.Debug("[ClusterGCN] Sequence created", "generator", s.name, "sequence", s.id,
		"batches", s.Len(), "targets", len(s.targetIDs), "with_values", s.hasTargets)
	return s, nil
}

// setTargets stores the target rows and builds the id -> row lookup.
// When an id is listed twice, its last row wins.
func (s *Sequence) setTargets(rows [][]float64) error {
	if len(rows) != len(s.targetIDs) {
		return fmt.Errorf("targets and node ids should be the same length (%d != %d): %w",
			len(rows), len(s.targetIDs), ErrInvalidConfig)
	}

	s.hasTargets = true
	s.targetLookup = make(map[string]int, len(rows))
	for i, id := range s.targetIDs {
		s.targetLookup[id] = i
	}
	if len(rows) == 0 {
		return nil
	}

	width := len(rows[0])
	if width == 0 {
		return fmt.Errorf("target rows must not be empty: %w", ErrInvalidValue)
	}
	data := make([]float64, 0, len(rows)*width)
	for i, r := range rows {
		if len(r) != width {
			return fmt.Errorf("target row %d has %d values, expected %d: %w", i, len(r), width, ErrInvalidValue)
		}
		data = append(data, r...)
	}
	s.targets = mat.NewDense(len(rows), width, data)
	s.targetWidth = width
	return nil
}

// ID returns the unique id of this sequence, as reported in logs.
func (s *Sequence) ID() string { return s.id }

// Len returns the number of batches per epoch.
func (s *Sequence) Len() int {
	return len(s.clustersOriginal) / s.q
}

// Clusters returns a copy of the current epoch's batch clusters, in batch order.
func (s *Sequence) Clusters() [][]string {
	return cloneClusters(s.clusters)
}

// NodeOrder returns the target ids in the order they were served during the
// last completed epoch. It is refreshed each time the last batch index is
// retrieved and is empty before that.
func (s *Sequence) NodeOrder() []string {
	return slices.Clone(s.nodeOrder)
}

// OnEpochEnd prepares the next epoch: it rebuilds the working cluster list
// from the original partition, shuffles it and clears the node buffer.
//
// With q > 1 the original clusters are visited in random order and merged in
// groups of q; with q == 1 they are used as is. Safe to call repeatedly.
func (s *Sequence) OnEpochEnd() {
	if s.q > 1 {
		perm := s.rng.Perm(len(s.clustersOriginal))
		s.clusters = combineClusters(s.clustersOriginal, perm, s.q)
	} else {
		s.clusters = cloneClusters(s.clustersOriginal)
	}

	s.buffer = btree.Map[int, []string]{}

	s.rng.Shuffle(len(s.clusters), func(i, j int) {
		s.clusters[i], s.clusters[j] = s.clusters[j], s.clusters[i]
	})

	metrics.Epochs.WithLabelValues(s.name).Inc()
}

// Get assembles batch index. Valid indices are [0, Len()).
func (s *Sequence) Get(index int) (Batch, error) {
	if index < 0 || index >= s.Len() {
		return Batch{}, fmt.Errorf("batch %d of %d: %w", index, s.Len(), ErrIndexOutOfRange)
	}
	start := time.Now()

	// 1. Induced subgraph
	view := s.graph.Subgraph(s.clusters[index])
	nodes := slices.Clone(view.Nodes())
	if len(nodes) == 0 {
		return Batch{}, fmt.Errorf("batch %d: no cluster node found in graph: %w", index, ErrUnknownNode)
	}
	lookup := make(map[string]int, len(nodes))
	for i, id := range nodes {
		lookup[id] = i
	}

	// 2. Adjacency
	adj := buildAdjacency(view, nodes, lookup)
	if s.normalize {
		normalizeAdjacency(adj, s.lam)
	}

	// 3. Targets present in this cluster, in subgraph order
	targetNodes := make([]string, 0)
	targetIndices := make([]int, 0)
	for i, id := range nodes {
		if _, ok := s.targetSet[id]; ok {
			targetNodes = append(targetNodes, id)
			targetIndices = append(targetIndices, i)
		}
	}

	s.buffer.Set(index, targetNodes)
	if index == s.Len()-1 {
		s.flushNodeOrder()
	}

	batch := Batch{
		TargetIndices: indexTensor(targetIndices),
		Adjacency:     batchTensor(adj),
		Nodes:         nodes,
		TargetNodes:   slices.Clone(targetNodes),
	}

	// 4. Target values
	if s.hasTargets {
		t, err := s.gatherTargets(targetNodes)
		if err != nil {
			return Batch{}, fmt.Errorf("batch %d: %w", index, err)
		}
		batch.Targets = &t
	}

	// 5. Features
	feats, err := s.features.gather(nodes)
	if err != nil {
		return Batch{}, fmt.Errorf("batch %d: %w", index, err)
	}
	batch.Features = batchTensor(feats)

	metrics.BatchesServed.WithLabelValues(s.name).Inc()
	metrics.BatchNodes.WithLabelValues(s.name).Observe(float64(len(nodes)))
	metrics.BatchDuration.WithLabelValues(s.name).Observe(time.Since(start).Seconds())
	return batch, nil
}

// gatherTargets returns the (1, t, c) target tensor for ids.
func (s *Sequence) gatherTargets(ids []string) (Tensor, error) {
	data := make([]float64, 0, len(ids)*s.targetWidth)
	for _, id := range ids {
		row, ok := s.targetLookup[id]
		if !ok {
			return Tensor{}, fmt.Errorf("target %q: %w", id, ErrUnknownTarget)
		}
		data = append(data, s.targets.RawRowView(row)...)
	}
	return Tensor{Shape: []int{1, len(ids), s.targetWidth}, Data: data}, nil
}

// flushNodeOrder flattens the node buffer in ascending batch index order.
func (s *Sequence) flushNodeOrder() {
	order := make([]string, 0, len(s.targetIDs))
	s.buffer.Scan(func(_ int, ids []string) bool {
		order = append(order, ids...)
		return true
	})
	s.nodeOrder = order
	slog.Debug("[ClusterGCN] Epoch node order complete", "generator", s.name, "sequence", s.id,
		"targets", len(order), "batches", s.buffer.Len())
}
