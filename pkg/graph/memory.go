package graph

import (
	"fmt"
	"slices"
	"sort"

	gograph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultNodeType is assigned to nodes added without an explicit type.
	DefaultNodeType = "default"
	// DefaultEdgeType is the only edge type of a Memory graph.
	DefaultEdgeType = "default"
)

// backing is the subset of gonum's graph API used by Memory.
// Both simple.UndirectedGraph and simple.DirectedGraph satisfy it.
type backing interface {
	gograph.Graph
	gograph.Builder
}

// Memory is an in-memory, single-process graph with per-node features.
//
// Node ids are mapped to dense gonum ids in insertion order, so the order
// returned by Nodes (and by every View) is the order nodes were added.
// Memory is not safe for concurrent mutation.
type Memory struct {
	g        backing
	directed bool

	ids   []string
	index map[string]int64
	types map[int64]string
	feats map[int64][]float64
	// gonum simple graphs reject self edges, so loops are tracked separately.
	loops map[int64]struct{}
}

// NewMemory creates an empty graph. Directed graphs report out-neighbours only.
func NewMemory(directed bool) *Memory {
	var g backing
	if directed {
		g = simple.NewDirectedGraph()
	} else {
		g = simple.NewUndirectedGraph()
	}
	return &Memory{
		g:        g,
		directed: directed,
		index:    make(map[string]int64),
		types:    make(map[int64]string),
		feats:    make(map[int64][]float64),
		loops:    make(map[int64]struct{}),
	}
}

// AddNode registers a node. An empty nodeType maps to DefaultNodeType.
// The features slice is copied.
func (m *Memory) AddNode(id, nodeType string, features []float64) error {
	if _, ok := m.index[id]; ok {
		return fmt.Errorf("add node %q: %w", id, ErrNodeExists)
	}
	if nodeType == "" {
		nodeType = DefaultNodeType
	}

	nid := int64(len(m.ids))
	m.g.AddNode(simple.Node(nid))
	m.ids = append(m.ids, id)
	m.index[id] = nid
	m.types[nid] = nodeType
	if len(features) > 0 {
		m.feats[nid] = slices.Clone(features)
	}
	return nil
}

// AddEdge links src to dst. Re-adding an existing edge is a no-op.
func (m *Memory) AddEdge(src, dst string) error {
	from, ok := m.index[src]
	if !ok {
		return fmt.Errorf("add edge %q->%q: source: %w", src, dst, ErrNodeNotFound)
	}
	to, ok := m.index[dst]
	if !ok {
		return fmt.Errorf("add edge %q->%q: target: %w", src, dst, ErrNodeNotFound)
	}

	if from == to {
		m.loops[from] = struct{}{}
		return nil
	}
	m.g.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
	return nil
}

// Directed reports whether edges are directed.
func (m *Memory) Directed() bool { return m.directed }

// NumNodes returns the number of nodes.
func (m *Memory) NumNodes() int { return len(m.ids) }

// Nodes returns a copy of the node ids in insertion order.
func (m *Memory) Nodes() []string {
	return slices.Clone(m.ids)
}

// Subgraph returns the view induced by ids. Duplicates and unknown ids are dropped.
func (m *Memory) Subgraph(ids []string) View {
	members := make(map[int64]struct{}, len(ids))
	order := make([]int64, 0, len(ids))
	for _, id := range ids {
		nid, ok := m.index[id]
		if !ok {
			continue
		}
		if _, dup := members[nid]; dup {
			continue
		}
		members[nid] = struct{}{}
		order = append(order, nid)
	}
	// Dense ids follow insertion order, so sorting restores the parent ordering.
	slices.Sort(order)

	nodes := make([]string, len(order))
	for i, nid := range order {
		nodes[i] = m.ids[nid]
	}
	return &memoryView{parent: m, members: members, nodes: nodes}
}

// NodeFeatures returns the feature rows for ids, in order.
func (m *Memory) NodeFeatures(ids []string) (*mat.Dense, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("node features: no nodes requested")
	}

	dim := -1
	rows := make([][]float64, len(ids))
	for i, id := range ids {
		nid, ok := m.index[id]
		if !ok {
			return nil, fmt.Errorf("node features %q: %w", id, ErrNodeNotFound)
		}
		f, ok := m.feats[nid]
		if !ok {
			return nil, fmt.Errorf("node features %q: %w", id, ErrNoFeatures)
		}
		if dim == -1 {
			dim = len(f)
		} else if len(f) != dim {
			return nil, fmt.Errorf("node features %q: width %d, expected %d", id, len(f), dim)
		}
		rows[i] = f
	}

	out := mat.NewDense(len(ids), dim, nil)
	for i, r := range rows {
		out.SetRow(i, r)
	}
	return out, nil
}

// CheckForML verifies that every node carries a feature vector of the same width.
func (m *Memory) CheckForML() error {
	if len(m.ids) == 0 {
		return ErrEmptyGraph
	}
	dim := -1
	for nid, id := range m.ids {
		f, ok := m.feats[int64(nid)]
		if !ok {
			return fmt.Errorf("node %q: %w", id, ErrNoFeatures)
		}
		if dim == -1 {
			dim = len(f)
			continue
		}
		if len(f) != dim {
			return fmt.Errorf("node %q: feature width %d, expected %d", id, len(f), dim)
		}
	}
	return nil
}

// Schema returns the sorted set of node types. Memory graphs have a single edge type.
func (m *Memory) Schema() Schema {
	seen := make(map[string]struct{})
	for _, t := range m.types {
		seen[t] = struct{}{}
	}
	nodeTypes := make([]string, 0, len(seen))
	for t := range seen {
		nodeTypes = append(nodeTypes, t)
	}
	sort.Strings(nodeTypes)
	return Schema{NodeTypes: nodeTypes, EdgeTypes: []string{DefaultEdgeType}}
}

type memoryView struct {
	parent  *Memory
	members map[int64]struct{}
	nodes   []string
}

func (v *memoryView) Nodes() []string {
	return v.nodes
}

func (v *memoryView) Neighbors(id string) []string {
	nid, ok := v.parent.index[id]
	if !ok {
		return nil
	}
	if _, ok := v.members[nid]; !ok {
		return nil
	}

	var out []string
	if _, loop := v.parent.loops[nid]; loop {
		out = append(out, id)
	}
	it := v.parent.g.From(nid)
	for it.Next() {
		other := it.Node().ID()
		if _, ok := v.members[other]; ok {
			out = append(out, v.parent.ids[other])
		}
	}
	return out
}
