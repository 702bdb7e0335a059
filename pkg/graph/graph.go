// Package graph defines the graph contract consumed by the ClusterGCN batch
// generator and ships an in-memory implementation backed by gonum.
//
// The generator only needs a handful of operations from a graph: listing its
// nodes, extracting induced subgraphs, fetching node features and describing
// its schema. Any storage layer exposing those operations can be plugged in.
package graph

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNodeExists is returned when a node id is added twice.
	ErrNodeExists = errors.New("node already exists")
	// ErrNodeNotFound is returned when an operation references an unknown node.
	ErrNodeNotFound = errors.New("node not found")
	// ErrNoFeatures is returned when a node has no usable feature vector.
	ErrNoFeatures = errors.New("node features missing")
	// ErrEmptyGraph is returned by ML readiness checks on a graph without nodes.
	ErrEmptyGraph = errors.New("graph has no nodes")
)

// Graph is the read contract used by the batch generator.
type Graph interface {
	// Nodes returns every node id in a stable order.
	Nodes() []string
	// Subgraph returns the subgraph induced by ids. Unknown ids are ignored.
	Subgraph(ids []string) View
	// NodeFeatures returns a len(ids) x f matrix whose row i is the
	// feature vector of ids[i].
	NodeFeatures(ids []string) (*mat.Dense, error)
	// CheckForML fails if any node lacks features.
	CheckForML() error
	// Schema describes the node and edge types present in the graph.
	Schema() Schema
}

// View is an induced subgraph.
type View interface {
	// Nodes returns the subgraph nodes. The order is fixed for the lifetime of the view.
	Nodes() []string
	// Neighbors returns the out-neighbours of id that belong to the view.
	Neighbors(id string) []string
}

// Schema lists the types found in a graph.
type Schema struct {
	NodeTypes []string
	EdgeTypes []string
}
