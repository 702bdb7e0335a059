package graph

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk description of a dataset: nodes with features and
// optional targets, plus an edge list.
type Document struct {
	Directed bool           `yaml:"directed"`
	Nodes    []DocumentNode `yaml:"nodes"`
	Edges    [][]string     `yaml:"edges"`
}

// DocumentNode is a single node entry of a Document.
type DocumentNode struct {
	ID       string    `yaml:"id"`
	Type     string    `yaml:"type"`
	Features []float64 `yaml:"features"`
	Target   []float64 `yaml:"target"`
}

// LoadDocument reads a YAML dataset using strict parsing.
func LoadDocument(path string) (*Document, error) {
	// 1. Open File
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	// 2. Setup Strict Decoder
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	// 3. Decode
	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("YAML syntax error in dataset %s: %w", path, err)
	}
	return &doc, nil
}

// Build materialises the document into a Memory graph.
func (d *Document) Build() (*Memory, error) {
	g := NewMemory(d.Directed)
	for _, n := range d.Nodes {
		if err := g.AddNode(n.ID, n.Type, n.Features); err != nil {
			return nil, err
		}
	}
	for i, e := range d.Edges {
		if len(e) != 2 {
			return nil, fmt.Errorf("edge %d: expected [source, target], got %d ids", i, len(e))
		}
		if err := g.AddEdge(e[0], e[1]); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Targets returns the ids and target rows of the nodes that declare a target,
// in document order.
func (d *Document) Targets() ([]string, [][]float64) {
	var ids []string
	var values [][]float64
	for _, n := range d.Nodes {
		if len(n.Target) == 0 {
			continue
		}
		ids = append(ids, n.ID)
		values = append(values, n.Target)
	}
	return ids, values
}
