package graph

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyName     = errors.New("node name cannot be empty")
	ErrDuplicateNode = errors.New("node already exists")
	ErrUnknownNode   = errors.New("unknown node")
	ErrSelfLoop      = errors.New("self-loops are not allowed")
	ErrDuplicateEdge = errors.New("edge already exists")
	ErrInvalidWeight = errors.New("edge weight must be a positive integer")
	ErrBuilderUsed   = errors.New("builder has already been built")
)

// Builder assembles a Graph, validating every node and edge as it is added.
// A Builder is single-use: once Build has been called it rejects further
// mutation so the returned Graph stays immutable.
type Builder struct {
	nodes  []Node
	byName map[string]uint64
	adj    []map[uint64]float64
	edges  []Edge
	total  float64
	built  bool
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		byName: make(map[string]uint64),
	}
}

// AddNode registers a character and returns its assigned ID. Names must be
// unique and non-empty.
func (b *Builder) AddNode(name string) (uint64, error) {
	if b.built {
		return 0, ErrBuilderUsed
	}
	if name == "" {
		return 0, ErrEmptyName
	}
	if _, exists := b.byName[name]; exists {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateNode, name)
	}

	id := uint64(len(b.nodes) + 1)
	b.nodes = append(b.nodes, Node{ID: id, Name: name})
	b.byName[name] = id
	b.adj = append(b.adj, make(map[uint64]float64))
	return id, nil
}

// AddEdge connects two previously added characters with a positive integer
// weight. Self-loops and repeated pairs (in either orientation) are rejected.
func (b *Builder) AddEdge(from, to string, weight float64) error {
	if b.built {
		return ErrBuilderUsed
	}
	fromID, ok := b.byName[from]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, from)
	}
	toID, ok := b.byName[to]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, to)
	}
	if fromID == toID {
		return fmt.Errorf("%w: %q", ErrSelfLoop, from)
	}
	if weight < 1 || weight != math.Trunc(weight) {
		return fmt.Errorf("%w: got %v for %q-%q", ErrInvalidWeight, weight, from, to)
	}
	if _, exists := b.adj[fromID-1][toID]; exists {
		return fmt.Errorf("%w: %q-%q", ErrDuplicateEdge, from, to)
	}

	// Canonical orientation: From < To.
	if fromID > toID {
		fromID, toID = toID, fromID
	}
	b.adj[fromID-1][toID] = weight
	b.adj[toID-1][fromID] = weight
	b.edges = append(b.edges, Edge{From: fromID, To: toID, Weight: weight})
	b.total += weight
	return nil
}

// NodeCount returns the number of nodes added so far.
func (b *Builder) NodeCount() int {
	return len(b.nodes)
}

// EdgeCount returns the number of edges added so far.
func (b *Builder) EdgeCount() int {
	return len(b.edges)
}

// Build freezes the accumulated nodes and edges into an immutable Graph.
func (b *Builder) Build() (*Graph, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}
	b.built = true

	g := &Graph{
		nodes:       b.nodes,
		byName:      b.byName,
		adj:         b.adj,
		edges:       b.edges,
		totalWeight: b.total,
	}
	if g.byName == nil {
		g.byName = make(map[string]uint64)
	}
	return g, nil
}
