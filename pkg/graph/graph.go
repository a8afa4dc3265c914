// Package graph provides the immutable undirected weighted graph that every
// analysis in this repository operates on. Nodes are characters identified by
// name, edges carry positive integer co-appearance weights, and the structure
// is frozen once built, so all accessors are safe for concurrent use.
package graph

import "sort"

// Node is a single character in the network. IDs are dense, assigned in
// insertion order starting at 1.
type Node struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// Edge is an undirected weighted connection between two nodes. Edges are
// stored once per unordered pair with From < To.
type Edge struct {
	From   uint64  `json:"from"`
	To     uint64  `json:"to"`
	Weight float64 `json:"weight"`
}

// Stats summarizes the basic shape of a graph.
type Stats struct {
	NodeCount   int     `json:"node_count"`
	EdgeCount   int     `json:"edge_count"`
	TotalWeight float64 `json:"total_weight"`
	MinDegree   int     `json:"min_degree"`
	MaxDegree   int     `json:"max_degree"`
	AvgDegree   float64 `json:"avg_degree"`
}

// Graph is an immutable undirected weighted graph.
type Graph struct {
	nodes       []Node
	byName      map[string]uint64
	adj         []map[uint64]float64
	edges       []Edge
	totalWeight float64
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of unordered edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// TotalWeight returns the sum of all edge weights.
func (g *Graph) TotalWeight() float64 {
	return g.totalWeight
}

// Node returns the node with the given ID.
func (g *Graph) Node(id uint64) (Node, bool) {
	if id == 0 || id > uint64(len(g.nodes)) {
		return Node{}, false
	}
	return g.nodes[id-1], true
}

// NodeByName returns the node with the given name.
func (g *Graph) NodeByName(name string) (Node, bool) {
	id, ok := g.byName[name]
	if !ok {
		return Node{}, false
	}
	return g.nodes[id-1], true
}

// Nodes returns all nodes in ID order. The slice is a copy.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns all edges in insertion order with From < To. The slice is a
// copy.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Neighbors returns the neighbor set of a node as a map from neighbor ID to
// edge weight. The returned map is shared with the graph and must not be
// modified. Unknown IDs return nil.
func (g *Graph) Neighbors(id uint64) map[uint64]float64 {
	if id == 0 || id > uint64(len(g.adj)) {
		return nil
	}
	return g.adj[id-1]
}

// Degree returns the number of neighbors of a node.
func (g *Graph) Degree(id uint64) int {
	return len(g.Neighbors(id))
}

// Strength returns the weighted degree of a node: the sum of the weights of
// its incident edges.
func (g *Graph) Strength(id uint64) float64 {
	var s float64
	for _, w := range g.Neighbors(id) {
		s += w
	}
	return s
}

// EdgeWeight returns the weight of the edge between two nodes. The lookup is
// symmetric: EdgeWeight(a, b) == EdgeWeight(b, a).
func (g *Graph) EdgeWeight(a, b uint64) (float64, bool) {
	w, ok := g.Neighbors(a)[b]
	return w, ok
}

// HasEdge reports whether an edge exists between two nodes.
func (g *Graph) HasEdge(a, b uint64) bool {
	_, ok := g.EdgeWeight(a, b)
	return ok
}

// Stats computes summary statistics for the graph.
func (g *Graph) Stats() Stats {
	st := Stats{
		NodeCount:   len(g.nodes),
		EdgeCount:   len(g.edges),
		TotalWeight: g.totalWeight,
	}
	if st.NodeCount == 0 {
		return st
	}

	st.MinDegree = len(g.adj[0])
	for _, nbrs := range g.adj {
		d := len(nbrs)
		if d < st.MinDegree {
			st.MinDegree = d
		}
		if d > st.MaxDegree {
			st.MaxDegree = d
		}
	}
	st.AvgDegree = 2 * float64(st.EdgeCount) / float64(st.NodeCount)
	return st
}

// AdjacencyMatrix returns the full n x n symmetric weight matrix. Row and
// column i correspond to node ID i+1.
func (g *Graph) AdjacencyMatrix() [][]float64 {
	n := len(g.nodes)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for _, e := range g.edges {
		m[e.From-1][e.To-1] = e.Weight
		m[e.To-1][e.From-1] = e.Weight
	}
	return m
}

// Subgraph returns the subgraph induced by the given node IDs. Node names and
// edge weights are preserved; IDs are re-densified in ascending order of the
// original IDs. Unknown and duplicate IDs are ignored.
func (g *Graph) Subgraph(ids []uint64) *Graph {
	keep := make([]uint64, 0, len(ids))
	seen := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		if id == 0 || id > uint64(len(g.nodes)) || seen[id] {
			continue
		}
		seen[id] = true
		keep = append(keep, id)
	}
	sort.Slice(keep, func(i, j int) bool { return keep[i] < keep[j] })

	remap := make(map[uint64]uint64, len(keep))
	sub := &Graph{
		nodes:  make([]Node, 0, len(keep)),
		byName: make(map[string]uint64, len(keep)),
		adj:    make([]map[uint64]float64, len(keep)),
	}
	for i, old := range keep {
		id := uint64(i + 1)
		remap[old] = id
		sub.nodes = append(sub.nodes, Node{ID: id, Name: g.nodes[old-1].Name})
		sub.byName[g.nodes[old-1].Name] = id
		sub.adj[i] = make(map[uint64]float64)
	}
	for _, e := range g.edges {
		from, okF := remap[e.From]
		to, okT := remap[e.To]
		if !okF || !okT {
			continue
		}
		sub.adj[from-1][to] = e.Weight
		sub.adj[to-1][from] = e.Weight
		sub.edges = append(sub.edges, Edge{From: from, To: to, Weight: e.Weight})
		sub.totalWeight += e.Weight
	}
	return sub
}
