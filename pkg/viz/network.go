// Package viz prepares the co-appearance graph for display: it shapes
// the JSON payload the interactive vis-network page consumes and
// computes 2D layouts for the static plots.
package viz

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/kpellard/heronet/pkg/analysis"
	"github.com/kpellard/heronet/pkg/graph"
)

// Node is one vis-network node.
type Node struct {
	ID    uint64  `json:"id"`
	Label string  `json:"label"`
	Title string  `json:"title"`
	Size  float64 `json:"size"`
	Color string  `json:"color"`
	Group int     `json:"group"`
}

// Edge is one vis-network edge. Value drives the rendered width.
type Edge struct {
	From  uint64  `json:"from"`
	To    uint64  `json:"to"`
	Value float64 `json:"value"`
	Title string  `json:"title,omitempty"`
}

// Repulsion mirrors the vis-network repulsion solver settings.
type Repulsion struct {
	CentralGravity float64 `json:"centralGravity"`
	SpringLength   float64 `json:"springLength"`
	SpringConstant float64 `json:"springConstant"`
	NodeDistance   float64 `json:"nodeDistance"`
	Damping        float64 `json:"damping"`
}

// Stabilization mirrors the vis-network stabilization settings.
type Stabilization struct {
	Enabled    bool `json:"enabled"`
	Iterations int  `json:"iterations"`
}

// PhysicsOptions mirrors the vis-network physics block.
type PhysicsOptions struct {
	Solver        string        `json:"solver"`
	Repulsion     Repulsion     `json:"repulsion"`
	Stabilization Stabilization `json:"stabilization"`
	MinVelocity   float64       `json:"minVelocity"`
}

// DefaultPhysics returns the tuned repulsion settings. The constants
// keep 300+ nodes legible: strong node spacing, long springs and light
// central gravity.
func DefaultPhysics() PhysicsOptions {
	return PhysicsOptions{
		Solver: "repulsion",
		Repulsion: Repulsion{
			CentralGravity: 0.15,
			SpringLength:   300,
			SpringConstant: 0.01,
			NodeDistance:   220,
			Damping:        0.15,
		},
		Stabilization: Stabilization{Enabled: true, Iterations: 250},
		MinVelocity:   0.75,
	}
}

// NetworkData is the full payload for the interactive network page.
type NetworkData struct {
	Nodes   []Node         `json:"nodes"`
	Edges   []Edge         `json:"edges"`
	Physics PhysicsOptions `json:"physics"`
}

// BuildOptions configures the network export.
type BuildOptions struct {
	// MaxEdges caps how many edges are exported, keeping the heaviest.
	// Zero exports every edge.
	MaxEdges int
	// MinNodeSize and NodeSizeSpan control the degree-proportional node
	// scale: size = MinNodeSize + NodeSizeSpan * degree / maxDegree.
	MinNodeSize  float64
	NodeSizeSpan float64
}

// DefaultBuildOptions returns the standard settings: a 1000-edge
// preview cap and node sizes from 15 to 50.
func DefaultBuildOptions() *BuildOptions {
	return &BuildOptions{
		MaxEdges:     1000,
		MinNodeSize:  15,
		NodeSizeSpan: 35,
	}
}

// BuildNetwork shapes a graph and its metrics into vis-network JSON.
// With a summary, nodes are colored and grouped by Louvain community
// and the tooltip carries community and degree; without one, nodes get
// the neutral color and a degree-only tooltip.
func BuildNetwork(g *graph.Graph, s *analysis.Summary, opts *BuildOptions) *NetworkData {
	if opts == nil {
		opts = DefaultBuildOptions()
	}

	maxDegree := 0
	for _, node := range g.Nodes() {
		if d := g.Degree(node.ID); d > maxDegree {
			maxDegree = d
		}
	}

	communityOf := func(id uint64) int {
		if s == nil || s.Communities == nil {
			return -1
		}
		if c, ok := s.Communities.NodeCommunity[id]; ok {
			return c
		}
		return -1
	}

	data := &NetworkData{
		Nodes:   make([]Node, 0, g.NodeCount()),
		Physics: DefaultPhysics(),
	}
	for _, node := range g.Nodes() {
		degree := g.Degree(node.ID)
		size := opts.MinNodeSize
		if maxDegree > 0 {
			size += opts.NodeSizeSpan * float64(degree) / float64(maxDegree)
		}

		community := communityOf(node.ID)
		title := fmt.Sprintf("Degree: %d", degree)
		if community >= 0 {
			title = fmt.Sprintf("Community: %d<br>Degree: %d", community, degree)
		}
		data.Nodes = append(data.Nodes, Node{
			ID:    node.ID,
			Label: node.Name,
			Title: title,
			Size:  size,
			Color: ColorFor(community),
			Group: community,
		})
	}

	edges := g.Edges()
	if opts.MaxEdges > 0 && len(edges) > opts.MaxEdges {
		sort.Slice(edges, func(i, j int) bool {
			if edges[i].Weight != edges[j].Weight {
				return edges[i].Weight > edges[j].Weight
			}
			if edges[i].From != edges[j].From {
				return edges[i].From < edges[j].From
			}
			return edges[i].To < edges[j].To
		})
		edges = edges[:opts.MaxEdges]
	}
	data.Edges = make([]Edge, 0, len(edges))
	for _, e := range edges {
		data.Edges = append(data.Edges, Edge{
			From:  e.From,
			To:    e.To,
			Value: e.Weight,
			Title: fmt.Sprintf("Co-appearances: %g", e.Weight),
		})
	}
	return data
}

// ExportJSON renders the payload as indented JSON, the standalone
// artifact shape external tools read.
func (d *NetworkData) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
