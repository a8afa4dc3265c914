package analysis

import (
	"fmt"
	"math"
	"testing"

	"github.com/kpellard/heronet/pkg/graph"
)

type edgeSpec struct {
	from, to string
	weight   float64
}

// buildGraph assembles a small co-appearance graph for tests.
func buildGraph(t *testing.T, names []string, edges []edgeSpec) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder()
	for _, name := range names {
		if _, err := b.AddNode(name); err != nil {
			t.Fatalf("AddNode(%q) failed: %v", name, err)
		}
	}
	for _, e := range edges {
		if err := b.AddEdge(e.from, e.to, e.weight); err != nil {
			t.Fatalf("AddEdge(%q, %q, %v) failed: %v", e.from, e.to, e.weight, err)
		}
	}
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

// starGraph returns a hub (node 1) connected to the given number of
// spokes (nodes 2..spokes+1), all edges weight 1.
func starGraph(t *testing.T, spokes int) *graph.Graph {
	t.Helper()
	names := []string{"HUB"}
	var edges []edgeSpec
	for i := 1; i <= spokes; i++ {
		name := fmt.Sprintf("SPOKE%d", i)
		names = append(names, name)
		edges = append(edges, edgeSpec{"HUB", name, 1})
	}
	return buildGraph(t, names, edges)
}

// chainGraph returns a path of n nodes C1-C2-...-Cn, all edges weight 1.
func chainGraph(t *testing.T, n int) *graph.Graph {
	t.Helper()
	var names []string
	var edges []edgeSpec
	for i := 1; i <= n; i++ {
		names = append(names, fmt.Sprintf("C%d", i))
	}
	for i := 1; i < n; i++ {
		edges = append(edges, edgeSpec{names[i-1], names[i], 1})
	}
	return buildGraph(t, names, edges)
}

// triangleGraph returns K3 on A, B, C with all weights 1.
func triangleGraph(t *testing.T) *graph.Graph {
	t.Helper()
	return buildGraph(t, []string{"A", "B", "C"}, []edgeSpec{
		{"A", "B", 1}, {"A", "C", 1}, {"B", "C", 1},
	})
}

// barbellGraph returns two triangles A-B-C and D-E-F joined by a single
// C-D bridge. Triangle edges carry the internal weight, the bridge its
// own.
func barbellGraph(t *testing.T, internal, bridge float64) *graph.Graph {
	t.Helper()
	return buildGraph(t, []string{"A", "B", "C", "D", "E", "F"}, []edgeSpec{
		{"A", "B", internal}, {"A", "C", internal}, {"B", "C", internal},
		{"D", "E", internal}, {"D", "F", internal}, {"E", "F", internal},
		{"C", "D", bridge},
	})
}

// squareGraph returns the bipartite square A-C, A-D, B-C, B-D: A and B
// share both neighbors without being adjacent themselves.
func squareGraph(t *testing.T) *graph.Graph {
	t.Helper()
	return buildGraph(t, []string{"A", "B", "C", "D"}, []edgeSpec{
		{"A", "C", 1}, {"A", "D", 1}, {"B", "C", 1}, {"B", "D", 1},
	})
}

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
