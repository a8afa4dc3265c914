package graph

import (
	"errors"
	"math"
	"testing"
)

// buildGraph constructs a graph from name pairs with weights, failing the
// test on any builder error.
func buildGraph(t *testing.T, names []string, edges [][3]interface{}) *Graph {
	t.Helper()

	b := NewBuilder()
	for _, name := range names {
		if _, err := b.AddNode(name); err != nil {
			t.Fatalf("AddNode(%q) failed: %v", name, err)
		}
	}
	for _, e := range edges {
		from := e[0].(string)
		to := e[1].(string)
		weight := float64(e[2].(int))
		if err := b.AddEdge(from, to, weight); err != nil {
			t.Fatalf("AddEdge(%q, %q, %v) failed: %v", from, to, weight, err)
		}
	}
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

func TestBuilderRejectsInvalidNodes(t *testing.T) {
	b := NewBuilder()

	if _, err := b.AddNode(""); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}

	if _, err := b.AddNode("SPIDER-MAN"); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if _, err := b.AddNode("SPIDER-MAN"); !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("expected ErrDuplicateNode, got %v", err)
	}
}

func TestBuilderRejectsInvalidEdges(t *testing.T) {
	newBuilder := func(t *testing.T) *Builder {
		t.Helper()
		b := NewBuilder()
		for _, name := range []string{"THOR", "LOKI", "ODIN"} {
			if _, err := b.AddNode(name); err != nil {
				t.Fatalf("AddNode(%q) failed: %v", name, err)
			}
		}
		return b
	}

	tests := []struct {
		name    string
		from    string
		to      string
		weight  float64
		wantErr error
	}{
		{"unknown source", "HULK", "THOR", 1, ErrUnknownNode},
		{"unknown target", "THOR", "HULK", 1, ErrUnknownNode},
		{"self loop", "THOR", "THOR", 1, ErrSelfLoop},
		{"zero weight", "THOR", "LOKI", 0, ErrInvalidWeight},
		{"negative weight", "THOR", "LOKI", -3, ErrInvalidWeight},
		{"fractional weight", "THOR", "LOKI", 2.5, ErrInvalidWeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuilder(t)
			err := b.AddEdge(tt.from, tt.to, tt.weight)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddEdge(%q, %q, %v) = %v, want %v", tt.from, tt.to, tt.weight, err, tt.wantErr)
			}
		})
	}
}

func TestBuilderRejectsDuplicateEdges(t *testing.T) {
	b := NewBuilder()
	for _, name := range []string{"THOR", "LOKI"} {
		if _, err := b.AddNode(name); err != nil {
			t.Fatalf("AddNode failed: %v", err)
		}
	}
	if err := b.AddEdge("THOR", "LOKI", 10); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}

	if err := b.AddEdge("THOR", "LOKI", 5); !errors.Is(err, ErrDuplicateEdge) {
		t.Errorf("same orientation: expected ErrDuplicateEdge, got %v", err)
	}
	if err := b.AddEdge("LOKI", "THOR", 5); !errors.Is(err, ErrDuplicateEdge) {
		t.Errorf("reversed orientation: expected ErrDuplicateEdge, got %v", err)
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	b := NewBuilder()
	if _, err := b.AddNode("THOR"); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if _, err := b.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if _, err := b.AddNode("LOKI"); !errors.Is(err, ErrBuilderUsed) {
		t.Errorf("AddNode after Build: expected ErrBuilderUsed, got %v", err)
	}
	if err := b.AddEdge("THOR", "THOR", 1); !errors.Is(err, ErrBuilderUsed) {
		t.Errorf("AddEdge after Build: expected ErrBuilderUsed, got %v", err)
	}
	if _, err := b.Build(); !errors.Is(err, ErrBuilderUsed) {
		t.Errorf("second Build: expected ErrBuilderUsed, got %v", err)
	}
}

func TestGraphAccessors(t *testing.T) {
	g := buildGraph(t,
		[]string{"THOR", "LOKI", "ODIN", "HELA"},
		[][3]interface{}{
			{"THOR", "LOKI", 12},
			{"THOR", "ODIN", 7},
			{"LOKI", "ODIN", 3},
		},
	)

	if g.NodeCount() != 4 {
		t.Errorf("NodeCount = %d, want 4", g.NodeCount())
	}
	if g.EdgeCount() != 3 {
		t.Errorf("EdgeCount = %d, want 3", g.EdgeCount())
	}
	if g.TotalWeight() != 22 {
		t.Errorf("TotalWeight = %v, want 22", g.TotalWeight())
	}

	thor, ok := g.NodeByName("THOR")
	if !ok {
		t.Fatal("NodeByName(THOR) not found")
	}
	loki, _ := g.NodeByName("LOKI")
	hela, _ := g.NodeByName("HELA")

	if g.Degree(thor.ID) != 2 {
		t.Errorf("Degree(THOR) = %d, want 2", g.Degree(thor.ID))
	}
	if g.Degree(hela.ID) != 0 {
		t.Errorf("Degree(HELA) = %d, want 0", g.Degree(hela.ID))
	}
	if g.Strength(thor.ID) != 19 {
		t.Errorf("Strength(THOR) = %v, want 19", g.Strength(thor.ID))
	}

	// Weight lookups must be symmetric.
	w1, ok1 := g.EdgeWeight(thor.ID, loki.ID)
	w2, ok2 := g.EdgeWeight(loki.ID, thor.ID)
	if !ok1 || !ok2 || w1 != w2 || w1 != 12 {
		t.Errorf("EdgeWeight not symmetric: (%v,%v) and (%v,%v)", w1, ok1, w2, ok2)
	}

	if g.HasEdge(thor.ID, hela.ID) {
		t.Error("HasEdge(THOR, HELA) = true, want false")
	}
	if _, ok := g.Node(99); ok {
		t.Error("Node(99) found, want missing")
	}
	if _, ok := g.NodeByName("HULK"); ok {
		t.Error("NodeByName(HULK) found, want missing")
	}
}

func TestGraphStats(t *testing.T) {
	g := buildGraph(t,
		[]string{"A", "B", "C", "D"},
		[][3]interface{}{
			{"A", "B", 1},
			{"A", "C", 2},
			{"A", "D", 3},
		},
	)

	st := g.Stats()
	if st.NodeCount != 4 || st.EdgeCount != 3 {
		t.Errorf("Stats counts = (%d, %d), want (4, 3)", st.NodeCount, st.EdgeCount)
	}
	if st.MinDegree != 1 || st.MaxDegree != 3 {
		t.Errorf("Stats degrees = (%d, %d), want (1, 3)", st.MinDegree, st.MaxDegree)
	}
	if math.Abs(st.AvgDegree-1.5) > 1e-9 {
		t.Errorf("AvgDegree = %v, want 1.5", st.AvgDegree)
	}
	if st.TotalWeight != 6 {
		t.Errorf("TotalWeight = %v, want 6", st.TotalWeight)
	}
}

func TestEmptyGraph(t *testing.T) {
	g, err := NewBuilder().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("empty graph has counts (%d, %d)", g.NodeCount(), g.EdgeCount())
	}
	st := g.Stats()
	if st.MinDegree != 0 || st.MaxDegree != 0 || st.AvgDegree != 0 {
		t.Errorf("empty graph stats = %+v", st)
	}
	if m := g.AdjacencyMatrix(); len(m) != 0 {
		t.Errorf("empty adjacency matrix has %d rows", len(m))
	}
}

func TestAdjacencyMatrixIsSymmetric(t *testing.T) {
	g := buildGraph(t,
		[]string{"A", "B", "C"},
		[][3]interface{}{
			{"A", "B", 4},
			{"B", "C", 9},
		},
	)

	m := g.AdjacencyMatrix()
	n := g.NodeCount()
	for i := 0; i < n; i++ {
		if m[i][i] != 0 {
			t.Errorf("diagonal entry m[%d][%d] = %v, want 0", i, i, m[i][i])
		}
		for j := 0; j < n; j++ {
			if m[i][j] != m[j][i] {
				t.Errorf("matrix not symmetric at (%d, %d): %v vs %v", i, j, m[i][j], m[j][i])
			}
		}
	}
	if m[0][1] != 4 || m[1][2] != 9 || m[0][2] != 0 {
		t.Errorf("unexpected weights: %v", m)
	}
}

func TestSubgraph(t *testing.T) {
	g := buildGraph(t,
		[]string{"A", "B", "C", "D"},
		[][3]interface{}{
			{"A", "B", 1},
			{"B", "C", 2},
			{"C", "D", 3},
			{"A", "D", 4},
		},
	)

	a, _ := g.NodeByName("A")
	b, _ := g.NodeByName("B")
	c, _ := g.NodeByName("C")

	sub := g.Subgraph([]uint64{c.ID, a.ID, b.ID, a.ID, 99})
	if sub.NodeCount() != 3 {
		t.Fatalf("Subgraph NodeCount = %d, want 3", sub.NodeCount())
	}
	// Only A-B and B-C survive; C-D and A-D leave the induced set.
	if sub.EdgeCount() != 2 {
		t.Errorf("Subgraph EdgeCount = %d, want 2", sub.EdgeCount())
	}

	subA, ok := sub.NodeByName("A")
	if !ok {
		t.Fatal("Subgraph lost node A")
	}
	subB, _ := sub.NodeByName("B")
	w, ok := sub.EdgeWeight(subA.ID, subB.ID)
	if !ok || w != 1 {
		t.Errorf("Subgraph EdgeWeight(A, B) = (%v, %v), want (1, true)", w, ok)
	}
	if _, ok := sub.NodeByName("D"); ok {
		t.Error("Subgraph kept node D")
	}
}
