package analysis

import (
	"context"
	"testing"
)

func TestComputeSummary(t *testing.T) {
	g := barbellGraph(t, 5, 1)

	s, err := ComputeSummary(context.Background(), g, nil)
	if err != nil {
		t.Fatalf("ComputeSummary failed: %v", err)
	}

	if s.Stats.NodeCount != 6 || s.Stats.EdgeCount != 7 {
		t.Errorf("stats = %+v, want 6 nodes / 7 edges", s.Stats)
	}
	if !s.Connected || len(s.Components) != 1 {
		t.Errorf("expected one connected component, got %d", len(s.Components))
	}
	if s.Clustering == nil || s.Clustering.Triangles != 2 {
		t.Errorf("clustering = %+v, want 2 triangles", s.Clustering)
	}
	if s.Communities == nil || len(s.Communities.Communities) != 2 {
		t.Fatalf("communities = %+v, want 2", s.Communities)
	}
	if s.Distance == nil || s.Distance.Diameter != 3 {
		t.Errorf("distance = %+v, want diameter 3", s.Distance)
	}

	// The bridge endpoints have degree 3, everyone else 2; node C wins
	// the degree leaderboard on the ID tiebreak.
	if len(s.TopDegree) == 0 || s.TopDegree[0].NodeID != 3 {
		t.Errorf("top degree = %+v, want node 3 first", s.TopDegree)
	}
	if len(s.TopBetweenness) == 0 || s.TopBetweenness[0].NodeID != 3 {
		t.Errorf("top betweenness = %+v, want node 3 first", s.TopBetweenness)
	}
	// The bridge edge carries all nine cross-triangle pairs.
	if len(s.TopBridges) == 0 || s.TopBridges[0].From != 3 || s.TopBridges[0].To != 4 {
		t.Errorf("top bridge = %+v, want edge (3,4)", s.TopBridges)
	}

	if s.ComputedAt.IsZero() || s.Elapsed <= 0 {
		t.Errorf("timing not recorded: at=%v elapsed=%v", s.ComputedAt, s.Elapsed)
	}
}

func TestComputeSummaryWithoutCommunities(t *testing.T) {
	g := triangleGraph(t)

	s, err := ComputeSummary(context.Background(), g, &SummaryOptions{TopK: 3})
	if err != nil {
		t.Fatalf("ComputeSummary failed: %v", err)
	}
	if s.Communities != nil {
		t.Errorf("communities computed despite being disabled: %+v", s.Communities)
	}
	if len(s.TopDegree) != 3 {
		t.Errorf("top degree length = %d, want 3", len(s.TopDegree))
	}
}

func TestComputeSummaryCancelled(t *testing.T) {
	g := triangleGraph(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ComputeSummary(ctx, g, nil); err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
}

func TestNodeMetrics(t *testing.T) {
	g := barbellGraph(t, 5, 1)

	s, err := ComputeSummary(context.Background(), g, nil)
	if err != nil {
		t.Fatalf("ComputeSummary failed: %v", err)
	}

	m, ok := s.NodeMetrics(g, 3)
	if !ok {
		t.Fatal("metrics for node 3 not found")
	}
	if m.Node.Name != "C" || m.Degree != 3 {
		t.Errorf("node 3 metrics = %+v, want C with degree 3", m)
	}
	if !almostEqual(m.Strength, 11, 1e-12) {
		t.Errorf("strength = %v, want 11", m.Strength)
	}
	if m.Community < 0 {
		t.Errorf("community = %d, want an assigned community", m.Community)
	}
	if m.Eccentricity != 2 {
		t.Errorf("eccentricity = %d, want 2", m.Eccentricity)
	}

	if _, ok := s.NodeMetrics(g, 99); ok {
		t.Error("metrics reported for a node that does not exist")
	}
}

func TestTopNodes(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "C", "D"}, []edgeSpec{
		{"A", "B", 1}, {"C", "D", 1},
	})
	scores := map[uint64]float64{1: 0.1, 2: 0.9, 3: 0.5, 4: 0.5}

	top := TopNodes(g, scores, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3 ranked nodes, got %d", len(top))
	}
	if top[0].NodeID != 2 || top[0].Name != "B" {
		t.Errorf("first = %+v, want node B", top[0])
	}
	// Equal scores order by node ID.
	if top[1].NodeID != 3 || top[2].NodeID != 4 {
		t.Errorf("tie order = %d, %d, want 3, 4", top[1].NodeID, top[2].NodeID)
	}

	if got := TopNodes(g, scores, 100); len(got) != 4 {
		t.Errorf("oversized request returned %d nodes, want all 4", len(got))
	}
	if got := TopNodes(g, scores, 0); got != nil {
		t.Errorf("zero request returned %v, want nil", got)
	}
}

func TestTopEdges(t *testing.T) {
	scores := map[EdgeKey]float64{
		{1, 2}: 0.3,
		{2, 3}: 0.9,
		{1, 4}: 0.3,
	}

	top := TopEdges(scores, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 ranked edges, got %d", len(top))
	}
	if top[0].From != 2 || top[0].To != 3 {
		t.Errorf("first = %+v, want edge (2,3)", top[0])
	}
	if top[1].From != 1 || top[1].To != 2 {
		t.Errorf("tie broke to %+v, want edge (1,2)", top[1])
	}
}
