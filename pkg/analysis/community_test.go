package analysis

import (
	"testing"
)

func TestModularityTwoTriangles(t *testing.T) {
	g := barbellGraph(t, 1, 1)

	partition := map[uint64]int{1: 0, 2: 0, 3: 0, 4: 1, 5: 1, 6: 1}
	q := Modularity(g, partition)
	// 6/7 intra-community weight minus two expected shares of 1/4.
	if !almostEqual(q, 6.0/7.0-0.5, 1e-12) {
		t.Errorf("modularity = %v, want %v", q, 6.0/7.0-0.5)
	}
}

func TestModularitySingletonsIsNegative(t *testing.T) {
	g := buildGraph(t, []string{"A", "B"}, []edgeSpec{{"A", "B", 1}})

	q := Modularity(g, map[uint64]int{1: 0, 2: 1})
	if !almostEqual(q, -0.5, 1e-12) {
		t.Errorf("singleton modularity = %v, want -0.5", q)
	}
}

func TestModularityEmptyGraph(t *testing.T) {
	g := buildGraph(t, nil, nil)
	if q := Modularity(g, nil); q != 0 {
		t.Errorf("empty graph modularity = %v, want 0", q)
	}
}

func TestLouvainBarbell(t *testing.T) {
	g := barbellGraph(t, 5, 1)

	res := Louvain(g, nil)
	if len(res.Communities) != 2 {
		t.Fatalf("expected 2 communities, got %d", len(res.Communities))
	}
	for _, c := range res.Communities {
		if c.Size != 3 {
			t.Errorf("community %d size = %d, want 3", c.ID, c.Size)
		}
		if !almostEqual(c.Density, 1.0, 1e-12) {
			t.Errorf("community %d density = %v, want 1.0 for a triangle", c.ID, c.Density)
		}
	}
	if res.Modularity < 0.3 {
		t.Errorf("modularity = %v, want >= 0.3", res.Modularity)
	}
	if res.Levels < 1 {
		t.Errorf("levels = %d, want at least one aggregation", res.Levels)
	}

	left := res.NodeCommunity[1]
	if res.NodeCommunity[2] != left || res.NodeCommunity[3] != left {
		t.Errorf("first triangle split across communities: %v", res.NodeCommunity)
	}
	if res.NodeCommunity[4] == left {
		t.Errorf("bridge did not separate the triangles: %v", res.NodeCommunity)
	}

	// Community IDs in the list and in the node map must agree.
	for _, c := range res.Communities {
		for _, id := range c.Nodes {
			if res.NodeCommunity[id] != c.ID {
				t.Errorf("node %d listed in community %d but mapped to %d", id, c.ID, res.NodeCommunity[id])
			}
		}
	}
}

func TestLouvainMergesCompleteGraph(t *testing.T) {
	g := triangleGraph(t)

	res := Louvain(g, nil)
	if len(res.Communities) != 1 {
		t.Fatalf("expected 1 community, got %d", len(res.Communities))
	}
	if res.Communities[0].Size != 3 {
		t.Errorf("community size = %d, want 3", res.Communities[0].Size)
	}
	if !almostEqual(res.Modularity, 0, 1e-12) {
		t.Errorf("single-community modularity = %v, want 0", res.Modularity)
	}
}

func TestLouvainEmptyGraph(t *testing.T) {
	g := buildGraph(t, nil, nil)

	res := Louvain(g, nil)
	if len(res.Communities) != 0 || len(res.NodeCommunity) != 0 {
		t.Errorf("empty graph produced communities: %+v", res)
	}
}

func TestLabelPropagationBarbell(t *testing.T) {
	g := barbellGraph(t, 5, 1)

	labels := LabelPropagation(g, 0)
	if len(labels) != 6 {
		t.Fatalf("expected 6 labels, got %d", len(labels))
	}

	left := labels[1]
	if labels[2] != left || labels[3] != left {
		t.Errorf("first triangle split across labels: %v", labels)
	}
	right := labels[4]
	if labels[5] != right || labels[6] != right {
		t.Errorf("second triangle split across labels: %v", labels)
	}
	if left == right {
		t.Errorf("both triangles share label %d despite the weak bridge", left)
	}
}

func TestLabelPropagationKeepsIsolatedLabels(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "LONER"}, []edgeSpec{{"A", "B", 1}})

	labels := LabelPropagation(g, 0)
	if labels[1] != labels[2] {
		t.Errorf("connected pair has labels %d and %d", labels[1], labels[2])
	}
	if labels[3] == labels[1] {
		t.Errorf("isolated node joined label %d", labels[3])
	}
}
