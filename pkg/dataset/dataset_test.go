package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kpellard/heronet/pkg/graph"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadGraph(t *testing.T) {
	dir := t.TempDir()
	nodes := writeFile(t, dir, "nodes.csv", "Id,Label\nTHOR,THOR\nLOKI,LOKI\nODIN,ODIN\n")
	edges := writeFile(t, dir, "edges.csv", "Source,Target,Weight\nTHOR,LOKI,12\nLOKI,ODIN,3\n")

	g, err := LoadGraph(nodes, edges, LoadOptions{SkipVerify: true})
	if err != nil {
		t.Fatalf("LoadGraph failed: %v", err)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Errorf("counts = (%d, %d), want (3, 2)", g.NodeCount(), g.EdgeCount())
	}

	thor, _ := g.NodeByName("THOR")
	loki, _ := g.NodeByName("LOKI")
	w, ok := g.EdgeWeight(loki.ID, thor.ID)
	if !ok || w != 12 {
		t.Errorf("EdgeWeight(LOKI, THOR) = (%v, %v), want (12, true)", w, ok)
	}
}

func TestLoadGraphHeaderIsFlexible(t *testing.T) {
	dir := t.TempDir()
	// Shuffled columns, mixed header case, BOM on the first cell.
	nodes := writeFile(t, dir, "nodes.csv", "﻿Label,ID\nGod of Thunder,THOR\nTrickster,LOKI\n")
	edges := writeFile(t, dir, "edges.csv", "weight,TARGET,source\n4,LOKI,THOR\n")

	g, err := LoadGraph(nodes, edges, LoadOptions{SkipVerify: true})
	if err != nil {
		t.Fatalf("LoadGraph failed: %v", err)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("counts = (%d, %d), want (2, 1)", g.NodeCount(), g.EdgeCount())
	}
}

func TestLoadGraphMissingColumn(t *testing.T) {
	dir := t.TempDir()
	nodes := writeFile(t, dir, "nodes.csv", "Id\nTHOR\n")
	edges := writeFile(t, dir, "edges.csv", "Source,Target\nTHOR,THOR\n")

	_, err := LoadGraph(nodes, edges, LoadOptions{SkipVerify: true})
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}
}

func TestLoadGraphBadRows(t *testing.T) {
	dir := t.TempDir()
	nodes := writeFile(t, dir, "nodes.csv", "Id\nTHOR\nLOKI\n")

	tests := []struct {
		name    string
		edges   string
		wantErr error
	}{
		{"non-numeric weight", "Source,Target,Weight\nTHOR,LOKI,heavy\n", nil},
		{"zero weight", "Source,Target,Weight\nTHOR,LOKI,0\n", graph.ErrInvalidWeight},
		{"unknown character", "Source,Target,Weight\nTHOR,HULK,2\n", graph.ErrUnknownNode},
		{"self loop", "Source,Target,Weight\nTHOR,THOR,2\n", graph.ErrSelfLoop},
		{"duplicate pair", "Source,Target,Weight\nTHOR,LOKI,2\nLOKI,THOR,5\n", graph.ErrDuplicateEdge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges := writeFile(t, t.TempDir(), "edges.csv", tt.edges)
			_, err := LoadGraph(nodes, edges, LoadOptions{SkipVerify: true})
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadGraphPreviewLimit(t *testing.T) {
	dir := t.TempDir()
	nodes := writeFile(t, dir, "nodes.csv", "Id\nA\nB\nC\nD\n")
	edges := writeFile(t, dir, "edges.csv", "Source,Target,Weight\nA,B,1\nB,C,1\nC,D,1\n")

	g, err := LoadGraph(nodes, edges, LoadOptions{MaxEdges: 2})
	if err != nil {
		t.Fatalf("LoadGraph failed: %v", err)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2 (preview limit)", g.EdgeCount())
	}
}

func TestLoadGraphVerification(t *testing.T) {
	dir := t.TempDir()
	nodes := writeFile(t, dir, "nodes.csv", "Id\nA\nB\n")
	edges := writeFile(t, dir, "edges.csv", "Source,Target,Weight\nA,B,1\n")

	// A full load of a non-bundled dataset fails the count check.
	_, err := LoadGraph(nodes, edges, LoadOptions{})
	if !errors.Is(err, ErrVerification) {
		t.Errorf("expected ErrVerification, got %v", err)
	}
}

func TestWriteGraphRoundTrip(t *testing.T) {
	dir := t.TempDir()
	nodes := writeFile(t, dir, "nodes.csv", "Id\nTHOR\nLOKI\nODIN\n")
	edges := writeFile(t, dir, "edges.csv", "Source,Target,Weight\nTHOR,LOKI,12\nLOKI,ODIN,3\n")

	g, err := LoadGraph(nodes, edges, LoadOptions{SkipVerify: true})
	if err != nil {
		t.Fatalf("LoadGraph failed: %v", err)
	}

	outNodes := filepath.Join(dir, "out-nodes.csv")
	outEdges := filepath.Join(dir, "out-edges.csv")
	if err := WriteGraph(g, outNodes, outEdges); err != nil {
		t.Fatalf("WriteGraph failed: %v", err)
	}

	g2, err := LoadGraph(outNodes, outEdges, LoadOptions{SkipVerify: true})
	if err != nil {
		t.Fatalf("reloading written files failed: %v", err)
	}
	if g2.NodeCount() != g.NodeCount() || g2.EdgeCount() != g.EdgeCount() {
		t.Errorf("round trip counts = (%d, %d), want (%d, %d)",
			g2.NodeCount(), g2.EdgeCount(), g.NodeCount(), g.EdgeCount())
	}
	thor, _ := g2.NodeByName("THOR")
	loki, _ := g2.NodeByName("LOKI")
	if w, ok := g2.EdgeWeight(thor.ID, loki.ID); !ok || w != 12 {
		t.Errorf("round trip EdgeWeight = (%v, %v), want (12, true)", w, ok)
	}
}

func TestAggregatePairs(t *testing.T) {
	dir := t.TempDir()
	raw := writeFile(t, dir, "raw.csv",
		"hero1,hero2\n"+
			"THOR,LOKI\n"+
			"LOKI,THOR\n"+
			"THOR,LOKI\n"+
			"ODIN,THOR\n"+
			"LOKI,LOKI\n")

	pl, err := AggregatePairs(raw, nil)
	if err != nil {
		t.Fatalf("AggregatePairs failed: %v", err)
	}

	if pl.RowsRead != 5 {
		t.Errorf("RowsRead = %d, want 5", pl.RowsRead)
	}
	if pl.SelfPairs != 1 {
		t.Errorf("SelfPairs = %d, want 1", pl.SelfPairs)
	}
	if len(pl.Nodes) != 3 {
		t.Errorf("Nodes = %v, want 3 names", pl.Nodes)
	}
	want := []WeightedPair{
		{Source: "LOKI", Target: "THOR", Weight: 3},
		{Source: "ODIN", Target: "THOR", Weight: 1},
	}
	if len(pl.Pairs) != len(want) {
		t.Fatalf("Pairs = %v, want %v", pl.Pairs, want)
	}
	for i, p := range pl.Pairs {
		if p != want[i] {
			t.Errorf("Pairs[%d] = %v, want %v", i, p, want[i])
		}
	}
}

func TestAggregatePairsFeedsLoader(t *testing.T) {
	dir := t.TempDir()
	raw := writeFile(t, dir, "raw.csv", "hero1,hero2\nA,B\nB,A\nB,C\n")

	pl, err := AggregatePairs(raw, nil)
	if err != nil {
		t.Fatalf("AggregatePairs failed: %v", err)
	}

	nodesPath := filepath.Join(dir, "nodes.csv")
	edgesPath := filepath.Join(dir, "edges.csv")
	if err := WritePairList(pl, nodesPath, edgesPath); err != nil {
		t.Fatalf("WritePairList failed: %v", err)
	}

	g, err := LoadGraph(nodesPath, edgesPath, LoadOptions{SkipVerify: true})
	if err != nil {
		t.Fatalf("LoadGraph failed: %v", err)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Errorf("counts = (%d, %d), want (3, 2)", g.NodeCount(), g.EdgeCount())
	}
	a, _ := g.NodeByName("A")
	b, _ := g.NodeByName("B")
	if w, _ := g.EdgeWeight(a.ID, b.ID); w != 2 {
		t.Errorf("aggregated weight = %v, want 2", w)
	}
}
