package site

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kpellard/heronet/pkg/analysis"
	"github.com/kpellard/heronet/pkg/graph"
	"github.com/kpellard/heronet/pkg/viz"
)

func buildTestSite(t *testing.T) (*graph.Graph, *analysis.Summary, *viz.NetworkData) {
	t.Helper()
	b := graph.NewBuilder()
	names := []string{"CAPTAIN AMERICA", "IRON MAN", "THOR", "LOKI", "HAWK", "FALCON"}
	for _, n := range names {
		if _, err := b.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n, err)
		}
	}
	edges := []struct {
		from, to string
		weight   float64
	}{
		{"CAPTAIN AMERICA", "IRON MAN", 5},
		{"CAPTAIN AMERICA", "THOR", 4},
		{"IRON MAN", "THOR", 3},
		{"THOR", "LOKI", 1},
		{"LOKI", "HAWK", 5},
		{"LOKI", "FALCON", 4},
		{"HAWK", "FALCON", 3},
	}
	for _, e := range edges {
		if err := b.AddEdge(e.from, e.to, e.weight); err != nil {
			t.Fatalf("AddEdge(%s, %s): %v", e.from, e.to, err)
		}
	}
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s, err := analysis.ComputeSummary(context.Background(), g, analysis.DefaultSummaryOptions())
	if err != nil {
		t.Fatalf("ComputeSummary: %v", err)
	}
	network := viz.BuildNetwork(g, s, viz.DefaultBuildOptions())
	return g, s, network
}

func TestGenerateWritesSite(t *testing.T) {
	g, s, network := buildTestSite(t)
	dir := t.TempDir()

	gen := New(g, s, network, nil)
	if err := gen.Generate(dir); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	wantFiles := []string{
		"index.html",
		"charts.html",
		"network.html",
		"matrix.html",
		filepath.Join("assets", "summary.json"),
		filepath.Join("assets", "network.json"),
		filepath.Join("assets", "degree-distribution.svg"),
		filepath.Join("assets", "degree-loglog.svg"),
		filepath.Join("assets", "top-degree.svg"),
		filepath.Join("assets", "top-betweenness.svg"),
		filepath.Join("assets", "top-eigenvector.svg"),
		filepath.Join("assets", "top-pagerank.svg"),
		filepath.Join("assets", "eccentricity.svg"),
		filepath.Join("assets", "network.svg"),
	}
	for _, f := range wantFiles {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("missing output %s: %v", f, err)
		}
	}
}

func TestGenerateIndexContent(t *testing.T) {
	g, s, network := buildTestSite(t)
	dir := t.TempDir()
	if err := New(g, s, network, nil).Generate(dir); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatalf("read index.html: %v", err)
	}
	html := string(raw)

	for _, want := range []string{
		"CAPTAIN AMERICA",
		"Top degree centrality",
		"Top betweenness centrality",
		"Top PageRank",
		"Generated",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("index.html missing %q", want)
		}
	}
	if !strings.Contains(html, "single connected component") {
		t.Errorf("index.html missing connectivity conclusion")
	}
}

func TestGenerateNetworkPage(t *testing.T) {
	g, s, network := buildTestSite(t)
	dir := t.TempDir()
	if err := New(g, s, network, nil).Generate(dir); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "network.html"))
	if err != nil {
		t.Fatalf("read network.html: %v", err)
	}
	html := string(raw)

	if !strings.Contains(html, "vis-network") {
		t.Errorf("network.html does not load vis-network")
	}
	if !strings.Contains(html, `"physics"`) {
		t.Errorf("network.html payload is missing the physics block")
	}
	if !strings.Contains(html, "IRON MAN") {
		t.Errorf("network.html payload is missing node labels")
	}
}

func TestGenerateMatrixPage(t *testing.T) {
	g, s, network := buildTestSite(t)
	dir := t.TempDir()
	if err := New(g, s, network, nil).Generate(dir); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "matrix.html"))
	if err != nil {
		t.Fatalf("read matrix.html: %v", err)
	}
	html := string(raw)

	if !strings.Contains(html, "shared appearances") {
		t.Errorf("matrix.html has no weight tooltips")
	}
	if !strings.Contains(html, "THOR") {
		t.Errorf("matrix.html is missing character names")
	}
}

func TestGenerateArtifactsParse(t *testing.T) {
	g, s, network := buildTestSite(t)
	dir := t.TempDir()
	if err := New(g, s, network, nil).Generate(dir); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var summary map[string]interface{}
	raw, err := os.ReadFile(filepath.Join(dir, "assets", "summary.json"))
	if err != nil {
		t.Fatalf("read summary.json: %v", err)
	}
	if err := json.Unmarshal(raw, &summary); err != nil {
		t.Fatalf("summary.json is not valid JSON: %v", err)
	}
	if _, ok := summary["stats"]; !ok {
		t.Errorf("summary.json is missing the stats block")
	}

	var net struct {
		Nodes []viz.Node `json:"nodes"`
		Edges []viz.Edge `json:"edges"`
	}
	raw, err = os.ReadFile(filepath.Join(dir, "assets", "network.json"))
	if err != nil {
		t.Fatalf("read network.json: %v", err)
	}
	if err := json.Unmarshal(raw, &net); err != nil {
		t.Fatalf("network.json is not valid JSON: %v", err)
	}
	if len(net.Nodes) != g.NodeCount() {
		t.Errorf("network.json has %d nodes, want %d", len(net.Nodes), g.NodeCount())
	}
	if len(net.Edges) != g.EdgeCount() {
		t.Errorf("network.json has %d edges, want %d", len(net.Edges), g.EdgeCount())
	}
}

func TestConclusionsMentionHub(t *testing.T) {
	_, s, _ := buildTestSite(t)
	found := false
	for _, c := range buildConclusions(s) {
		if strings.Contains(c, "best-connected character") {
			found = true
		}
	}
	if !found {
		t.Errorf("conclusions never name the best-connected character")
	}
}
