// Package site writes the self-contained static report: overview page
// with metric tables and conclusions, chart gallery, interactive
// vis-network page and an adjacency matrix view, plus the raw JSON
// artifacts under assets/.
package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kpellard/heronet/pkg/analysis"
	"github.com/kpellard/heronet/pkg/chart"
	"github.com/kpellard/heronet/pkg/graph"
	"github.com/kpellard/heronet/pkg/viz"
)

// matrixLimit caps the adjacency matrix page to the best-connected
// characters; the full matrix stays in the JSON artifact.
const matrixLimit = 40

// Generator renders one analysis run into a static site directory.
type Generator struct {
	graph   *graph.Graph
	summary *analysis.Summary
	network *viz.NetworkData
	logger  *zap.Logger
}

// New creates a Generator. A nil logger falls back to a no-op one.
func New(g *graph.Graph, s *analysis.Summary, network *viz.NetworkData, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{graph: g, summary: s, network: network, logger: logger}
}

type pageMeta struct {
	Title       string
	Active      string
	GeneratedAt string
}

type rankingTable struct {
	Caption string
	Rows    []analysis.RankedNode
}

type communityRow struct {
	ID      int
	Size    int
	Density float64
	Color   string
	Members string
}

type indexData struct {
	pageMeta
	Stats            graph.Stats
	DegreeStats      analysis.DegreeStats
	HeavyTailPercent float64
	Clustering       *analysis.ClusteringResult
	Assortativity    float64
	Distance         *analysis.DistanceResult
	Connected        bool
	ComponentCount   int
	CommunityCount   int
	Communities      []communityRow
	Rankings         []rankingTable
	Conclusions      []string
}

type figure struct {
	Title string
	File  string
}

type chartsData struct {
	pageMeta
	Figures []figure
}

type networkPageData struct {
	pageMeta
	Payload    template.JS
	NodeCount  int
	ShownEdges int
	TotalEdges int
}

type matrixCell struct {
	Label   string
	Tooltip string
	Shade   template.CSS
}

type matrixRow struct {
	Name  string
	Cells []matrixCell
}

type matrixData struct {
	pageMeta
	Names []string
	Rows  []matrixRow
	Limit int
	Total int
}

// Generate writes the whole site into dir, creating it as needed.
func (gen *Generator) Generate(dir string) error {
	assetsDir := filepath.Join(dir, "assets")
	if err := os.MkdirAll(assetsDir, 0o755); err != nil {
		return fmt.Errorf("create site directory: %w", err)
	}

	figures, err := gen.writeCharts(assetsDir)
	if err != nil {
		return err
	}
	if err := gen.writeArtifacts(assetsDir); err != nil {
		return err
	}

	now := time.Now().UTC().Format("2006-01-02 15:04 UTC")
	meta := func(title, active string) pageMeta {
		return pageMeta{Title: title, Active: active, GeneratedAt: now}
	}

	payload, err := json.Marshal(gen.network)
	if err != nil {
		return fmt.Errorf("marshal network payload: %w", err)
	}

	pages := []struct {
		template string
		file     string
		data     interface{}
	}{
		{"index", "index.html", gen.indexData(meta("Marvel network — overview", "index"))},
		{"charts", "charts.html", &chartsData{pageMeta: meta("Marvel network — charts", "charts"), Figures: figures}},
		{"network", "network.html", &networkPageData{
			pageMeta:   meta("Marvel network — interactive", "network"),
			Payload:    template.JS(payload),
			NodeCount:  len(gen.network.Nodes),
			ShownEdges: len(gen.network.Edges),
			TotalEdges: gen.graph.EdgeCount(),
		}},
		{"matrix", "matrix.html", gen.matrixData(meta("Marvel network — adjacency matrix", "matrix"))},
	}
	for _, p := range pages {
		if err := renderPage(p.template, filepath.Join(dir, p.file), p.data); err != nil {
			return err
		}
	}

	gen.logger.Info("site generated",
		zap.String("dir", dir),
		zap.Int("pages", len(pages)),
		zap.Int("figures", len(figures)))
	return nil
}

func renderPage(name, path string, data interface{}) error {
	view, err := NewView("base", name)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := view.Render(&buf, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writeCharts renders every SVG figure into the assets directory and
// returns the gallery entries in display order.
func (gen *Generator) writeCharts(assetsDir string) ([]figure, error) {
	s := gen.summary
	buckets := analysis.SortedDistribution(s.Distribution)

	histCfg := chart.DefaultConfig("Degree distribution")
	histCfg.XLabel = "Degree"
	histCfg.YLabel = "Characters"

	logCfg := chart.DefaultConfig("Degree distribution (log-log)")
	logCfg.XLabel = "Degree"
	logCfg.YLabel = "Characters"

	eccSeries := make([]chart.XY, 0)
	eccCounts := make(map[int]int)
	for _, e := range s.Distance.Eccentricity {
		eccCounts[e]++
	}
	for ecc, count := range eccCounts {
		eccSeries = append(eccSeries, chart.XY{X: float64(ecc), Y: float64(count)})
	}

	layout := viz.SpringLayout(gen.graph, 75, 1)

	files := []struct {
		title string
		name  string
		data  []byte
	}{
		{"Degree distribution", "degree-distribution.svg", chart.Histogram(buckets, histCfg)},
		{"Degree distribution on log-log axes", "degree-loglog.svg", chart.LogLogScatter(buckets, logCfg)},
		{"Top characters by degree centrality", "top-degree.svg", chart.BarChart(s.TopDegree, chart.DefaultConfig("Degree centrality"))},
		{"Top characters by betweenness centrality", "top-betweenness.svg", chart.BarChart(s.TopBetweenness, chart.DefaultConfig("Betweenness centrality"))},
		{"Top characters by eigenvector centrality", "top-eigenvector.svg", chart.BarChart(s.TopEigenvector, chart.DefaultConfig("Eigenvector centrality"))},
		{"Top characters by PageRank", "top-pagerank.svg", chart.BarChart(s.TopPageRank, chart.DefaultConfig("PageRank"))},
		{"Eccentricity profile", "eccentricity.svg", chart.LineChart(eccSeries, eccCfg())},
		{"Force-directed network plot", "network.svg", chart.Network(gen.network, layout, networkCfg())},
	}

	figures := make([]figure, 0, len(files))
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(assetsDir, f.name), f.data, 0o644); err != nil {
			return nil, fmt.Errorf("write chart %s: %w", f.name, err)
		}
		figures = append(figures, figure{Title: f.title, File: "assets/" + f.name})
	}
	return figures, nil
}

func eccCfg() chart.Config {
	cfg := chart.DefaultConfig("Eccentricity profile")
	cfg.XLabel = "Eccentricity"
	cfg.YLabel = "Characters"
	return cfg
}

func networkCfg() chart.Config {
	cfg := chart.DefaultConfig("Co-appearance network")
	cfg.Width = 1000
	cfg.Height = 1000
	return cfg
}

// writeArtifacts emits the machine-readable outputs next to the charts.
func (gen *Generator) writeArtifacts(assetsDir string) error {
	summaryJSON, err := json.MarshalIndent(gen.summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(assetsDir, "summary.json"), summaryJSON, 0o644); err != nil {
		return fmt.Errorf("write summary.json: %w", err)
	}

	networkJSON, err := gen.network.ExportJSON()
	if err != nil {
		return fmt.Errorf("marshal network: %w", err)
	}
	if err := os.WriteFile(filepath.Join(assetsDir, "network.json"), networkJSON, 0o644); err != nil {
		return fmt.Errorf("write network.json: %w", err)
	}
	return nil
}

func (gen *Generator) indexData(meta pageMeta) *indexData {
	s := gen.summary

	data := &indexData{
		pageMeta:         meta,
		Stats:            s.Stats,
		DegreeStats:      s.DegreeStats,
		HeavyTailPercent: s.HeavyTailShare * 100,
		Clustering:       s.Clustering,
		Assortativity:    s.Assortativity,
		Distance:         s.Distance,
		Connected:        s.Connected,
		ComponentCount:   len(s.Components),
		Conclusions:      buildConclusions(s),
		Rankings: []rankingTable{
			{Caption: "Top degree centrality", Rows: s.TopDegree},
			{Caption: "Top betweenness centrality", Rows: s.TopBetweenness},
			{Caption: "Top closeness centrality", Rows: s.TopCloseness},
			{Caption: "Top eigenvector centrality", Rows: s.TopEigenvector},
			{Caption: "Top PageRank", Rows: s.TopPageRank},
		},
	}

	if s.Communities != nil {
		data.CommunityCount = len(s.Communities.Communities)
		for _, c := range s.Communities.Communities {
			names := make([]string, 0, 3)
			for _, id := range c.Nodes {
				if node, ok := gen.graph.Node(id); ok {
					names = append(names, node.Name)
				}
				if len(names) == 3 {
					break
				}
			}
			members := strings.Join(names, ", ")
			if c.Size > len(names) {
				members += ", …"
			}
			data.Communities = append(data.Communities, communityRow{
				ID:      c.ID,
				Size:    c.Size,
				Density: c.Density,
				Color:   viz.ColorFor(c.ID),
				Members: members,
			})
		}
	}
	return data
}

func (gen *Generator) matrixData(meta pageMeta) *matrixData {
	// Show the densest corner: characters sorted by degree.
	nodes := gen.graph.Nodes()
	sort.Slice(nodes, func(i, j int) bool {
		di, dj := gen.graph.Degree(nodes[i].ID), gen.graph.Degree(nodes[j].ID)
		if di != dj {
			return di > dj
		}
		return nodes[i].ID < nodes[j].ID
	})
	limit := matrixLimit
	if len(nodes) < limit {
		limit = len(nodes)
	}
	nodes = nodes[:limit]

	maxWeight := 0.0
	for _, a := range nodes {
		for _, b := range nodes {
			if w, ok := gen.graph.EdgeWeight(a.ID, b.ID); ok && w > maxWeight {
				maxWeight = w
			}
		}
	}

	data := &matrixData{
		pageMeta: meta,
		Limit:    limit,
		Total:    gen.graph.NodeCount(),
	}
	for _, n := range nodes {
		data.Names = append(data.Names, n.Name)
	}
	for _, a := range nodes {
		row := matrixRow{Name: a.Name}
		for _, b := range nodes {
			cell := matrixCell{Shade: "transparent"}
			if w, ok := gen.graph.EdgeWeight(a.ID, b.ID); ok {
				alpha := 0.15 + 0.85*w/maxWeight
				cell.Label = fmt.Sprintf("%.0f", w)
				cell.Tooltip = fmt.Sprintf("%s and %s: %.0f shared appearances", a.Name, b.Name, w)
				cell.Shade = template.CSS(fmt.Sprintf("rgba(67, 99, 216, %.2f)", alpha))
			}
			row.Cells = append(row.Cells, cell)
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

// buildConclusions derives the overview's plain-language findings from
// the computed metrics.
func buildConclusions(s *analysis.Summary) []string {
	var out []string

	if s.Connected {
		out = append(out, fmt.Sprintf(
			"All %d characters form a single connected component: every character can be linked to every other through shared appearances.",
			s.Stats.NodeCount))
	} else {
		out = append(out, fmt.Sprintf(
			"The network splits into %d components; metrics below describe the largest.",
			len(s.Components)))
	}

	if len(s.TopDegree) > 0 {
		top := s.TopDegree[0]
		out = append(out, fmt.Sprintf(
			"%s is the best-connected character, sharing panels with %.0f%% of the cast.",
			top.Name, top.Score*100))
	}

	out = append(out, fmt.Sprintf(
		"The degree distribution is heavy-tailed: the top tenth of characters hold %.0f%% of all co-appearance endpoints.",
		s.HeavyTailShare*100))

	if s.Clustering != nil {
		out = append(out, fmt.Sprintf(
			"Co-stars tend to know each other: the global clustering coefficient is %.3f against the %.4f expected of a random graph of this density.",
			s.Clustering.Global, randomGraphDensity(s)))
	}

	if s.Assortativity < -0.05 {
		out = append(out, fmt.Sprintf(
			"Degree assortativity is %.3f: headline characters appear mostly alongside minor ones rather than alongside each other.",
			s.Assortativity))
	} else if s.Assortativity > 0.05 {
		out = append(out, fmt.Sprintf(
			"Degree assortativity is %.3f: well-connected characters cluster together.",
			s.Assortativity))
	}

	if s.Distance != nil && s.Distance.Diameter > 0 {
		out = append(out, fmt.Sprintf(
			"Any two characters are at most %d steps apart (%.2f on average), a small-world network.",
			s.Distance.Diameter, s.Distance.AveragePathLength))
	}

	if s.Communities != nil && len(s.Communities.Communities) > 0 {
		largest := s.Communities.Communities[0]
		out = append(out, fmt.Sprintf(
			"Louvain finds %d communities (modularity %.3f); the largest holds %d characters.",
			len(s.Communities.Communities), s.Communities.Modularity, largest.Size))
	}
	return out
}

// randomGraphDensity is the edge probability of an Erdos-Renyi graph
// with the same node and edge counts, the baseline a clustering
// coefficient is read against.
func randomGraphDensity(s *analysis.Summary) float64 {
	n := float64(s.Stats.NodeCount)
	if n < 2 {
		return 0
	}
	return float64(s.Stats.EdgeCount) / (n * (n - 1) / 2)
}
