package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kpellard/heronet/pkg/analysis"
	"github.com/kpellard/heronet/pkg/config"
	"github.com/kpellard/heronet/pkg/dataset"
	"github.com/kpellard/heronet/pkg/graph"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#E23636")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#518CCA")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#518CCA")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#E23636")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#66BB6A")).
			Padding(1, 2).
			MarginRight(2)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#518CCA"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	overviewView view = iota
	rankingsView
	communitiesView
	distributionView
	searchView
	viewCount
)

var viewNames = []string{"Overview", "Rankings", "Communities", "Distribution", "Search"}

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Metric   key.Binding
	Enter    key.Binding
	Up       key.Binding
	Down     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Metric: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "cycle ranking"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "look up"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Metric, k.Enter, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Metric, k.Enter},
		{k.Up, k.Down, k.Quit},
	}
}

// rankMetric pairs a leaderboard name with its score map.
type rankMetric struct {
	name   string
	scores func(s *analysis.Summary) map[uint64]float64
}

var rankMetrics = []rankMetric{
	{"degree", func(s *analysis.Summary) map[uint64]float64 { return s.Degree }},
	{"betweenness", func(s *analysis.Summary) map[uint64]float64 {
		if s.Betweenness == nil {
			return nil
		}
		return s.Betweenness.Nodes
	}},
	{"closeness", func(s *analysis.Summary) map[uint64]float64 { return s.Closeness }},
	{"eigenvector", func(s *analysis.Summary) map[uint64]float64 {
		if s.Eigenvector == nil {
			return nil
		}
		return s.Eigenvector.Scores
	}},
	{"pagerank", func(s *analysis.Summary) map[uint64]float64 {
		if s.PageRank == nil {
			return nil
		}
		return s.PageRank.Scores
	}},
}

type neighbor struct {
	name   string
	weight float64
}

type model struct {
	graph       *graph.Graph
	summary     *analysis.Summary
	currentView view
	metricIdx   int
	rankTable   table.Model
	commTable   table.Model
	searchInput textinput.Model
	result      *analysis.NodeMetrics
	neighbors   []neighbor
	help        help.Model
	keys        keyMap
	width       int
	height      int
	message     string
}

func initialModel(g *graph.Graph, s *analysis.Summary) model {
	ti := textinput.New()
	ti.Placeholder = "CAPTAIN AMERICA"
	ti.CharLimit = 64
	ti.Width = 40

	rankCols := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Character", Width: 28},
		{Title: "Score", Width: 12},
		{Title: "Links", Width: 7},
	}
	rt := table.New(
		table.WithColumns(rankCols),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	commCols := []table.Column{
		{Title: "ID", Width: 4},
		{Title: "Size", Width: 6},
		{Title: "Density", Width: 9},
		{Title: "Top members", Width: 46},
	}
	ct := table.New(
		table.WithColumns(commCols),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#518CCA")).
		BorderBottom(true).
		Bold(true)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#E23636")).
		Bold(false)
	rt.SetStyles(ts)
	ct.SetStyles(ts)

	m := model{
		graph:       g,
		summary:     s,
		currentView: overviewView,
		rankTable:   rt,
		commTable:   ct,
		searchInput: ti,
		help:        help.New(),
		keys:        keys,
	}
	m.setRanking(0)
	m.setCommunities()
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) setRanking(idx int) {
	m.metricIdx = idx
	scores := rankMetrics[idx].scores(m.summary)
	ranked := analysis.TopNodes(m.graph, scores, 25)

	rows := make([]table.Row, 0, len(ranked))
	for i, rn := range ranked {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			rn.Name,
			fmt.Sprintf("%.4f", rn.Score),
			strconv.Itoa(m.graph.Degree(rn.NodeID)),
		})
	}
	m.rankTable.SetRows(rows)
	m.rankTable.SetCursor(0)
}

func (m *model) setCommunities() {
	if m.summary.Communities == nil {
		return
	}
	rows := make([]table.Row, 0, len(m.summary.Communities.Communities))
	for _, c := range m.summary.Communities.Communities {
		rows = append(rows, table.Row{
			strconv.Itoa(c.ID),
			strconv.Itoa(c.Size),
			fmt.Sprintf("%.4f", c.Density),
			m.topMembers(c, 3),
		})
	}
	m.commTable.SetRows(rows)
}

// topMembers names the highest-degree members of a community.
func (m *model) topMembers(c analysis.Community, n int) string {
	ids := make([]uint64, len(c.Nodes))
	copy(ids, c.Nodes)
	sort.Slice(ids, func(i, j int) bool {
		di, dj := m.graph.Degree(ids[i]), m.graph.Degree(ids[j])
		if di != dj {
			return di > dj
		}
		return ids[i] < ids[j]
	})
	if len(ids) > n {
		ids = ids[:n]
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if node, ok := m.graph.Node(id); ok {
			names = append(names, node.Name)
		}
	}
	return strings.Join(names, ", ")
}

func (m *model) lookup() {
	name := strings.ToUpper(strings.TrimSpace(m.searchInput.Value()))
	if name == "" {
		m.message = "Enter a character name"
		return
	}
	node, ok := m.graph.NodeByName(name)
	if !ok {
		m.result = nil
		m.neighbors = nil
		m.message = fmt.Sprintf("No character named %q", name)
		return
	}
	metrics, _ := m.summary.NodeMetrics(m.graph, node.ID)
	m.result = metrics
	m.neighbors = m.neighbors[:0]
	for id, w := range m.graph.Neighbors(node.ID) {
		if other, ok := m.graph.Node(id); ok {
			m.neighbors = append(m.neighbors, neighbor{name: other.Name, weight: w})
		}
	}
	sort.Slice(m.neighbors, func(i, j int) bool {
		if m.neighbors[i].weight != m.neighbors[j].weight {
			return m.neighbors[i].weight > m.neighbors[j].weight
		}
		return m.neighbors[i].name < m.neighbors[j].name
	})
	if len(m.neighbors) > 10 {
		m.neighbors = m.neighbors[:10]
	}
	m.message = ""
}

func (m *model) switchView(v view) {
	m.currentView = v
	if v == searchView {
		m.searchInput.Focus()
	} else {
		m.searchInput.Blur()
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		typing := m.currentView == searchView && m.searchInput.Focused()
		switch {
		case key.Matches(msg, m.keys.Quit):
			// A plain q is text while the search box has focus.
			if !typing || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.Tab):
			m.switchView((m.currentView + 1) % viewCount)

		case key.Matches(msg, m.keys.ShiftTab):
			if m.currentView == 0 {
				m.switchView(viewCount - 1)
			} else {
				m.switchView(m.currentView - 1)
			}

		case key.Matches(msg, m.keys.Metric):
			if m.currentView == rankingsView {
				m.setRanking((m.metricIdx + 1) % len(rankMetrics))
			}

		case key.Matches(msg, m.keys.Enter):
			if typing {
				m.lookup()
			}
		}
	}

	// Update focused component
	switch m.currentView {
	case rankingsView:
		m.rankTable, cmd = m.rankTable.Update(msg)
		cmds = append(cmds, cmd)
	case communitiesView:
		m.commTable, cmd = m.commTable.Update(msg)
		cmds = append(cmds, cmd)
	case searchView:
		m.searchInput, cmd = m.searchInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Marvel Character Network"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case overviewView:
		s.WriteString(m.renderOverview())
	case rankingsView:
		s.WriteString(m.renderRankings())
	case communitiesView:
		s.WriteString(m.renderCommunities())
	case distributionView:
		s.WriteString(m.renderDistribution())
	case searchView:
		s.WriteString(m.renderSearch())
	}

	if m.message != "" {
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(m.message))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	var renderedTabs []string
	for i, tab := range viewNames {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m model) renderOverview() string {
	s := m.summary

	graphBox := fmt.Sprintf(`Graph
───────────────────
Characters:  %d
Edges:       %d
Total weight: %.0f
Avg degree:  %.2f
Max degree:  %d
Connected:   %v`,
		s.Stats.NodeCount,
		s.Stats.EdgeCount,
		s.Stats.TotalWeight,
		s.Stats.AvgDegree,
		s.Stats.MaxDegree,
		s.Connected,
	)

	structure := "Structure\n───────────────────\n"
	if s.Distance != nil {
		structure += fmt.Sprintf("Diameter:    %d\nRadius:      %d\nAvg path:    %.3f\n",
			s.Distance.Diameter, s.Distance.Radius, s.Distance.AveragePathLength)
	}
	if s.Clustering != nil {
		structure += fmt.Sprintf("Clustering:  %.4f\nTriangles:   %d\n",
			s.Clustering.Average, s.Clustering.Triangles)
	}
	structure += fmt.Sprintf("Assortativity: %.4f", s.Assortativity)

	communities := "Communities\n───────────────────\n"
	if s.Communities != nil {
		communities += fmt.Sprintf("Count:       %d\nModularity:  %.4f\nLevels:      %d",
			len(s.Communities.Communities), s.Communities.Modularity, s.Communities.Levels)
	} else {
		communities += "detection disabled"
	}

	return contentStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		statsBoxStyle.Render(graphBox),
		statsBoxStyle.Render(structure),
		statsBoxStyle.Render(communities),
	))
}

func (m model) renderRankings() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Centrality: " + rankMetrics[m.metricIdx].name))
	s.WriteString("\n\n")
	s.WriteString(m.rankTable.View())
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Navigate with ↑/↓, press r to cycle ranking"))
	return contentStyle.Render(s.String())
}

func (m model) renderCommunities() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Communities"))
	s.WriteString("\n\n")
	if m.summary.Communities == nil {
		s.WriteString(helpStyle.Render("Community detection was disabled for this run"))
		return contentStyle.Render(s.String())
	}
	s.WriteString(m.commTable.View())
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Modularity %.4f over %d communities",
		m.summary.Communities.Modularity, len(m.summary.Communities.Communities)))
	return contentStyle.Render(s.String())
}

// distributionBands groups the degree histogram for terminal display.
const bandWidth = 25

func (m model) renderDistribution() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Degree distribution"))
	s.WriteString("\n\n")

	buckets := analysis.SortedDistribution(m.summary.Distribution)
	if len(buckets) == 0 {
		return contentStyle.Render(s.String())
	}

	maxDegree := buckets[len(buckets)-1].Degree
	bands := make([]int, maxDegree/bandWidth+1)
	for _, b := range buckets {
		bands[b.Degree/bandWidth] += b.Count
	}
	peak := 0
	for _, count := range bands {
		if count > peak {
			peak = count
		}
	}

	for i, count := range bands {
		lo, hi := i*bandWidth+1, (i+1)*bandWidth
		if i == 0 {
			lo = 0
		}
		width := 0
		if peak > 0 {
			width = count * 40 / peak
		}
		s.WriteString(fmt.Sprintf("%4d-%-4d %4d %s\n",
			lo, hi, count, barStyle.Render(strings.Repeat("█", width))))
	}

	st := m.summary.DegreeStats
	s.WriteString(fmt.Sprintf("\nmin %d, median %.0f, mean %.2f, max %d",
		st.Min, st.Median, st.Mean, st.Max))
	s.WriteString(fmt.Sprintf("\ntop 10%% of characters carry %.1f%% of all connections",
		m.summary.HeavyTailShare*100))
	return contentStyle.Render(s.String())
}

func (m model) renderSearch() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Character lookup"))
	s.WriteString("\n\n")
	s.WriteString(m.searchInput.View())
	s.WriteString("\n")

	if m.result != nil {
		r := m.result
		card := fmt.Sprintf(`%s
───────────────────
Degree:       %d
Strength:     %.0f
Betweenness:  %.4f
Closeness:    %.4f
Eigenvector:  %.4f
PageRank:     %.4f
Clustering:   %.4f
Community:    %d`,
			r.Node.Name,
			r.Degree,
			r.Strength,
			r.Betweenness,
			r.Closeness,
			r.Eigenvector,
			r.PageRank,
			r.Clustering,
			r.Community,
		)

		var nb strings.Builder
		nb.WriteString("Strongest ties\n───────────────────\n")
		for _, n := range m.neighbors {
			nb.WriteString(fmt.Sprintf("%-26s %4.0f\n", n.name, n.weight))
		}

		s.WriteString("\n")
		s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			statsBoxStyle.Render(card),
			statsBoxStyle.Render(strings.TrimRight(nb.String(), "\n")),
		))
	}
	return contentStyle.Render(s.String())
}

func main() {
	configPath := flag.String("config", "", "Path to config file (optional)")
	nodesFile := flag.String("nodes", "", "Node list CSV (overrides config)")
	edgesFile := flag.String("edges", "", "Weighted edge list CSV (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *nodesFile != "" {
		cfg.Data.NodesFile = *nodesFile
	}
	if *edgesFile != "" {
		cfg.Data.EdgesFile = *edgesFile
	}

	g, err := dataset.LoadGraph(cfg.Data.NodesFile, cfg.Data.EdgesFile, dataset.LoadOptions{
		SkipVerify: cfg.Data.SkipVerify,
	})
	if err != nil {
		log.Fatalf("loading graph: %v", err)
	}

	opts := analysis.DefaultSummaryOptions()
	opts.TopK = cfg.Analysis.TopK
	opts.Communities = cfg.Analysis.Communities
	summary, err := analysis.ComputeSummary(context.Background(), g, opts)
	if err != nil {
		log.Fatalf("computing metrics: %v", err)
	}

	p := tea.NewProgram(initialModel(g, summary), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("running program: %v", err)
	}
}
