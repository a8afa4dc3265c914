package analysis

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kpellard/heronet/pkg/graph"
)

// SummaryOptions configures a full analysis run.
type SummaryOptions struct {
	// TopK is the length of the per-metric leaderboards.
	TopK int
	// Communities toggles Louvain detection, the slowest stage.
	Communities bool
	// PageRank, Eigenvector and Louvain override the per-algorithm
	// defaults when set.
	PageRank    *PageRankOptions
	Eigenvector *EigenvectorOptions
	Louvain     *LouvainOptions
}

// DefaultSummaryOptions returns the standard settings.
func DefaultSummaryOptions() *SummaryOptions {
	return &SummaryOptions{
		TopK:        10,
		Communities: true,
	}
}

// Summary bundles every metric of one analysis run. It is the unit the
// web app serves, the reports archive and the bundles carry.
type Summary struct {
	Stats graph.Stats `json:"stats"`

	Degree         map[uint64]float64 `json:"degree"`
	DegreeStats    DegreeStats        `json:"degree_stats"`
	Distribution   map[int]int        `json:"distribution"`
	HeavyTailShare float64            `json:"heavy_tail_share"`

	Betweenness *BetweennessResult `json:"betweenness"`
	Closeness   map[uint64]float64 `json:"closeness"`
	Eigenvector *EigenvectorResult `json:"eigenvector"`
	PageRank    *PageRankResult    `json:"pagerank"`

	Clustering    *ClusteringResult `json:"clustering"`
	Assortativity float64           `json:"assortativity"`

	Components []Component     `json:"components"`
	Connected  bool            `json:"connected"`
	Distance   *DistanceResult `json:"distance"`

	Communities *CommunityResult `json:"communities,omitempty"`

	TopDegree      []RankedNode `json:"top_degree"`
	TopBetweenness []RankedNode `json:"top_betweenness"`
	TopCloseness   []RankedNode `json:"top_closeness"`
	TopEigenvector []RankedNode `json:"top_eigenvector"`
	TopPageRank    []RankedNode `json:"top_pagerank"`
	TopBridges     []RankedEdge `json:"top_bridges"`

	ComputedAt time.Time     `json:"computed_at"`
	Elapsed    time.Duration `json:"elapsed"`
}

// ComputeSummary runs the full metric battery. Independent metric
// families run concurrently; the context cancels work between stages.
func ComputeSummary(ctx context.Context, g *graph.Graph, opts *SummaryOptions) (*Summary, error) {
	if opts == nil {
		opts = DefaultSummaryOptions()
	}

	start := time.Now()
	s := &Summary{Stats: g.Stats()}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		s.Degree = DegreeCentrality(g)
		s.Distribution = DegreeDistribution(g)
		s.DegreeStats = ComputeDegreeStats(g)
		s.HeavyTailShare = HeavyTailShare(g)
		return ctx.Err()
	})
	eg.Go(func() error {
		s.Betweenness = Betweenness(g)
		return ctx.Err()
	})
	eg.Go(func() error {
		s.Closeness = Closeness(g)
		return ctx.Err()
	})
	eg.Go(func() error {
		s.Eigenvector = Eigenvector(g, opts.Eigenvector)
		return ctx.Err()
	})
	eg.Go(func() error {
		s.PageRank = PageRank(g, opts.PageRank)
		return ctx.Err()
	})
	eg.Go(func() error {
		s.Clustering = Clustering(g)
		s.Assortativity = DegreeAssortativity(g)
		return ctx.Err()
	})
	eg.Go(func() error {
		s.Components = ConnectedComponents(g)
		s.Connected = len(s.Components) == 1
		s.Distance = Distances(g)
		return ctx.Err()
	})
	if opts.Communities {
		eg.Go(func() error {
			s.Communities = Louvain(g, opts.Louvain)
			return ctx.Err()
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	k := opts.TopK
	if k <= 0 {
		k = 10
	}
	s.TopDegree = TopNodes(g, s.Degree, k)
	s.TopBetweenness = TopNodes(g, s.Betweenness.Nodes, k)
	s.TopCloseness = TopNodes(g, s.Closeness, k)
	s.TopEigenvector = TopNodes(g, s.Eigenvector.Scores, k)
	s.TopPageRank = TopNodes(g, s.PageRank.Scores, k)
	s.TopBridges = TopEdges(s.Betweenness.Edges, k)

	s.ComputedAt = time.Now().UTC()
	s.Elapsed = time.Since(start)
	return s, nil
}

// NodeMetrics collects every per-node score for one character.
type NodeMetrics struct {
	Node             graph.Node `json:"node"`
	Degree           int        `json:"degree"`
	Strength         float64    `json:"strength"`
	DegreeCentrality float64    `json:"degree_centrality"`
	Betweenness      float64    `json:"betweenness"`
	Closeness        float64    `json:"closeness"`
	Eigenvector      float64    `json:"eigenvector"`
	PageRank         float64    `json:"pagerank"`
	Clustering       float64    `json:"clustering"`
	// Community is -1 when detection was not run.
	Community int `json:"community"`
	// Eccentricity is -1 for nodes outside the largest component.
	Eccentricity int `json:"eccentricity"`
}

// NodeMetrics extracts the scores of a single node from the summary.
func (s *Summary) NodeMetrics(g *graph.Graph, id uint64) (*NodeMetrics, bool) {
	node, ok := g.Node(id)
	if !ok {
		return nil, false
	}

	m := &NodeMetrics{
		Node:             node,
		Degree:           g.Degree(id),
		Strength:         g.Strength(id),
		DegreeCentrality: s.Degree[id],
		Closeness:        s.Closeness[id],
		Community:        -1,
		Eccentricity:     -1,
	}
	if s.Betweenness != nil {
		m.Betweenness = s.Betweenness.Nodes[id]
	}
	if s.Eigenvector != nil {
		m.Eigenvector = s.Eigenvector.Scores[id]
	}
	if s.PageRank != nil {
		m.PageRank = s.PageRank.Scores[id]
	}
	if s.Clustering != nil {
		m.Clustering = s.Clustering.Local[id]
	}
	if s.Communities != nil {
		if c, ok := s.Communities.NodeCommunity[id]; ok {
			m.Community = c
		}
	}
	if s.Distance != nil {
		if ecc, ok := s.Distance.Eccentricity[id]; ok {
			m.Eccentricity = ecc
		}
	}
	return m, true
}
