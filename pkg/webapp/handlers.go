package webapp

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/kpellard/heronet/pkg/analysis"
	"github.com/kpellard/heronet/pkg/graph"
)

func (s *Server) current() (*graph.Graph, *analysis.Summary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, nil, false
	}
	return s.snap.graph, s.snap.summary, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	g, summary, ok := s.current()
	if !ok {
		s.respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:  "starting",
			Version: s.version,
			Uptime:  time.Since(s.startTime).String(),
		})
		return
	}
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:     "healthy",
		Version:    s.version,
		Uptime:     time.Since(s.startTime).String(),
		NodeCount:  g.NodeCount(),
		EdgeCount:  g.EdgeCount(),
		ComputedAt: summary.ComputedAt,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	_, summary, ok := s.current()
	if !ok {
		s.notReady(w)
		return
	}
	s.respondJSON(w, http.StatusOK, summary)
}

// scoresFor selects the centrality map behind a ?by= value.
func scoresFor(summary *analysis.Summary, by string) (map[uint64]float64, bool) {
	switch by {
	case "degree":
		return summary.Degree, true
	case "betweenness":
		return summary.Betweenness.Nodes, true
	case "closeness":
		return summary.Closeness, true
	case "eigenvector":
		return summary.Eigenvector.Scores, true
	case "pagerank":
		return summary.PageRank.Scores, true
	}
	return nil, false
}

func (s *Server) handleCharacters(w http.ResponseWriter, r *http.Request) {
	g, summary, ok := s.current()
	if !ok {
		s.notReady(w)
		return
	}

	by := r.URL.Query().Get("by")
	if by == "" {
		by = "degree"
	}
	scores, ok := scoresFor(summary, by)
	if !ok {
		s.respondError(w, http.StatusBadRequest,
			"Unknown centrality: use degree, betweenness, closeness, eigenvector or pagerank")
		return
	}

	limit := s.cfg.Analysis.TopK
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	s.respondJSON(w, http.StatusOK, RankingResponse{
		By:         by,
		Characters: analysis.TopNodes(g, scores, limit),
	})
}

func (s *Server) handleCharacter(w http.ResponseWriter, r *http.Request) {
	g, summary, ok := s.current()
	if !ok {
		s.notReady(w)
		return
	}

	name := mux.Vars(r)["name"]
	node, found := g.NodeByName(name)
	if !found {
		// Dataset names are uppercase; accept any casing in the URL.
		node, found = g.NodeByName(strings.ToUpper(name))
	}
	if !found {
		s.respondError(w, http.StatusNotFound, "Unknown character")
		return
	}

	nodeMetrics, found := summary.NodeMetrics(g, node.ID)
	if !found {
		s.respondError(w, http.StatusNotFound, "Unknown character")
		return
	}

	neighbors := make([]NeighborResponse, 0)
	for id, weight := range g.Neighbors(node.ID) {
		if peer, ok := g.Node(id); ok {
			neighbors = append(neighbors, NeighborResponse{Name: peer.Name, Weight: weight})
		}
	}
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Weight != neighbors[j].Weight {
			return neighbors[i].Weight > neighbors[j].Weight
		}
		return neighbors[i].Name < neighbors[j].Name
	})

	s.respondJSON(w, http.StatusOK, CharacterResponse{
		NodeMetrics: nodeMetrics,
		Neighbors:   neighbors,
	})
}

func (s *Server) handleCommunities(w http.ResponseWriter, r *http.Request) {
	g, summary, ok := s.current()
	if !ok {
		s.notReady(w)
		return
	}

	resp := CommunitiesResponse{Communities: []CommunityResponse{}}
	if summary.Communities != nil {
		resp.Modularity = summary.Communities.Modularity
		for _, c := range summary.Communities.Communities {
			members := make([]string, 0, len(c.Nodes))
			for _, id := range c.Nodes {
				if node, ok := g.Node(id); ok {
					members = append(members, node.Name)
				}
			}
			resp.Communities = append(resp.Communities, CommunityResponse{
				ID:      c.ID,
				Size:    c.Size,
				Density: c.Density,
				Members: members,
			})
		}
	}
	resp.Count = len(resp.Communities)
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	network := s.network()
	if network == nil {
		s.notReady(w)
		return
	}
	s.respondJSON(w, http.StatusOK, network)
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	_, summary, ok := s.current()
	if !ok {
		s.notReady(w)
		return
	}
	s.respondJSON(w, http.StatusOK, DistributionResponse{
		Stats:          summary.DegreeStats,
		HeavyTailShare: summary.HeavyTailShare,
		Buckets:        analysis.SortedDistribution(summary.Distribution),
	})
}
