package graphapi

import (
	"fmt"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/kpellard/heronet/pkg/analysis"
	"github.com/kpellard/heronet/pkg/graph"
)

func ready(src Source) (*graph.Graph, *analysis.Summary, error) {
	g, s := src.Graph(), src.Summary()
	if g == nil || s == nil {
		return nil, nil, ErrNotReady
	}
	return g, s, nil
}

func buildCharacter(g *graph.Graph, s *analysis.Summary, id uint64) (*characterModel, bool) {
	metrics, ok := s.NodeMetrics(g, id)
	if !ok {
		return nil, false
	}
	return &characterModel{metrics: metrics}, true
}

func resolveCharacter(src Source) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		g, s, err := ready(src)
		if err != nil {
			return nil, err
		}
		name, _ := p.Args["name"].(string)
		node, ok := g.NodeByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCharacter, name)
		}
		c, _ := buildCharacter(g, s, node.ID)
		return c, nil
	}
}

func resolveCharacters(src Source) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		g, s, err := ready(src)
		if err != nil {
			return nil, err
		}

		nodes := sortedNodes(g)
		if limit, ok := p.Args["limit"].(int); ok && limit > 0 && limit < len(nodes) {
			nodes = nodes[:limit]
		}
		out := make([]*characterModel, 0, len(nodes))
		for _, node := range nodes {
			if c, ok := buildCharacter(g, s, node.ID); ok {
				out = append(out, c)
			}
		}
		return out, nil
	}
}

func resolveTopCharacters(src Source) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		g, s, err := ready(src)
		if err != nil {
			return nil, err
		}

		metric, _ := p.Args["metric"].(string)
		limit, _ := p.Args["limit"].(int)
		if limit <= 0 {
			limit = 10
		}

		var scores map[uint64]float64
		switch metric {
		case "degree":
			scores = s.Degree
		case "betweenness":
			scores = s.Betweenness.Nodes
		case "closeness":
			scores = s.Closeness
		case "eigenvector":
			scores = s.Eigenvector.Scores
		case "pagerank":
			scores = s.PageRank.Scores
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, metric)
		}
		return analysis.TopNodes(g, scores, limit), nil
	}
}

func buildCommunity(g *graph.Graph, c analysis.Community) communityModel {
	members := make([]string, 0, len(c.Nodes))
	for _, id := range c.Nodes {
		if node, ok := g.Node(id); ok {
			members = append(members, node.Name)
		}
	}
	return communityModel{
		ID:      c.ID,
		Size:    c.Size,
		Density: c.Density,
		Members: members,
	}
}

func resolveCommunity(src Source) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		g, s, err := ready(src)
		if err != nil {
			return nil, err
		}
		if s.Communities == nil {
			return nil, ErrNotReady
		}
		id, _ := p.Args["id"].(int)
		for _, c := range s.Communities.Communities {
			if c.ID == id {
				return buildCommunity(g, c), nil
			}
		}
		return nil, fmt.Errorf("%w: %d", ErrUnknownCommunity, id)
	}
}

func resolveCommunities(src Source) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		g, s, err := ready(src)
		if err != nil {
			return nil, err
		}
		if s.Communities == nil {
			return []communityModel{}, nil
		}
		out := make([]communityModel, 0, len(s.Communities.Communities))
		for _, c := range s.Communities.Communities {
			out = append(out, buildCommunity(g, c))
		}
		return out, nil
	}
}

func resolveSummary(src Source) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		_, s, err := ready(src)
		if err != nil {
			return nil, err
		}

		model := summaryModel{
			NodeCount:      s.Stats.NodeCount,
			EdgeCount:      s.Stats.EdgeCount,
			TotalWeight:    s.Stats.TotalWeight,
			HeavyTailShare: s.HeavyTailShare,
			Assortativity:  s.Assortativity,
			Connected:      s.Connected,
			ComponentCount: len(s.Components),
			ComputedAt:     s.ComputedAt.UTC().Format(time.RFC3339),
		}
		if s.Stats.NodeCount > 0 {
			model.AverageDegree = 2 * float64(s.Stats.EdgeCount) / float64(s.Stats.NodeCount)
		}
		model.MaxDegree = s.DegreeStats.Max
		if s.Clustering != nil {
			model.ClusteringGlobal = s.Clustering.Global
			model.ClusteringAverage = s.Clustering.Average
		}
		if s.Distance != nil {
			model.Diameter = s.Distance.Diameter
			model.Radius = s.Distance.Radius
			model.AveragePathLength = s.Distance.AveragePathLength
		}
		if s.Communities != nil {
			model.CommunityCount = len(s.Communities.Communities)
			model.Modularity = s.Communities.Modularity
		}
		return model, nil
	}
}

func resolvePath(src Source) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		g, _, err := ready(src)
		if err != nil {
			return nil, err
		}

		fromName, _ := p.Args["from"].(string)
		toName, _ := p.Args["to"].(string)
		from, ok := g.NodeByName(fromName)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCharacter, fromName)
		}
		to, ok := g.NodeByName(toName)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCharacter, toName)
		}

		ids, err := analysis.ShortestPath(g, from.ID, to.ID)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(ids))
		for _, id := range ids {
			if node, ok := g.Node(id); ok {
				names = append(names, node.Name)
			}
		}
		return names, nil
	}
}
