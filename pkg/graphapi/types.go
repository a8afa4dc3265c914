package graphapi

import (
	"sort"

	"github.com/graphql-go/graphql"

	"github.com/kpellard/heronet/pkg/analysis"
)

// characterModel is the resolved shape behind the Character type.
type characterModel struct {
	metrics *analysis.NodeMetrics
}

type neighborModel struct {
	Name   string
	Weight float64
}

type communityModel struct {
	ID      int
	Size    int
	Density float64
	Members []string
}

type summaryModel struct {
	NodeCount         int
	EdgeCount         int
	TotalWeight       float64
	AverageDegree     float64
	MaxDegree         int
	HeavyTailShare    float64
	ClusteringGlobal  float64
	ClusteringAverage float64
	Assortativity     float64
	Connected         bool
	ComponentCount    int
	Diameter          int
	Radius            int
	AveragePathLength float64
	CommunityCount    int
	Modularity        float64
	ComputedAt        string
}

func newNeighborType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Neighbor",
		Fields: graphql.Fields{
			"name": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if n, ok := p.Source.(neighborModel); ok {
						return n.Name, nil
					}
					return nil, nil
				},
			},
			"weight": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if n, ok := p.Source.(neighborModel); ok {
						return n.Weight, nil
					}
					return nil, nil
				},
			},
		},
	})
}

func newCharacterType(src Source, neighborType *graphql.Object) *graphql.Object {
	metricField := func(get func(*analysis.NodeMetrics) interface{}) *graphql.Field {
		return &graphql.Field{
			Type: graphql.Float,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if c, ok := p.Source.(*characterModel); ok {
					return get(c.metrics), nil
				}
				return nil, nil
			},
		}
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Character",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if c, ok := p.Source.(*characterModel); ok {
						return c.metrics.Node.ID, nil
					}
					return nil, nil
				},
			},
			"name": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if c, ok := p.Source.(*characterModel); ok {
						return c.metrics.Node.Name, nil
					}
					return nil, nil
				},
			},
			"degree": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if c, ok := p.Source.(*characterModel); ok {
						return c.metrics.Degree, nil
					}
					return nil, nil
				},
			},
			"strength":         metricField(func(m *analysis.NodeMetrics) interface{} { return m.Strength }),
			"degreeCentrality": metricField(func(m *analysis.NodeMetrics) interface{} { return m.DegreeCentrality }),
			"betweenness":      metricField(func(m *analysis.NodeMetrics) interface{} { return m.Betweenness }),
			"closeness":        metricField(func(m *analysis.NodeMetrics) interface{} { return m.Closeness }),
			"eigenvector":      metricField(func(m *analysis.NodeMetrics) interface{} { return m.Eigenvector }),
			"pagerank":         metricField(func(m *analysis.NodeMetrics) interface{} { return m.PageRank }),
			"clustering":       metricField(func(m *analysis.NodeMetrics) interface{} { return m.Clustering }),
			"community": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if c, ok := p.Source.(*characterModel); ok {
						return c.metrics.Community, nil
					}
					return nil, nil
				},
			},
			"eccentricity": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if c, ok := p.Source.(*characterModel); ok {
						return c.metrics.Eccentricity, nil
					}
					return nil, nil
				},
			},
			"neighbors": &graphql.Field{
				Type: graphql.NewList(neighborType),
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{
						Type:         graphql.Int,
						DefaultValue: 0,
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					c, ok := p.Source.(*characterModel)
					if !ok {
						return nil, nil
					}
					g := src.Graph()
					if g == nil {
						return nil, ErrNotReady
					}

					neighbors := make([]neighborModel, 0)
					for id, weight := range g.Neighbors(c.metrics.Node.ID) {
						if node, ok := g.Node(id); ok {
							neighbors = append(neighbors, neighborModel{Name: node.Name, Weight: weight})
						}
					}
					sort.Slice(neighbors, func(i, j int) bool {
						if neighbors[i].Weight != neighbors[j].Weight {
							return neighbors[i].Weight > neighbors[j].Weight
						}
						return neighbors[i].Name < neighbors[j].Name
					})
					if limit, ok := p.Args["limit"].(int); ok && limit > 0 && limit < len(neighbors) {
						neighbors = neighbors[:limit]
					}
					return neighbors, nil
				},
			},
		},
	})
}

func newCommunityType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Community",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if c, ok := p.Source.(communityModel); ok {
						return c.ID, nil
					}
					return nil, nil
				},
			},
			"size": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if c, ok := p.Source.(communityModel); ok {
						return c.Size, nil
					}
					return nil, nil
				},
			},
			"density": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if c, ok := p.Source.(communityModel); ok {
						return c.Density, nil
					}
					return nil, nil
				},
			},
			"members": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if c, ok := p.Source.(communityModel); ok {
						return c.Members, nil
					}
					return nil, nil
				},
			},
		},
	})
}

func newRankedType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "RankedCharacter",
		Fields: graphql.Fields{
			"name": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if r, ok := p.Source.(analysis.RankedNode); ok {
						return r.Name, nil
					}
					return nil, nil
				},
			},
			"score": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if r, ok := p.Source.(analysis.RankedNode); ok {
						return r.Score, nil
					}
					return nil, nil
				},
			},
		},
	})
}

func newSummaryType() *graphql.Object {
	field := func(t graphql.Output, get func(summaryModel) interface{}) *graphql.Field {
		return &graphql.Field{
			Type: t,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if s, ok := p.Source.(summaryModel); ok {
					return get(s), nil
				}
				return nil, nil
			},
		}
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Summary",
		Fields: graphql.Fields{
			"nodeCount":         field(graphql.Int, func(s summaryModel) interface{} { return s.NodeCount }),
			"edgeCount":         field(graphql.Int, func(s summaryModel) interface{} { return s.EdgeCount }),
			"totalWeight":       field(graphql.Float, func(s summaryModel) interface{} { return s.TotalWeight }),
			"averageDegree":     field(graphql.Float, func(s summaryModel) interface{} { return s.AverageDegree }),
			"maxDegree":         field(graphql.Int, func(s summaryModel) interface{} { return s.MaxDegree }),
			"heavyTailShare":    field(graphql.Float, func(s summaryModel) interface{} { return s.HeavyTailShare }),
			"clusteringGlobal":  field(graphql.Float, func(s summaryModel) interface{} { return s.ClusteringGlobal }),
			"clusteringAverage": field(graphql.Float, func(s summaryModel) interface{} { return s.ClusteringAverage }),
			"assortativity":     field(graphql.Float, func(s summaryModel) interface{} { return s.Assortativity }),
			"connected":         field(graphql.Boolean, func(s summaryModel) interface{} { return s.Connected }),
			"componentCount":    field(graphql.Int, func(s summaryModel) interface{} { return s.ComponentCount }),
			"diameter":          field(graphql.Int, func(s summaryModel) interface{} { return s.Diameter }),
			"radius":            field(graphql.Int, func(s summaryModel) interface{} { return s.Radius }),
			"averagePathLength": field(graphql.Float, func(s summaryModel) interface{} { return s.AveragePathLength }),
			"communityCount":    field(graphql.Int, func(s summaryModel) interface{} { return s.CommunityCount }),
			"modularity":        field(graphql.Float, func(s summaryModel) interface{} { return s.Modularity }),
			"computedAt":        field(graphql.String, func(s summaryModel) interface{} { return s.ComputedAt }),
		},
	})
}
