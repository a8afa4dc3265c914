// Package graphapi exposes the analyzed network over GraphQL: character
// lookups with their full metric set, leaderboards, communities, the
// run summary and shortest paths between characters.
package graphapi

import (
	"errors"
	"fmt"
	"sort"

	"github.com/graphql-go/graphql"

	"github.com/kpellard/heronet/pkg/analysis"
	"github.com/kpellard/heronet/pkg/graph"
)

var (
	ErrNotReady         = errors.New("analysis not ready")
	ErrUnknownCharacter = errors.New("unknown character")
	ErrUnknownMetric    = errors.New("unknown metric")
	ErrUnknownCommunity = errors.New("unknown community")
)

// Source hands resolvers the current graph and summary. Resolvers call
// it per request, so a reload swaps the data without rebuilding the
// schema.
type Source interface {
	Graph() *graph.Graph
	Summary() *analysis.Summary
}

// NewSchema builds the query schema over the source.
func NewSchema(src Source) (graphql.Schema, error) {
	neighborType := newNeighborType()
	characterType := newCharacterType(src, neighborType)
	communityType := newCommunityType()
	summaryType := newSummaryType()
	rankedType := newRankedType()

	queryFields := graphql.Fields{
		"health": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return "ok", nil
			},
		},
		"character": &graphql.Field{
			Type: characterType,
			Args: graphql.FieldConfigArgument{
				"name": &graphql.ArgumentConfig{
					Type: graphql.NewNonNull(graphql.String),
				},
			},
			Resolve: resolveCharacter(src),
		},
		"characters": &graphql.Field{
			Type: graphql.NewList(characterType),
			Args: graphql.FieldConfigArgument{
				"limit": &graphql.ArgumentConfig{
					Type:         graphql.Int,
					DefaultValue: 0,
				},
			},
			Resolve: resolveCharacters(src),
		},
		"topCharacters": &graphql.Field{
			Type: graphql.NewList(rankedType),
			Args: graphql.FieldConfigArgument{
				"metric": &graphql.ArgumentConfig{
					Type: graphql.NewNonNull(graphql.String),
				},
				"limit": &graphql.ArgumentConfig{
					Type:         graphql.Int,
					DefaultValue: 10,
				},
			},
			Resolve: resolveTopCharacters(src),
		},
		"community": &graphql.Field{
			Type: communityType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{
					Type: graphql.NewNonNull(graphql.Int),
				},
			},
			Resolve: resolveCommunity(src),
		},
		"communities": &graphql.Field{
			Type:    graphql.NewList(communityType),
			Resolve: resolveCommunities(src),
		},
		"summary": &graphql.Field{
			Type:    summaryType,
			Resolve: resolveSummary(src),
		},
		"path": &graphql.Field{
			Type: graphql.NewList(graphql.String),
			Args: graphql.FieldConfigArgument{
				"from": &graphql.ArgumentConfig{
					Type: graphql.NewNonNull(graphql.String),
				},
				"to": &graphql.ArgumentConfig{
					Type: graphql.NewNonNull(graphql.String),
				},
			},
			Resolve: resolvePath(src),
		},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: queryFields,
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}

// ExecuteQuery executes a GraphQL query against a schema
func ExecuteQuery(query string, schema graphql.Schema) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: query,
	})
}

// ExecuteQueryWithVariables executes a GraphQL query with variables
func ExecuteQueryWithVariables(query string, schema graphql.Schema, variables map[string]interface{}) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: variables,
	})
}

// sortedNodes returns the characters in name order for stable lists.
func sortedNodes(g *graph.Graph) []graph.Node {
	nodes := g.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	return nodes
}
