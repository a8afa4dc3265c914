// Package analysis implements the network metrics for the co-appearance
// graph: centrality measures, clustering, assortativity, distances,
// connected components, community detection, node similarity and link
// prediction. All algorithms treat the graph as undirected and, where a
// measure is weight-aware, use co-appearance counts as edge weights.
package analysis

import (
	"github.com/kpellard/heronet/pkg/graph"
)

// DegreeCentrality returns the degree of each node normalized by the
// maximum possible degree n-1. A graph with fewer than two nodes scores
// zero everywhere.
func DegreeCentrality(g *graph.Graph) map[uint64]float64 {
	n := g.NodeCount()
	scores := make(map[uint64]float64, n)
	for _, node := range g.Nodes() {
		if n <= 1 {
			scores[node.ID] = 0
			continue
		}
		scores[node.ID] = float64(g.Degree(node.ID)) / float64(n-1)
	}
	return scores
}

// BetweennessResult holds node and edge betweenness scores from a single
// Brandes pass.
type BetweennessResult struct {
	Nodes map[uint64]float64  `json:"nodes"`
	Edges map[EdgeKey]float64 `json:"-"`
}

// Betweenness computes shortest-path betweenness centrality for every
// node and every edge using Brandes' algorithm over unweighted hops.
// Node scores are normalized by 2/((n-1)(n-2)) and edge scores by
// 2/(n(n-1)), the undirected conventions, so both land in [0, 1].
func Betweenness(g *graph.Graph) *BetweennessResult {
	n := g.NodeCount()
	res := &BetweennessResult{
		Nodes: make(map[uint64]float64, n),
		Edges: make(map[EdgeKey]float64, g.EdgeCount()),
	}
	for _, node := range g.Nodes() {
		res.Nodes[node.ID] = 0
	}
	for _, e := range g.Edges() {
		res.Edges[EdgeKey{From: e.From, To: e.To}] = 0
	}

	for _, src := range g.Nodes() {
		s := src.ID

		stack := make([]uint64, 0, n)
		preds := make(map[uint64][]uint64, n)
		sigma := make(map[uint64]float64, n)
		dist := make(map[uint64]int, n)

		sigma[s] = 1
		dist[s] = 0
		queue := []uint64{s}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)
			for w := range g.Neighbors(v) {
				if _, seen := dist[w]; !seen {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					preds[w] = append(preds[w], v)
				}
			}
		}

		// Dependency accumulation in reverse BFS order.
		delta := make(map[uint64]float64, n)
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range preds[w] {
				c := sigma[v] / sigma[w] * (1 + delta[w])
				delta[v] += c
				res.Edges[edgeKey(v, w)] += c
			}
			if w != s {
				res.Nodes[w] += delta[w]
			}
		}
	}

	// Each unordered pair was counted from both endpoints.
	for id := range res.Nodes {
		res.Nodes[id] /= 2
	}
	for key := range res.Edges {
		res.Edges[key] /= 2
	}

	if n > 2 {
		norm := 2.0 / float64((n-1)*(n-2))
		for id := range res.Nodes {
			res.Nodes[id] *= norm
		}
	}
	if n > 1 {
		norm := 2.0 / float64(n*(n-1))
		for key := range res.Edges {
			res.Edges[key] *= norm
		}
	}
	return res
}

// Closeness computes closeness centrality with the Wasserman-Faust
// correction, which scales each node's score by the fraction of the
// graph it can reach. On a connected graph this reduces to the classic
// (n-1) / sum-of-distances form; on a disconnected graph nodes in small
// components are penalized instead of inflated.
func Closeness(g *graph.Graph) map[uint64]float64 {
	n := g.NodeCount()
	scores := make(map[uint64]float64, n)
	for _, node := range g.Nodes() {
		dist := bfsDistances(g, node.ID)
		var total float64
		for _, d := range dist {
			total += float64(d)
		}
		reachable := float64(len(dist) - 1)
		if reachable <= 0 || total == 0 {
			scores[node.ID] = 0
			continue
		}
		scores[node.ID] = (reachable / total) * (reachable / float64(n-1))
	}
	return scores
}
