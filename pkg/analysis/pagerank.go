package analysis

import (
	"math"

	"github.com/kpellard/heronet/pkg/graph"
)

// PageRankOptions configures the PageRank iteration.
type PageRankOptions struct {
	// DampingFactor is the probability of following an edge rather than
	// teleporting to a random node.
	DampingFactor float64
	// MaxIterations bounds the number of iterations.
	MaxIterations int
	// Tolerance is the L1 convergence threshold.
	Tolerance float64
}

// DefaultPageRankOptions returns the standard settings.
func DefaultPageRankOptions() *PageRankOptions {
	return &PageRankOptions{
		DampingFactor: 0.85,
		MaxIterations: 100,
		Tolerance:     1e-6,
	}
}

// PageRankResult holds PageRank scores and convergence details.
type PageRankResult struct {
	Scores     map[uint64]float64 `json:"scores"`
	Iterations int                `json:"iterations"`
	Converged  bool               `json:"converged"`
	TopNodes   []RankedNode       `json:"top_nodes"`
}

// PageRank computes weighted PageRank on the undirected graph, with each
// edge acting as a pair of opposing directed edges. A node distributes
// its rank to neighbors in proportion to edge weight; mass held by
// isolated nodes is redistributed uniformly. Scores sum to 1.
func PageRank(g *graph.Graph, opts *PageRankOptions) *PageRankResult {
	if opts == nil {
		opts = DefaultPageRankOptions()
	}

	n := g.NodeCount()
	res := &PageRankResult{Scores: make(map[uint64]float64, n)}
	if n == 0 {
		res.Converged = true
		return res
	}

	strengths := make([]float64, n)
	for i := 0; i < n; i++ {
		strengths[i] = g.Strength(uint64(i + 1))
	}

	ranks := make([]float64, n)
	for i := range ranks {
		ranks[i] = 1 / float64(n)
	}

	base := (1 - opts.DampingFactor) / float64(n)
	for res.Iterations < opts.MaxIterations {
		res.Iterations++

		next := make([]float64, n)
		for i := range next {
			next[i] = base
		}

		var dangling float64
		for i := 0; i < n; i++ {
			if strengths[i] == 0 {
				dangling += ranks[i]
				continue
			}
			share := opts.DampingFactor * ranks[i] / strengths[i]
			for nbr, w := range g.Neighbors(uint64(i + 1)) {
				next[nbr-1] += share * w
			}
		}
		if dangling > 0 {
			spread := opts.DampingFactor * dangling / float64(n)
			for i := range next {
				next[i] += spread
			}
		}

		var diff float64
		for i := range next {
			diff += math.Abs(next[i] - ranks[i])
		}
		ranks = next
		if diff < opts.Tolerance {
			res.Converged = true
			break
		}
	}

	for i, r := range ranks {
		res.Scores[uint64(i+1)] = r
	}
	res.TopNodes = TopNodes(g, res.Scores, 10)
	return res
}
