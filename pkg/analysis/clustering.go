package analysis

import (
	"github.com/kpellard/heronet/pkg/graph"
)

// ClusteringResult holds triangle counts and clustering coefficients.
type ClusteringResult struct {
	// Local maps each node to the fraction of its neighbor pairs that
	// are themselves connected.
	Local map[uint64]float64 `json:"local"`
	// Average is the mean of the local coefficients over all nodes.
	Average float64 `json:"average"`
	// Global is the transitivity: three times the triangle count over
	// the number of connected triples.
	Global float64 `json:"global"`
	// Triangles is the number of distinct triangles in the graph.
	Triangles int `json:"triangles"`
}

// Clustering counts triangles and computes local, average and global
// clustering coefficients. Nodes with fewer than two neighbors have a
// local coefficient of zero.
func Clustering(g *graph.Graph) *ClusteringResult {
	n := g.NodeCount()
	res := &ClusteringResult{Local: make(map[uint64]float64, n)}

	var closedTriples, totalTriples float64
	trianglesAtNodes := 0
	for _, node := range g.Nodes() {
		nbrs := g.Neighbors(node.ID)
		k := len(nbrs)
		if k < 2 {
			res.Local[node.ID] = 0
			continue
		}

		ids := make([]uint64, 0, k)
		for nbr := range nbrs {
			ids = append(ids, nbr)
		}
		links := 0
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				if g.HasEdge(ids[i], ids[j]) {
					links++
				}
			}
		}

		possible := k * (k - 1) / 2
		res.Local[node.ID] = float64(links) / float64(possible)
		trianglesAtNodes += links
		closedTriples += float64(links)
		totalTriples += float64(possible)
	}

	// Every triangle shows up once at each of its three corners.
	res.Triangles = trianglesAtNodes / 3

	if n > 0 {
		var sum float64
		for _, c := range res.Local {
			sum += c
		}
		res.Average = sum / float64(n)
	}
	if totalTriples > 0 {
		res.Global = closedTriples / totalTriples
	}
	return res
}
