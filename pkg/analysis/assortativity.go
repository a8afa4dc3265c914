package analysis

import (
	"math"

	"github.com/kpellard/heronet/pkg/graph"
)

// DegreeAssortativity returns the Pearson correlation between the
// degrees at either end of an edge, computed over both orientations of
// every edge. Positive values mean hubs link to hubs, negative values
// mean hubs link to low-degree nodes. Returns 0 when the correlation is
// undefined, which happens on empty and on degree-regular graphs.
func DegreeAssortativity(g *graph.Graph) float64 {
	edges := g.Edges()
	if len(edges) == 0 {
		return 0
	}

	// Both orientations are included, so the two endpoint samples share
	// one distribution and one variance.
	var sum, sumSq, sumProd float64
	for _, e := range edges {
		dx := float64(g.Degree(e.From))
		dy := float64(g.Degree(e.To))
		sum += dx + dy
		sumSq += dx*dx + dy*dy
		sumProd += 2 * dx * dy
	}

	m := float64(2 * len(edges))
	mean := sum / m
	variance := sumSq/m - mean*mean
	if variance <= 0 || math.IsNaN(variance) {
		return 0
	}
	cov := sumProd/m - mean*mean
	return cov / variance
}
