package analysis

import (
	"sort"

	"github.com/kpellard/heronet/pkg/graph"
)

// DegreeStats summarizes the degree sequence of a graph.
type DegreeStats struct {
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// DegreeBucket is one row of a degree histogram.
type DegreeBucket struct {
	Degree int `json:"degree"`
	Count  int `json:"count"`
}

// DegreeDistribution counts how many nodes have each degree.
func DegreeDistribution(g *graph.Graph) map[int]int {
	dist := make(map[int]int)
	for _, node := range g.Nodes() {
		dist[g.Degree(node.ID)]++
	}
	return dist
}

// SortedDistribution flattens a degree histogram into buckets ordered by
// ascending degree.
func SortedDistribution(dist map[int]int) []DegreeBucket {
	buckets := make([]DegreeBucket, 0, len(dist))
	for degree, count := range dist {
		buckets = append(buckets, DegreeBucket{Degree: degree, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Degree < buckets[j].Degree })
	return buckets
}

// ComputeDegreeStats returns min, max, mean and median of the degree
// sequence.
func ComputeDegreeStats(g *graph.Graph) DegreeStats {
	n := g.NodeCount()
	if n == 0 {
		return DegreeStats{}
	}

	degrees := make([]int, 0, n)
	sum := 0
	for _, node := range g.Nodes() {
		d := g.Degree(node.ID)
		degrees = append(degrees, d)
		sum += d
	}
	sort.Ints(degrees)

	stats := DegreeStats{
		Min:  degrees[0],
		Max:  degrees[n-1],
		Mean: float64(sum) / float64(n),
	}
	if n%2 == 1 {
		stats.Median = float64(degrees[n/2])
	} else {
		stats.Median = float64(degrees[n/2-1]+degrees[n/2]) / 2
	}
	return stats
}

// HeavyTailShare returns the fraction of all edge endpoints held by the
// top decile of nodes by degree. Values far above 0.1 indicate a
// heavy-tailed degree distribution, where a handful of hub characters
// carry a disproportionate share of the connections.
func HeavyTailShare(g *graph.Graph) float64 {
	n := g.NodeCount()
	if n == 0 {
		return 0
	}

	degrees := make([]int, 0, n)
	total := 0
	for _, node := range g.Nodes() {
		d := g.Degree(node.ID)
		degrees = append(degrees, d)
		total += d
	}
	if total == 0 {
		return 0
	}
	sort.Sort(sort.Reverse(sort.IntSlice(degrees)))

	top := n / 10
	if top < 1 {
		top = 1
	}
	held := 0
	for i := 0; i < top; i++ {
		held += degrees[i]
	}
	return float64(held) / float64(total)
}
