package analysis

import (
	"errors"
	"sort"

	"github.com/kpellard/heronet/pkg/graph"
)

var ErrNoPath = errors.New("no path between nodes")

// DistanceResult holds hop-distance metrics. On a disconnected graph
// the metrics are computed over the largest component only, flagged by
// OnLargestComponent, and Eccentricity carries entries just for that
// component's nodes.
type DistanceResult struct {
	Eccentricity       map[uint64]int `json:"eccentricity"`
	Diameter           int            `json:"diameter"`
	Radius             int            `json:"radius"`
	Periphery          []uint64       `json:"periphery"`
	Center             []uint64       `json:"center"`
	AveragePathLength  float64        `json:"average_path_length"`
	OnLargestComponent bool           `json:"on_largest_component"`
}

// bfsDistances returns hop distances from src to every reachable node,
// including src itself at distance zero.
func bfsDistances(g *graph.Graph, src uint64) map[uint64]int {
	dist := map[uint64]int{src: 0}
	queue := []uint64{src}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for w := range g.Neighbors(v) {
			if _, seen := dist[w]; !seen {
				dist[w] = dist[v] + 1
				queue = append(queue, w)
			}
		}
	}
	return dist
}

// Distances computes eccentricities, diameter, radius, periphery,
// center and average shortest path length with one BFS per node.
// Eccentricity is a node's distance to its farthest peer; the diameter
// and radius are the largest and smallest eccentricities; periphery and
// center are the nodes attaining them.
func Distances(g *graph.Graph) *DistanceResult {
	res := &DistanceResult{Eccentricity: make(map[uint64]int)}
	if g.NodeCount() == 0 {
		return res
	}

	comps := ConnectedComponents(g)
	res.OnLargestComponent = len(comps) > 1
	nodes := comps[0].Nodes

	radius := -1
	var totalDist, pairs float64
	for _, id := range nodes {
		dist := bfsDistances(g, id)
		ecc := 0
		for other, d := range dist {
			if d > ecc {
				ecc = d
			}
			if other != id {
				totalDist += float64(d)
				pairs++
			}
		}
		res.Eccentricity[id] = ecc
		if ecc > res.Diameter {
			res.Diameter = ecc
		}
		if radius < 0 || ecc < radius {
			radius = ecc
		}
	}
	res.Radius = radius

	for id, ecc := range res.Eccentricity {
		if ecc == res.Diameter {
			res.Periphery = append(res.Periphery, id)
		}
		if ecc == res.Radius {
			res.Center = append(res.Center, id)
		}
	}
	sort.Slice(res.Periphery, func(i, j int) bool { return res.Periphery[i] < res.Periphery[j] })
	sort.Slice(res.Center, func(i, j int) bool { return res.Center[i] < res.Center[j] })

	if pairs > 0 {
		res.AveragePathLength = totalDist / pairs
	}
	return res
}

// ShortestPath returns the node IDs along one shortest hop path from
// src to dst, endpoints included. ErrUnknownNode covers bad IDs and
// ErrNoPath a disconnected pair.
func ShortestPath(g *graph.Graph, src, dst uint64) ([]uint64, error) {
	if _, ok := g.Node(src); !ok {
		return nil, ErrUnknownNode
	}
	if _, ok := g.Node(dst); !ok {
		return nil, ErrUnknownNode
	}
	if src == dst {
		return []uint64{src}, nil
	}

	parent := map[uint64]uint64{src: src}
	queue := []uint64{src}
	found := false
	for len(queue) > 0 && !found {
		v := queue[0]
		queue = queue[1:]
		for w := range g.Neighbors(v) {
			if _, seen := parent[w]; seen {
				continue
			}
			parent[w] = v
			if w == dst {
				found = true
				break
			}
			queue = append(queue, w)
		}
	}
	if !found {
		return nil, ErrNoPath
	}

	path := []uint64{dst}
	for v := dst; v != src; v = parent[v] {
		path = append(path, parent[v])
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}
