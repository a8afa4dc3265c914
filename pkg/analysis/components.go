package analysis

import (
	"sort"

	"github.com/kpellard/heronet/pkg/graph"
)

// Component is a maximal set of mutually reachable nodes.
type Component struct {
	ID    int      `json:"id"`
	Nodes []uint64 `json:"nodes"`
	Size  int      `json:"size"`
}

// ConnectedComponents finds all connected components by BFS and returns
// them largest first. Ties break toward the component containing the
// lower node ID. Component IDs are assigned in the returned order.
func ConnectedComponents(g *graph.Graph) []Component {
	visited := make(map[uint64]bool, g.NodeCount())
	var comps []Component

	for _, node := range g.Nodes() {
		if visited[node.ID] {
			continue
		}

		members := make([]uint64, 0, 8)
		queue := []uint64{node.ID}
		visited[node.ID] = true
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			members = append(members, v)
			for w := range g.Neighbors(v) {
				if !visited[w] {
					visited[w] = true
					queue = append(queue, w)
				}
			}
		}

		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
		comps = append(comps, Component{Nodes: members, Size: len(members)})
	}

	sort.Slice(comps, func(i, j int) bool {
		if comps[i].Size != comps[j].Size {
			return comps[i].Size > comps[j].Size
		}
		return comps[i].Nodes[0] < comps[j].Nodes[0]
	})
	for i := range comps {
		comps[i].ID = i
	}
	return comps
}

// IsConnected reports whether every node is reachable from every other.
// An empty graph has no components and is not considered connected.
func IsConnected(g *graph.Graph) bool {
	return len(ConnectedComponents(g)) == 1
}

// LargestComponent returns the subgraph induced by the largest connected
// component. When the graph is already connected it is returned as is;
// otherwise the subgraph carries fresh dense node IDs and the original
// names.
func LargestComponent(g *graph.Graph) *graph.Graph {
	comps := ConnectedComponents(g)
	if len(comps) <= 1 {
		return g
	}
	return g.Subgraph(comps[0].Nodes)
}
