package analysis

import (
	"sort"

	"github.com/kpellard/heronet/pkg/graph"
)

// Community is a detected group of densely connected nodes.
type Community struct {
	ID    int      `json:"id"`
	Nodes []uint64 `json:"nodes"`
	Size  int      `json:"size"`
	// Density is the fraction of possible internal edges that exist.
	Density float64 `json:"density"`
}

// CommunityResult holds a partition of the graph into communities.
type CommunityResult struct {
	Communities   []Community    `json:"communities"`
	Modularity    float64        `json:"modularity"`
	NodeCommunity map[uint64]int `json:"node_community"`
	Levels        int            `json:"levels"`
}

// LouvainOptions configures community detection.
type LouvainOptions struct {
	// MaxLevels caps the number of aggregation levels.
	MaxLevels int
	// MinGain stops the search once a level improves modularity by less.
	MinGain float64
}

// DefaultLouvainOptions returns the standard settings.
func DefaultLouvainOptions() *LouvainOptions {
	return &LouvainOptions{
		MaxLevels: 10,
		MinGain:   1e-7,
	}
}

// Modularity computes the weighted Newman modularity of a partition:
// the weight fraction of intra-community edges minus the fraction
// expected if edges were rewired at random preserving node strengths.
// Nodes missing from the partition fall into community -1 together.
func Modularity(g *graph.Graph, partition map[uint64]int) float64 {
	m := g.TotalWeight()
	if m == 0 {
		return 0
	}

	community := func(id uint64) int {
		if c, ok := partition[id]; ok {
			return c
		}
		return -1
	}

	type accum struct {
		in  float64
		tot float64
	}
	comms := make(map[int]*accum)
	for _, node := range g.Nodes() {
		c := community(node.ID)
		a := comms[c]
		if a == nil {
			a = &accum{}
			comms[c] = a
		}
		a.tot += g.Strength(node.ID)
	}
	for _, e := range g.Edges() {
		if community(e.From) == community(e.To) {
			comms[community(e.From)].in += e.Weight
		}
	}

	var q float64
	for _, a := range comms {
		share := a.tot / (2 * m)
		q += a.in/m - share*share
	}
	return q
}

// Louvain detects communities by modularity optimization: repeated
// local-move sweeps followed by graph aggregation, until a level stops
// improving modularity. Edge weights steer the optimization, so pairs
// with many co-appearances pull their endpoints into one community.
// Communities are numbered 0..k-1, largest first.
func Louvain(g *graph.Graph, opts *LouvainOptions) *CommunityResult {
	if opts == nil {
		opts = DefaultLouvainOptions()
	}

	n := g.NodeCount()
	res := &CommunityResult{NodeCommunity: make(map[uint64]int, n)}
	if n == 0 {
		return res
	}

	// nodeToSuper maps each original node (0-based) to its node in the
	// current aggregated graph.
	nodeToSuper := make([]int, n)
	for i := range nodeToSuper {
		nodeToSuper[i] = i
	}
	partitionOf := func() map[uint64]int {
		part := make(map[uint64]int, n)
		for i, c := range nodeToSuper {
			part[uint64(i+1)] = c
		}
		return part
	}

	lg := newLouvainGraph(g)
	bestQ := Modularity(g, partitionOf())
	for res.Levels < opts.MaxLevels {
		if !lg.oneLevel() {
			break
		}
		com, count := lg.renumber()
		for i := range nodeToSuper {
			nodeToSuper[i] = com[nodeToSuper[i]]
		}
		res.Levels++

		q := Modularity(g, partitionOf())
		if q-bestQ < opts.MinGain {
			if q > bestQ {
				bestQ = q
			}
			break
		}
		bestQ = q
		if count == 1 {
			break
		}
		lg = lg.aggregate(com, count)
	}

	res.Modularity = bestQ
	res.NodeCommunity = partitionOf()
	res.Communities = assembleCommunities(g, res.NodeCommunity)
	// Renumber so community 0 is the largest.
	for _, c := range res.Communities {
		for _, id := range c.Nodes {
			res.NodeCommunity[id] = c.ID
		}
	}
	return res
}

// assembleCommunities groups nodes by community label, computes internal
// densities and orders the groups largest first.
func assembleCommunities(g *graph.Graph, partition map[uint64]int) []Community {
	groups := make(map[int][]uint64)
	for _, node := range g.Nodes() {
		c := partition[node.ID]
		groups[c] = append(groups[c], node.ID)
	}

	internal := make(map[int]int)
	for _, e := range g.Edges() {
		if partition[e.From] == partition[e.To] {
			internal[partition[e.From]]++
		}
	}

	comms := make([]Community, 0, len(groups))
	for label, nodes := range groups {
		sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
		c := Community{Nodes: nodes, Size: len(nodes)}
		if c.Size > 1 {
			possible := c.Size * (c.Size - 1) / 2
			c.Density = float64(internal[label]) / float64(possible)
		}
		comms = append(comms, c)
	}
	sort.Slice(comms, func(i, j int) bool {
		if comms[i].Size != comms[j].Size {
			return comms[i].Size > comms[j].Size
		}
		return comms[i].Nodes[0] < comms[j].Nodes[0]
	})
	for i := range comms {
		comms[i].ID = i
	}
	return comms
}

// louvainGraph is the working representation for one aggregation level:
// 0-based nodes, symmetric weighted adjacency and self-loops created by
// contracting communities.
type louvainGraph struct {
	n     int
	adj   []map[int]float64
	loops []float64
	gdeg  []float64 // weighted degree, self-loops counted twice
	m2    float64   // sum of all gdeg values
	com   []int
	tot   []float64 // sum of gdeg per community
}

func newLouvainGraph(g *graph.Graph) *louvainGraph {
	n := g.NodeCount()
	lg := &louvainGraph{
		n:     n,
		adj:   make([]map[int]float64, n),
		loops: make([]float64, n),
		gdeg:  make([]float64, n),
		com:   make([]int, n),
		tot:   make([]float64, n),
	}
	for i := range lg.adj {
		lg.adj[i] = make(map[int]float64)
	}
	for _, e := range g.Edges() {
		lg.adj[e.From-1][int(e.To-1)] = e.Weight
		lg.adj[e.To-1][int(e.From-1)] = e.Weight
	}
	lg.init()
	return lg
}

func (lg *louvainGraph) init() {
	lg.m2 = 0
	for i := 0; i < lg.n; i++ {
		var d float64
		for _, w := range lg.adj[i] {
			d += w
		}
		d += 2 * lg.loops[i]
		lg.gdeg[i] = d
		lg.com[i] = i
		lg.tot[i] = d
		lg.m2 += d
	}
}

// oneLevel runs local-move sweeps until no node changes community.
// Reports whether any node moved at all.
func (lg *louvainGraph) oneLevel() bool {
	if lg.m2 == 0 {
		return false
	}

	movedAny := false
	for {
		moved := false
		for i := 0; i < lg.n; i++ {
			curr := lg.com[i]

			neighW := make(map[int]float64)
			for j, w := range lg.adj[i] {
				neighW[lg.com[j]] += w
			}

			// Evaluate gains with i lifted out of its community. A move
			// must strictly beat staying put, which keeps every accepted
			// move a strict modularity gain and the sweep terminating.
			lg.tot[curr] -= lg.gdeg[i]
			best := curr
			bestGain := neighW[curr] - lg.tot[curr]*lg.gdeg[i]/lg.m2
			for c, dnc := range neighW {
				if c == curr {
					continue
				}
				gain := dnc - lg.tot[c]*lg.gdeg[i]/lg.m2
				if gain > bestGain || (gain == bestGain && best != curr && c < best) {
					bestGain = gain
					best = c
				}
			}
			lg.tot[best] += lg.gdeg[i]

			if best != curr {
				lg.com[i] = best
				moved = true
				movedAny = true
			}
		}
		if !moved {
			break
		}
	}
	return movedAny
}

// renumber maps community labels to 0..k-1 in order of first appearance.
func (lg *louvainGraph) renumber() ([]int, int) {
	mapping := make(map[int]int, lg.n)
	out := make([]int, lg.n)
	next := 0
	for i := 0; i < lg.n; i++ {
		c, ok := mapping[lg.com[i]]
		if !ok {
			c = next
			mapping[lg.com[i]] = c
			next++
		}
		out[i] = c
	}
	return out, next
}

// aggregate contracts each community into a single node. Intra-community
// weight becomes a self-loop, inter-community weight an edge.
func (lg *louvainGraph) aggregate(com []int, count int) *louvainGraph {
	agg := &louvainGraph{
		n:     count,
		adj:   make([]map[int]float64, count),
		loops: make([]float64, count),
		gdeg:  make([]float64, count),
		com:   make([]int, count),
		tot:   make([]float64, count),
	}
	for i := range agg.adj {
		agg.adj[i] = make(map[int]float64)
	}

	for i := 0; i < lg.n; i++ {
		ci := com[i]
		agg.loops[ci] += lg.loops[i]
		for j, w := range lg.adj[i] {
			cj := com[j]
			if ci == cj {
				if i < j {
					agg.loops[ci] += w
				}
			} else {
				agg.adj[ci][cj] += w
			}
		}
	}
	agg.init()
	return agg
}

// LabelPropagation assigns communities by repeatedly adopting the label
// with the greatest total edge weight among each node's neighbors. Ties
// break toward the smaller label. maxRounds non-positive means 100.
// Faster than Louvain but less stable; used as a cross-check.
func LabelPropagation(g *graph.Graph, maxRounds int) map[uint64]int {
	if maxRounds <= 0 {
		maxRounds = 100
	}

	n := g.NodeCount()
	labels := make([]int, n)
	for i := range labels {
		labels[i] = i
	}

	for round := 0; round < maxRounds; round++ {
		changed := false
		for i := 0; i < n; i++ {
			weights := make(map[int]float64)
			for nbr, w := range g.Neighbors(uint64(i + 1)) {
				weights[labels[nbr-1]] += w
			}
			if len(weights) == 0 {
				continue
			}

			best := labels[i]
			bestWeight := weights[best]
			for label, w := range weights {
				if w > bestWeight || (w == bestWeight && label < best) {
					best = label
					bestWeight = w
				}
			}
			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	// Renumber labels by first appearance.
	mapping := make(map[int]int)
	out := make(map[uint64]int, n)
	next := 0
	for i := 0; i < n; i++ {
		c, ok := mapping[labels[i]]
		if !ok {
			c = next
			mapping[labels[i]] = c
			next++
		}
		out[uint64(i+1)] = c
	}
	return out
}
