package analysis

import (
	"container/heap"
	"sort"

	"github.com/kpellard/heronet/pkg/graph"
)

// RankedNode pairs a node with a metric score for top-N listings.
type RankedNode struct {
	NodeID uint64  `json:"node_id"`
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
}

// EdgeKey identifies an undirected edge with From < To.
type EdgeKey struct {
	From uint64
	To   uint64
}

// RankedEdge pairs an edge with a metric score.
type RankedEdge struct {
	From  uint64  `json:"from"`
	To    uint64  `json:"to"`
	Score float64 `json:"score"`
}

func edgeKey(a, b uint64) EdgeKey {
	if a > b {
		a, b = b, a
	}
	return EdgeKey{From: a, To: b}
}

// rankedNodeHeap is a min-heap used to track the top N nodes by score.
type rankedNodeHeap []RankedNode

func (h rankedNodeHeap) Len() int { return len(h) }

// Less keeps the weakest candidate at the root: lowest score first,
// and among equal scores the highest node ID, so boundary ties resolve
// toward lower IDs no matter the map iteration order.
func (h rankedNodeHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].NodeID > h[j].NodeID
}
func (h rankedNodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *rankedNodeHeap) Push(x interface{}) { *h = append(*h, x.(RankedNode)) }
func (h *rankedNodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// TopNodes returns the n highest-scoring nodes in descending score order.
// Ties break toward the lower node ID so output is deterministic.
func TopNodes(g *graph.Graph, scores map[uint64]float64, n int) []RankedNode {
	if n <= 0 || len(scores) == 0 {
		return nil
	}

	h := &rankedNodeHeap{}
	heap.Init(h)
	for id, score := range scores {
		name := ""
		if node, ok := g.Node(id); ok {
			name = node.Name
		}
		if h.Len() < n {
			heap.Push(h, RankedNode{NodeID: id, Name: name, Score: score})
		} else if min := (*h)[0]; score > min.Score || (score == min.Score && id < min.NodeID) {
			heap.Pop(h)
			heap.Push(h, RankedNode{NodeID: id, Name: name, Score: score})
		}
	}

	out := make([]RankedNode, h.Len())
	copy(out, *h)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].NodeID < out[j].NodeID
	})
	return out
}

// rankedEdgeHeap is a min-heap used to track the top N edges by score.
type rankedEdgeHeap []RankedEdge

func (h rankedEdgeHeap) Len() int { return len(h) }

func (h rankedEdgeHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	if h[i].From != h[j].From {
		return h[i].From > h[j].From
	}
	return h[i].To > h[j].To
}
func (h rankedEdgeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *rankedEdgeHeap) Push(x interface{}) { *h = append(*h, x.(RankedEdge)) }
func (h *rankedEdgeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// TopEdges returns the n highest-scoring edges in descending score order.
func TopEdges(scores map[EdgeKey]float64, n int) []RankedEdge {
	if n <= 0 || len(scores) == 0 {
		return nil
	}

	h := &rankedEdgeHeap{}
	heap.Init(h)
	for key, score := range scores {
		if h.Len() < n {
			heap.Push(h, RankedEdge{From: key.From, To: key.To, Score: score})
		} else if min := (*h)[0]; score > min.Score ||
			(score == min.Score && (key.From < min.From || (key.From == min.From && key.To < min.To))) {
			heap.Pop(h)
			heap.Push(h, RankedEdge{From: key.From, To: key.To, Score: score})
		}
	}

	out := make([]RankedEdge, h.Len())
	copy(out, *h)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}
