package analysis

import (
	"container/heap"
	"fmt"
	"math"
	"sort"

	"github.com/kpellard/heronet/pkg/graph"
)

// LinkPredMethod selects the scoring function for link prediction.
type LinkPredMethod string

const (
	// LinkPredCommonNeighbors scores a pair by its shared neighbor count.
	LinkPredCommonNeighbors LinkPredMethod = "common-neighbors"
	// LinkPredAdamicAdar weights shared neighbors by 1/log(degree), so
	// an obscure mutual contact says more than a hub everyone knows.
	LinkPredAdamicAdar LinkPredMethod = "adamic-adar"
	// LinkPredPreferential scores a pair by the product of its degrees.
	LinkPredPreferential LinkPredMethod = "preferential-attachment"
)

// PredictedLink is a non-adjacent node pair scored as a candidate edge.
type PredictedLink struct {
	From  uint64  `json:"from"`
	To    uint64  `json:"to"`
	Score float64 `json:"score"`
}

type predictedLinkHeap []PredictedLink

func (h predictedLinkHeap) Len() int { return len(h) }

func (h predictedLinkHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	if h[i].From != h[j].From {
		return h[i].From > h[j].From
	}
	return h[i].To > h[j].To
}
func (h predictedLinkHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *predictedLinkHeap) Push(x interface{}) { *h = append(*h, x.(PredictedLink)) }
func (h *predictedLinkHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// PredictLinks scores every non-adjacent node pair with the chosen
// method and returns the k best candidates, highest score first. Pairs
// scoring zero are dropped. For the co-appearance graph these are the
// character pairs most likely to share a future story.
func PredictLinks(g *graph.Graph, method LinkPredMethod, k int) ([]PredictedLink, error) {
	switch method {
	case LinkPredCommonNeighbors, LinkPredAdamicAdar, LinkPredPreferential:
	default:
		return nil, fmt.Errorf("unknown link prediction method: %q", method)
	}
	if k <= 0 {
		return nil, nil
	}

	n := g.NodeCount()
	h := &predictedLinkHeap{}
	heap.Init(h)
	for i := 1; i <= n; i++ {
		a := uint64(i)
		for j := i + 1; j <= n; j++ {
			b := uint64(j)
			if g.HasEdge(a, b) {
				continue
			}
			score := linkScore(g, a, b, method)
			if score <= 0 {
				continue
			}
			if h.Len() < k {
				heap.Push(h, PredictedLink{From: a, To: b, Score: score})
			} else if min := (*h)[0]; score > min.Score ||
				(score == min.Score && (a < min.From || (a == min.From && b < min.To))) {
				heap.Pop(h)
				heap.Push(h, PredictedLink{From: a, To: b, Score: score})
			}
		}
	}

	out := make([]PredictedLink, h.Len())
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
	return out, nil
}

func linkScore(g *graph.Graph, a, b uint64, method LinkPredMethod) float64 {
	if method == LinkPredPreferential {
		return float64(g.Degree(a)) * float64(g.Degree(b))
	}

	nbrsA := g.Neighbors(a)
	nbrsB := g.Neighbors(b)
	small, large := nbrsA, nbrsB
	if len(small) > len(large) {
		small, large = large, small
	}

	var score float64
	for id := range small {
		if _, ok := large[id]; !ok {
			continue
		}
		switch method {
		case LinkPredCommonNeighbors:
			score++
		case LinkPredAdamicAdar:
			// A shared neighbor has degree >= 2, so the log is positive.
			score += 1 / math.Log(float64(g.Degree(id)))
		}
	}
	return score
}
