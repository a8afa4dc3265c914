package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/kpellard/heronet/pkg/graph"
)

// SimilarityMetric selects how two neighbor sets are compared.
type SimilarityMetric string

const (
	// SimilarityJaccard is intersection over union.
	SimilarityJaccard SimilarityMetric = "jaccard"
	// SimilarityOverlap is intersection over the smaller set.
	SimilarityOverlap SimilarityMetric = "overlap"
	// SimilarityCosine is intersection over the geometric mean of sizes.
	SimilarityCosine SimilarityMetric = "cosine"
)

// ErrUnknownMetric is returned for an unrecognized similarity metric.
var ErrUnknownMetric = errors.New("unknown similarity metric")

// ErrUnknownNode is returned when a similarity query names a node that
// is not in the graph.
var ErrUnknownNode = errors.New("node not found")

// NodeSimilarity scores how alike two nodes' neighborhoods are, in
// [0, 1]. Characters that co-appear with the same cast score high even
// when they never appear together themselves.
func NodeSimilarity(g *graph.Graph, a, b uint64, metric SimilarityMetric) (float64, error) {
	na, ok := g.Node(a)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownNode, a)
	}
	nb, ok := g.Node(b)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownNode, b)
	}
	return neighborSimilarity(g, na.ID, nb.ID, metric)
}

func neighborSimilarity(g *graph.Graph, a, b uint64, metric SimilarityMetric) (float64, error) {
	nbrsA := g.Neighbors(a)
	nbrsB := g.Neighbors(b)

	// Walk the smaller set.
	small, large := nbrsA, nbrsB
	if len(small) > len(large) {
		small, large = large, small
	}
	common := 0
	for id := range small {
		if _, ok := large[id]; ok {
			common++
		}
	}

	switch metric {
	case SimilarityJaccard:
		union := len(nbrsA) + len(nbrsB) - common
		if union == 0 {
			return 0, nil
		}
		return float64(common) / float64(union), nil
	case SimilarityOverlap:
		if len(small) == 0 {
			return 0, nil
		}
		return float64(common) / float64(len(small)), nil
	case SimilarityCosine:
		if len(nbrsA) == 0 || len(nbrsB) == 0 {
			return 0, nil
		}
		return float64(common) / math.Sqrt(float64(len(nbrsA))*float64(len(nbrsB))), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
}

// MostSimilar ranks the k nodes whose neighborhoods best match the
// given node's, excluding the node itself. Zero scores are dropped.
func MostSimilar(g *graph.Graph, id uint64, metric SimilarityMetric, k int) ([]RankedNode, error) {
	if _, ok := g.Node(id); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}

	scores := make(map[uint64]float64)
	for _, other := range g.Nodes() {
		if other.ID == id {
			continue
		}
		score, err := neighborSimilarity(g, id, other.ID, metric)
		if err != nil {
			return nil, err
		}
		if score > 0 {
			scores[other.ID] = score
		}
	}
	return TopNodes(g, scores, k), nil
}
