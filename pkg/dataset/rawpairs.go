package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"golang.org/x/exp/mmap"
)

// WeightedPair is one aggregated co-appearance edge. Source sorts before
// Target so each unordered pair has a single canonical form.
type WeightedPair struct {
	Source string
	Target string
	Weight int
}

// PairList is the result of aggregating the raw appearance pair list.
type PairList struct {
	Nodes     []string
	Pairs     []WeightedPair
	RowsRead  int
	SelfPairs int
}

// progressInterval is how often AggregatePairs reports progress. The raw
// pair list runs to several hundred thousand rows.
const progressInterval = 100000

// AggregatePairs folds the raw two-column appearance pair list (hero1,hero2
// with duplicates) into a weighted edge list: weight = number of times the
// unordered pair occurs. Self-pairs are dropped and counted. The file is
// read through a memory map; onProgress, if non-nil, is called with the row
// count every progressInterval rows.
func AggregatePairs(path string, onProgress func(rows int)) (*PairList, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer r.Close()

	section := io.NewSectionReader(r, 0, int64(r.Len()))
	reader := csv.NewReader(bufio.NewReaderSize(section, 1<<20))
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1

	colIndex, err := readHeader(reader, "hero1", "hero2")
	if err != nil {
		return nil, err
	}

	counts := make(map[[2]string]int)
	pl := &PairList{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", pl.RowsRead+2, err)
		}
		pl.RowsRead++

		a := getField(record, colIndex, "hero1")
		b := getField(record, colIndex, "hero2")
		if a == "" || b == "" {
			return nil, fmt.Errorf("row %d: empty character name", pl.RowsRead+1)
		}
		if a == b {
			pl.SelfPairs++
			continue
		}
		// Canonical order keeps A-B and B-A in one bucket.
		if a > b {
			a, b = b, a
		}
		counts[[2]string{a, b}]++

		if onProgress != nil && pl.RowsRead%progressInterval == 0 {
			onProgress(pl.RowsRead)
		}
	}

	nodeSet := make(map[string]bool)
	pl.Pairs = make([]WeightedPair, 0, len(counts))
	for pair, n := range counts {
		nodeSet[pair[0]] = true
		nodeSet[pair[1]] = true
		pl.Pairs = append(pl.Pairs, WeightedPair{Source: pair[0], Target: pair[1], Weight: n})
	}
	sort.Slice(pl.Pairs, func(i, j int) bool {
		if pl.Pairs[i].Source != pl.Pairs[j].Source {
			return pl.Pairs[i].Source < pl.Pairs[j].Source
		}
		return pl.Pairs[i].Target < pl.Pairs[j].Target
	})

	pl.Nodes = make([]string, 0, len(nodeSet))
	for name := range nodeSet {
		pl.Nodes = append(pl.Nodes, name)
	}
	sort.Strings(pl.Nodes)

	return pl, nil
}
