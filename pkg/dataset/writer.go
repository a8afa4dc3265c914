package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/kpellard/heronet/pkg/graph"
)

// WriteGraph writes a graph back out in the same CSV shape the loader reads:
// a nodes file with Id and Label columns and an edges file with Source,
// Target and Weight columns.
func WriteGraph(g *graph.Graph, nodesPath, edgesPath string) error {
	nodeRows := make([][]string, 0, g.NodeCount()+1)
	nodeRows = append(nodeRows, []string{"Id", "Label"})
	for _, n := range g.Nodes() {
		nodeRows = append(nodeRows, []string{n.Name, n.Name})
	}
	if err := writeCSV(nodesPath, nodeRows); err != nil {
		return fmt.Errorf("writing nodes to %s: %w", nodesPath, err)
	}

	edgeRows := make([][]string, 0, g.EdgeCount()+1)
	edgeRows = append(edgeRows, []string{"Source", "Target", "Weight"})
	for _, e := range g.Edges() {
		from, _ := g.Node(e.From)
		to, _ := g.Node(e.To)
		edgeRows = append(edgeRows, []string{
			from.Name,
			to.Name,
			strconv.FormatFloat(e.Weight, 'f', -1, 64),
		})
	}
	if err := writeCSV(edgesPath, edgeRows); err != nil {
		return fmt.Errorf("writing edges to %s: %w", edgesPath, err)
	}
	return nil
}

// WritePairList writes an aggregated pair list in the loader's CSV shape.
func WritePairList(pl *PairList, nodesPath, edgesPath string) error {
	nodeRows := make([][]string, 0, len(pl.Nodes)+1)
	nodeRows = append(nodeRows, []string{"Id", "Label"})
	for _, name := range pl.Nodes {
		nodeRows = append(nodeRows, []string{name, name})
	}
	if err := writeCSV(nodesPath, nodeRows); err != nil {
		return fmt.Errorf("writing nodes to %s: %w", nodesPath, err)
	}

	edgeRows := make([][]string, 0, len(pl.Pairs)+1)
	edgeRows = append(edgeRows, []string{"Source", "Target", "Weight"})
	for _, p := range pl.Pairs {
		edgeRows = append(edgeRows, []string{p.Source, p.Target, strconv.Itoa(p.Weight)})
	}
	if err := writeCSV(edgesPath, edgeRows); err != nil {
		return fmt.Errorf("writing edges to %s: %w", edgesPath, err)
	}
	return nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
