// Package dataset loads and writes the character network CSV files: a nodes
// file with an Id column naming each character and an edges file with
// Source, Target and Weight columns. It also aggregates the raw appearance
// pair list into the weighted edge list.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kpellard/heronet/pkg/graph"
)

// Expected counts for the bundled Marvel dataset. A full load is verified
// against these unless LoadOptions.SkipVerify is set.
const (
	ExpectedNodes = 327
	ExpectedEdges = 9891
)

var (
	ErrMissingColumn = errors.New("required column missing")
	ErrVerification  = errors.New("dataset verification failed")
)

// LoadOptions controls how the CSV files are read.
type LoadOptions struct {
	// MaxEdges truncates the edge list after this many rows when > 0.
	// Preview loads are never verified against the expected counts.
	MaxEdges int

	// SkipVerify disables the node/edge count check after a full load,
	// allowing datasets other than the bundled one.
	SkipVerify bool
}

// LoadGraph reads the nodes and edges files and builds the immutable graph.
// Malformed rows abort the load with the offending row number.
func LoadGraph(nodesPath, edgesPath string, opts LoadOptions) (*graph.Graph, error) {
	b := graph.NewBuilder()

	if err := loadNodes(b, nodesPath); err != nil {
		return nil, fmt.Errorf("loading nodes from %s: %w", nodesPath, err)
	}
	if err := loadEdges(b, edgesPath, opts.MaxEdges); err != nil {
		return nil, fmt.Errorf("loading edges from %s: %w", edgesPath, err)
	}

	g, err := b.Build()
	if err != nil {
		return nil, err
	}

	if !opts.SkipVerify && opts.MaxEdges == 0 {
		if g.NodeCount() != ExpectedNodes {
			return nil, fmt.Errorf("%w: got %d nodes, want %d", ErrVerification, g.NodeCount(), ExpectedNodes)
		}
		if g.EdgeCount() != ExpectedEdges {
			return nil, fmt.Errorf("%w: got %d edges, want %d", ErrVerification, g.EdgeCount(), ExpectedEdges)
		}
	}
	return g, nil
}

func loadNodes(b *graph.Builder, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1

	colIndex, err := readHeader(reader, "id")
	if err != nil {
		return err
	}

	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("row %d: %w", row+1, err)
		}
		row++

		name := getField(record, colIndex, "id")
		if _, err := b.AddNode(name); err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}
	}
	return nil
}

func loadEdges(b *graph.Builder, path string, maxEdges int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1

	colIndex, err := readHeader(reader, "source", "target", "weight")
	if err != nil {
		return err
	}

	row := 1
	for {
		if maxEdges > 0 && b.EdgeCount() >= maxEdges {
			break
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("row %d: %w", row+1, err)
		}
		row++

		source := getField(record, colIndex, "source")
		target := getField(record, colIndex, "target")
		weightStr := getField(record, colIndex, "weight")

		weight, err := strconv.ParseFloat(weightStr, 64)
		if err != nil {
			return fmt.Errorf("row %d: bad weight %q: %w", row, weightStr, err)
		}
		if err := b.AddEdge(source, target, weight); err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}
	}
	return nil
}

// readHeader reads the header row and returns a lowercase column index map,
// verifying that all required columns are present. A UTF-8 BOM on the first
// cell is stripped.
func readHeader(reader *csv.Reader, required ...string) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "﻿")
		}
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range required {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return colIndex, nil
}

func getField(record []string, colIndex map[string]int, field string) string {
	if idx, ok := colIndex[field]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}
