package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kpellard/heronet/pkg/dataset"
	"github.com/kpellard/heronet/pkg/logging"
)

func main() {
	input := flag.String("input", "", "Raw co-appearance pair list (hero1,hero2 CSV)")
	nodesOut := flag.String("nodes", "data/nodes.csv", "Output path for the node list")
	edgesOut := flag.String("edges", "data/edges.csv", "Output path for the weighted edge list")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "console", "Log format (json or console)")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: heronet-prepare --input hero-network.csv [--nodes data/nodes.csv] [--edges data/edges.csv]")
		os.Exit(1)
	}

	logger := logging.Must(*logLevel, *logFormat)
	defer func() { _ = logger.Sync() }()

	logger.Info("aggregating raw pair list", zap.String("input", *input))

	start := time.Now()
	pairs, err := dataset.AggregatePairs(*input, func(rows int) {
		logger.Info("reading pairs", zap.Int("rows", rows))
	})
	if err != nil {
		logger.Fatal("aggregation failed", zap.Error(err))
	}

	logger.Info("pair list aggregated",
		zap.Int("rows_read", pairs.RowsRead),
		zap.Int("self_pairs_dropped", pairs.SelfPairs),
		zap.Int("characters", len(pairs.Nodes)),
		zap.Int("edges", len(pairs.Pairs)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if err := dataset.WritePairList(pairs, *nodesOut, *edgesOut); err != nil {
		logger.Fatal("writing dataset failed", zap.Error(err))
	}

	logger.Info("dataset written",
		zap.String("nodes", *nodesOut),
		zap.String("edges", *edgesOut),
	)
}
