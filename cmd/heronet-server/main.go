package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kpellard/heronet/pkg/analysis"
	"github.com/kpellard/heronet/pkg/archive"
	"github.com/kpellard/heronet/pkg/config"
	"github.com/kpellard/heronet/pkg/dataset"
	"github.com/kpellard/heronet/pkg/graph"
	"github.com/kpellard/heronet/pkg/logging"
	"github.com/kpellard/heronet/pkg/webapp"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (optional)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	nodesFile := flag.String("nodes", "", "Node list CSV (overrides config)")
	edgesFile := flag.String("edges", "", "Weighted edge list CSV (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *nodesFile != "" {
		cfg.Data.NodesFile = *nodesFile
	}
	if *edgesFile != "" {
		cfg.Data.EdgesFile = *edgesFile
	}

	logger := logging.Must(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = logger.Sync() }()

	loader := func(ctx context.Context) (*graph.Graph, *analysis.Summary, error) {
		g, err := dataset.LoadGraph(cfg.Data.NodesFile, cfg.Data.EdgesFile, dataset.LoadOptions{
			SkipVerify: cfg.Data.SkipVerify,
		})
		if err != nil {
			return nil, nil, err
		}
		opts := analysis.DefaultSummaryOptions()
		opts.TopK = cfg.Analysis.TopK
		opts.Communities = cfg.Analysis.Communities
		s, err := analysis.ComputeSummary(ctx, g, opts)
		if err != nil {
			return nil, nil, err
		}
		return g, s, nil
	}

	srv, err := webapp.New(cfg, logger, loader)
	if err != nil {
		logger.Fatal("building server failed", zap.Error(err))
	}

	ctx := context.Background()

	if cfg.Archive.Enabled {
		if cfg.Archive.DatabaseURL == "" {
			logger.Fatal("archive enabled but no database_url configured")
		}
		store, err := archive.NewStore(ctx, cfg.Archive.DatabaseURL)
		if err != nil {
			logger.Fatal("connecting to archive failed", zap.Error(err))
		}
		defer store.Close()
		srv.SetArchive(store)
		logger.Info("run archive enabled")
	}

	if _, err := srv.Reload(ctx); err != nil {
		logger.Fatal("initial load failed", zap.Error(err))
	}

	if err := srv.Run(ctx); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
