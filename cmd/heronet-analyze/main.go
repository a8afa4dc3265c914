package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/kpellard/heronet/pkg/analysis"
	"github.com/kpellard/heronet/pkg/archive"
	"github.com/kpellard/heronet/pkg/config"
	"github.com/kpellard/heronet/pkg/dataset"
	"github.com/kpellard/heronet/pkg/logging"
	"github.com/kpellard/heronet/pkg/report"
	"github.com/kpellard/heronet/pkg/site"
	"github.com/kpellard/heronet/pkg/viz"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (optional)")
	nodesFile := flag.String("nodes", "", "Node list CSV (overrides config)")
	edgesFile := flag.String("edges", "", "Weighted edge list CSV (overrides config)")
	outDir := flag.String("out", "", "Site output directory (overrides config)")
	bundlePath := flag.String("bundle", "", "Also write a report bundle to this path")
	topK := flag.Int("top", 0, "Leaderboard length (overrides config)")
	preview := flag.Int("preview", 0, "Load only the first N edges for a quick run")
	skipVerify := flag.Bool("skip-verify", false, "Skip the dataset node/edge count check")
	toArchive := flag.Bool("archive", false, "Record the run in the Postgres archive")
	quiet := flag.Bool("quiet", false, "Suppress the leaderboard printout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *nodesFile != "" {
		cfg.Data.NodesFile = *nodesFile
	}
	if *edgesFile != "" {
		cfg.Data.EdgesFile = *edgesFile
	}
	if *outDir != "" {
		cfg.Site.OutputDir = *outDir
	}
	if *topK > 0 {
		cfg.Analysis.TopK = *topK
	}
	if *skipVerify {
		cfg.Data.SkipVerify = true
	}

	logger := logging.Must(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("loading graph",
		zap.String("nodes", cfg.Data.NodesFile),
		zap.String("edges", cfg.Data.EdgesFile),
	)
	g, err := dataset.LoadGraph(cfg.Data.NodesFile, cfg.Data.EdgesFile, dataset.LoadOptions{
		MaxEdges:   *preview,
		SkipVerify: cfg.Data.SkipVerify,
	})
	if err != nil {
		logger.Fatal("loading graph failed", zap.Error(err))
	}
	logger.Info("graph loaded",
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()),
	)

	opts := analysis.DefaultSummaryOptions()
	opts.TopK = cfg.Analysis.TopK
	opts.Communities = cfg.Analysis.Communities

	summary, err := analysis.ComputeSummary(ctx, g, opts)
	if err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}
	logger.Info("analysis complete",
		zap.Duration("elapsed", summary.Elapsed),
		zap.Float64("avg_degree", summary.Stats.AvgDegree),
		zap.Bool("connected", summary.Connected),
	)

	network := viz.BuildNetwork(g, summary, nil)

	if err := site.New(g, summary, network, logger).Generate(cfg.Site.OutputDir); err != nil {
		logger.Fatal("site generation failed", zap.Error(err))
	}

	if *bundlePath != "" {
		b := &report.Bundle{
			GeneratedAt: time.Now().UTC(),
			Source:      cfg.Data.EdgesFile,
			Summary:     summary,
			Network:     network,
		}
		if err := report.WriteFile(*bundlePath, b); err != nil {
			logger.Fatal("writing bundle failed", zap.Error(err))
		}
		logger.Info("bundle written", zap.String("path", *bundlePath))
	}

	if *toArchive {
		archiveRun(ctx, cfg, summary, logger)
	}

	if !*quiet {
		printLeaderboards(summary)
	}
}

func archiveRun(ctx context.Context, cfg *config.Config, summary *analysis.Summary, logger *zap.Logger) {
	if cfg.Archive.DatabaseURL == "" {
		logger.Warn("archive requested but no database_url configured")
		return
	}
	store, err := archive.NewStore(ctx, cfg.Archive.DatabaseURL)
	if err != nil {
		logger.Error("connecting to archive failed", zap.Error(err))
		return
	}
	defer store.Close()

	run := archive.NewRun(cfg.Data.EdgesFile, summary)
	if err := store.SaveRun(ctx, run); err != nil {
		logger.Error("archiving run failed", zap.Error(err))
		return
	}
	logger.Info("run archived", zap.String("run_id", run.ID.String()))
}

func printLeaderboards(s *analysis.Summary) {
	sections := []struct {
		title string
		nodes []analysis.RankedNode
	}{
		{"degree", s.TopDegree},
		{"betweenness", s.TopBetweenness},
		{"pagerank", s.TopPageRank},
	}
	for _, sec := range sections {
		fmt.Printf("\nTop characters by %s:\n", sec.title)
		for i, rn := range sec.nodes {
			fmt.Printf("  %2d. %-28s %.6g\n", i+1, rn.Name, rn.Score)
		}
	}
	if s.Distance != nil {
		fmt.Printf("\nDiameter %d, radius %d, average path length %.3f\n",
			s.Distance.Diameter, s.Distance.Radius, s.Distance.AveragePathLength)
	}
	if s.Communities != nil {
		fmt.Printf("Communities: %d (modularity %.4f)\n",
			len(s.Communities.Communities), s.Communities.Modularity)
	}
}
