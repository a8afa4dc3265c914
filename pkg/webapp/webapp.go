// Package webapp hosts the analyzed network: a JSON API over the
// computed summary, a GraphQL endpoint, Prometheus metrics and the
// generated static site, behind one middleware chain.
package webapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kpellard/heronet/pkg/analysis"
	"github.com/kpellard/heronet/pkg/archive"
	"github.com/kpellard/heronet/pkg/auth"
	"github.com/kpellard/heronet/pkg/config"
	"github.com/kpellard/heronet/pkg/graph"
	"github.com/kpellard/heronet/pkg/graphapi"
	"github.com/kpellard/heronet/pkg/metrics"
	"github.com/kpellard/heronet/pkg/viz"
)

// Version is reported by /health.
const Version = "1.0.0"

// Loader produces a fresh graph and summary, typically by re-reading
// the dataset files. The server calls it once at boot and again on
// every reload.
type Loader func(ctx context.Context) (*graph.Graph, *analysis.Summary, error)

// snapshot bundles everything derived from one analysis run. Reload
// swaps the whole snapshot so readers never see a half-updated state.
type snapshot struct {
	graph   *graph.Graph
	summary *analysis.Summary
	network *viz.NetworkData
}

// Server is the hosted web application.
type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Registry
	load    Loader

	jwt   *auth.JWTManager
	users *auth.UserStore
	store *archive.Store

	graphql http.Handler

	mu   sync.RWMutex
	snap *snapshot

	startTime time.Time
	version   string
}

// New creates the server. The loader is not invoked yet; call Reload
// before serving traffic.
func New(cfg *config.Config, logger *zap.Logger, load Loader) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("webapp: nil config")
	}
	if load == nil {
		return nil, errors.New("webapp: nil loader")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics.NewRegistry(),
		load:      load,
		startTime: time.Now(),
		version:   Version,
	}

	if cfg.Auth.Enabled {
		manager, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL.Std(), cfg.Auth.RefreshTTL.Std())
		if err != nil {
			return nil, fmt.Errorf("jwt manager: %w", err)
		}
		s.jwt = manager
		s.users = auth.NewUserStore()
		if cfg.Auth.AdminPassword != "" {
			if err := s.users.Bootstrap(cfg.Auth.AdminUser, cfg.Auth.AdminPassword); err != nil {
				return nil, fmt.Errorf("bootstrap admin: %w", err)
			}
		} else {
			logger.Warn("auth enabled without admin password, no users can log in")
		}
	} else {
		logger.Warn("authentication disabled, admin endpoints are unprotected")
	}

	schema, err := graphapi.NewSchema(s)
	if err != nil {
		return nil, fmt.Errorf("graphql schema: %w", err)
	}
	s.graphql = graphapi.NewHandler(schema)

	return s, nil
}

// SetArchive attaches an optional run archive. Every successful reload
// is then recorded in it.
func (s *Server) SetArchive(store *archive.Store) {
	s.store = store
}

// Metrics exposes the server's metric registry.
func (s *Server) Metrics() *metrics.Registry {
	return s.metrics
}

// Graph returns the current graph, nil before the first load.
func (s *Server) Graph() *graph.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil
	}
	return s.snap.graph
}

// Summary returns the current summary, nil before the first load.
func (s *Server) Summary() *analysis.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil
	}
	return s.snap.summary
}

func (s *Server) network() *viz.NetworkData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil
	}
	return s.snap.network
}

// Reload invokes the loader and swaps in the fresh snapshot. The old
// data keeps serving until the swap, so a failed reload leaves the
// server on the previous run.
func (s *Server) Reload(ctx context.Context) (*analysis.Summary, error) {
	start := time.Now()
	g, summary, err := s.load(ctx)
	elapsed := time.Since(start)
	s.metrics.RecordGraphLoad(g, err, elapsed)
	if err != nil {
		s.metrics.RecordAnalysisRun("error", elapsed, -1)
		return nil, fmt.Errorf("reload: %w", err)
	}

	network := viz.BuildNetwork(g, summary, nil)

	s.mu.Lock()
	s.snap = &snapshot{graph: g, summary: summary, network: network}
	s.mu.Unlock()

	communities := -1
	if summary.Communities != nil {
		communities = len(summary.Communities.Communities)
	}
	s.metrics.RecordAnalysisRun("success", elapsed, communities)
	s.logger.Info("analysis loaded",
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()),
		zap.Int("communities", communities),
		zap.Duration("elapsed", elapsed))

	if s.store != nil {
		s.archiveRun(ctx, summary)
	}
	return summary, nil
}

func (s *Server) archiveRun(ctx context.Context, summary *analysis.Summary) {
	start := time.Now()
	run := archive.NewRun(s.cfg.Data.EdgesFile, summary)
	err := s.store.SaveRun(ctx, run)
	s.metrics.RecordArchiveOperation("save", statusOf(err), time.Since(start))
	if err != nil {
		s.logger.Warn("archive save failed", zap.Error(err))
		return
	}
	s.logger.Info("run archived", zap.String("run_id", run.ID.String()))
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// Handler assembles the router and middleware chain.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.metricsMiddleware)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/characters", s.handleCharacters).Methods(http.MethodGet)
	api.HandleFunc("/characters/{name}", s.handleCharacter).Methods(http.MethodGet)
	api.HandleFunc("/communities", s.handleCommunities).Methods(http.MethodGet)
	api.HandleFunc("/network", s.handleNetwork).Methods(http.MethodGet)
	api.HandleFunc("/distribution", s.handleDistribution).Methods(http.MethodGet)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", s.handleRefresh).Methods(http.MethodPost)

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(s.requireAdmin)
	admin.HandleFunc("/reload", s.handleReload).Methods(http.MethodPost)

	r.Handle("/graphql", s.graphql).Methods(http.MethodPost, http.MethodOptions)

	if s.cfg.Site.OutputDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.cfg.Site.OutputDir))).Methods(http.MethodGet)
	}

	var h http.Handler = r
	h = s.bodyLimitMiddleware(h, s.cfg.Server.MaxBodyBytes)
	h = s.securityHeadersMiddleware(h)
	h = s.corsMiddleware(h)
	h = s.loggingMiddleware(h)
	h = requestIDMiddleware(h)
	h = s.recoveryMiddleware(h)
	return h
}

// Run serves until the context is canceled or SIGINT/SIGTERM arrives.
// SIGHUP triggers a reload without dropping connections.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout.Std(),
		WriteTimeout: s.cfg.Server.WriteTimeout.Std(),
		IdleTimeout:  s.cfg.Server.IdleTimeout.Std(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.metrics.UpdateSystemMetrics(s.startTime)
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				s.logger.Info("reload signal received")
				if _, err := s.Reload(ctx); err != nil {
					s.logger.Error("reload failed", zap.Error(err))
				}
				continue
			}
			s.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
			return s.shutdown(srv)
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return s.shutdown(srv)
		}
	}
}

func (s *Server) shutdown(srv *http.Server) error {
	timeout := s.cfg.Server.ShutdownTimeout.Std()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
