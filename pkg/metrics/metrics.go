// Package metrics exposes the Prometheus instrumentation: HTTP traffic,
// dataset loads, analysis runs, auth outcomes and archive activity, all
// registered on a private registry under the heronet_ prefix.
package metrics

import (
	"runtime"
	"time"

	"github.com/kpellard/heronet/pkg/graph"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordGraphLoad records a dataset load and, on success, the sizes of
// the resulting network.
func (r *Registry) RecordGraphLoad(g *graph.Graph, err error, duration time.Duration) {
	if err != nil {
		r.GraphLoadsTotal.WithLabelValues("error").Inc()
		return
	}
	r.GraphLoadsTotal.WithLabelValues("success").Inc()
	r.GraphLoadSeconds.Observe(duration.Seconds())
	r.GraphNodesTotal.Set(float64(g.NodeCount()))
	r.GraphEdgesTotal.Set(float64(g.EdgeCount()))
	r.GraphTotalWeight.Set(g.TotalWeight())
}

// RecordAnalysisRun records a metric computation run.
func (r *Registry) RecordAnalysisRun(status string, duration time.Duration, communities int) {
	r.AnalysisRunsTotal.WithLabelValues(status).Inc()
	if status != "success" {
		return
	}
	r.AnalysisDuration.Observe(duration.Seconds())
	r.AnalysisLastRunUnix.Set(float64(time.Now().Unix()))
	if communities >= 0 {
		r.AnalysisCommunitiesLast.Set(float64(communities))
	}
}

// RecordLogin records a login attempt.
func (r *Registry) RecordLogin(success bool) {
	if success {
		r.AuthLoginsTotal.WithLabelValues("success").Inc()
		return
	}
	r.AuthLoginsTotal.WithLabelValues("failure").Inc()
	r.AuthFailuresTotal.Inc()
}

// RecordArchiveOperation records a run archive operation
func (r *Registry) RecordArchiveOperation(operation, status string, duration time.Duration) {
	r.ArchiveOperationsTotal.WithLabelValues(operation, status).Inc()
	r.ArchiveOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateSystemMetrics refreshes the runtime gauges.
func (r *Registry) UpdateSystemMetrics(start time.Time) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	r.UptimeSeconds.Set(time.Since(start).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(mem.Alloc))
	r.MemorySysBytes.Set(float64(mem.Sys))
}
