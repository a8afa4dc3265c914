package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAnalysisMetrics() {
	r.AnalysisRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "heronet_analysis_runs_total",
			Help: "Metric computation runs by status",
		},
		[]string{"status"},
	)

	r.AnalysisDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "heronet_analysis_duration_seconds",
			Help:    "Time to compute the full metric battery",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	r.AnalysisLastRunUnix = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "heronet_analysis_last_run_timestamp_seconds",
			Help: "Unix time of the last completed analysis run",
		},
	)

	r.AnalysisCommunitiesLast = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "heronet_analysis_communities",
			Help: "Communities found by the last detection run",
		},
	)
}
