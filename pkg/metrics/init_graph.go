package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "heronet_graph_nodes_total",
			Help: "Characters in the loaded network",
		},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "heronet_graph_edges_total",
			Help: "Co-appearance edges in the loaded network",
		},
	)

	r.GraphTotalWeight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "heronet_graph_total_weight",
			Help: "Sum of all edge weights in the loaded network",
		},
	)

	r.GraphLoadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "heronet_graph_loads_total",
			Help: "Dataset loads by status",
		},
		[]string{"status"},
	)

	r.GraphLoadSeconds = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "heronet_graph_load_duration_seconds",
			Help:    "Time to load and build the network from CSV",
			Buckets: prometheus.DefBuckets,
		},
	)
}
