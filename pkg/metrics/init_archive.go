package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initArchiveMetrics() {
	r.ArchiveOperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "heronet_archive_operations_total",
			Help: "Run archive operations by status",
		},
		[]string{"operation", "status"},
	)

	r.ArchiveOperationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "heronet_archive_operation_duration_seconds",
			Help:    "Run archive operation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
}
