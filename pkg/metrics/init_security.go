package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSecurityMetrics() {
	r.AuthLoginsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "heronet_auth_logins_total",
			Help: "Login attempts by status",
		},
		[]string{"status"},
	)

	r.AuthFailuresTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "heronet_auth_failures_total",
			Help: "Requests rejected for bad or missing credentials",
		},
	)
}
