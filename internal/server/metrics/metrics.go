// Package metrics holds the Prometheus collectors of the server and the
// HTTP endpoint that exposes them together with a health probe.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the application collectors.
type Metrics struct {
	RPCRequests   *prometheus.CounterVec
	RPCDuration   *prometheus.HistogramVec
	SessionsSwept prometheus.Counter
	SweepFailures prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RPCRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gophauth_rpc_requests_total",
				Help: "Total number of RPCs by method and status code",
			},
			[]string{"method", "code"},
		),
		RPCDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gophauth_rpc_duration_seconds",
				Help:    "RPC latency by method",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		SessionsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gophauth_sessions_swept_total",
			Help: "Total number of expired sessions removed by the sweeper",
		}),
		SweepFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gophauth_sweep_failures_total",
			Help: "Total number of failed sweeper runs",
		}),
	}

	reg.MustRegister(m.RPCRequests, m.RPCDuration, m.SessionsSwept, m.SweepFailures)
	return m
}
