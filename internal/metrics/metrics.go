// Package metrics defines the Prometheus collectors for the server and
// the sync processor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles every collector the application registers.
type Metrics struct {
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	SyncCompleted prometheus.Counter
	SyncRequeued  prometheus.Counter
	SyncFailed    prometheus.Counter
}

// New registers all collectors on reg and returns them.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hisab_http_requests_total",
			Help: "HTTP requests by method, route, and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hisab_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		SyncCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "hisab_sync_items_completed_total",
			Help: "Queue items applied and removed.",
		}),
		SyncRequeued: factory.NewCounter(prometheus.CounterOpts{
			Name: "hisab_sync_items_requeued_total",
			Help: "Queue items returned to pending after a transient failure.",
		}),
		SyncFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "hisab_sync_items_failed_total",
			Help: "Queue items that became terminally failed.",
		}),
	}
}

// ItemCompleted implements syncqueue.Metrics.
func (m *Metrics) ItemCompleted() { m.SyncCompleted.Inc() }

// ItemRequeued implements syncqueue.Metrics.
func (m *Metrics) ItemRequeued() { m.SyncRequeued.Inc() }

// ItemFailed implements syncqueue.Metrics.
func (m *Metrics) ItemFailed() { m.SyncFailed.Inc() }
