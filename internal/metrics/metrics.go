// Package metrics defines the Prometheus collectors exposed by medtrack.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TxConflicts counts optimistic-transaction aborts per operation.
	// Each abort corresponds to one retry of the read-modify-write cycle.
	TxConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medtrack_tx_conflicts_total",
		Help: "Optimistic transaction aborts caused by concurrent writes.",
	}, []string{"op"})

	// TxRetriesExhausted counts operations that hit the retry limit.
	TxRetriesExhausted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medtrack_tx_retries_exhausted_total",
		Help: "Operations abandoned after exhausting transaction retries.",
	}, []string{"op"})

	// HTTPRequests counts handled HTTP requests.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medtrack_http_requests_total",
		Help: "Handled HTTP requests.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request handling time.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "medtrack_http_request_duration_seconds",
		Help:    "HTTP request handling duration.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
