// Package metrics exposes the application's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts requests by method, route pattern, and
	// status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "walletly_http_requests_total",
		Help: "HTTP requests processed, by method, route and status code.",
	}, []string{"method", "route", "code"})

	// HTTPDuration observes request latency by route pattern.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "walletly_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// SettlementsRecorded counts committed settlements.
	SettlementsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "walletly_settlements_recorded_total",
		Help: "Settlements successfully recorded.",
	})

	// GoalsAchieved counts goals flipped to ACHIEVED.
	GoalsAchieved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "walletly_goals_achieved_total",
		Help: "Goals that reached their target.",
	})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
