// README: Prometheus collectors for the invoice store and HTTP API.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	StoreMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxi_invoice_store_mutations_total",
			Help: "Invoice store mutations by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	StoreSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "taxi_invoice_store_size",
			Help: "Number of invoices currently held by the store",
		},
	)

	FaresQuoted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxi_fares_quoted_total",
			Help: "Fare calculations by outcome",
		},
		[]string{"outcome"},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxi_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taxi_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call twice.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(StoreMutations, StoreSize, FaresQuoted, HTTPRequests, HTTPDuration)
	})
}
