// Package metrics provides Prometheus metrics for the molecule fetch
// service:
//   - http_request_total / http_request_duration_seconds / http_request_in_flight
//   - molecule_fetch_total: fetches per source and outcome
//   - molecule_fetch_duration_seconds: upstream latency per source
//   - source_reachable: last probe result per source
//
// All metrics register with the default registry at package init.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	MoleculeFetchTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "molecule_fetch_total",
			Help: "Structure fetches per upstream source and outcome",
		},
		[]string{"source", "outcome"},
	)

	MoleculeFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "molecule_fetch_duration_seconds",
			Help:    "Upstream fetch latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	SourceReachable = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "source_reachable",
			Help: "Last availability probe result per source (1 reachable, 0 not)",
		},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(MoleculeFetchTotals)
	prometheus.MustRegister(MoleculeFetchDuration)
	prometheus.MustRegister(SourceReachable)
}
