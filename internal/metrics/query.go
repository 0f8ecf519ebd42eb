package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query engine Prometheus metrics.
var (
	QueryRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neurodex",
			Name:      "query_requests_total",
			Help:      "Total number of study queries",
		},
		[]string{"kind", "status"}, // kind: term / location / dissociate_terms / dissociate_locations
	)

	QueryStudiesReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "neurodex",
			Name:      "query_studies_returned",
			Help:      "Number of distinct studies returned per query",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"kind"},
	)
)

var queryMetricsRegistered bool

// RegisterQueryMetrics registers Prometheus query metrics. Must be called once from main.
func RegisterQueryMetrics() {
	if queryMetricsRegistered {
		return
	}
	prometheus.MustRegister(QueryRequestsTotal)
	prometheus.MustRegister(QueryStudiesReturned)
	queryMetricsRegistered = true
}
