package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query pipeline Prometheus metrics.
var (
	QueryRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "astra",
			Name:      "query_requests_total",
			Help:      "Total number of pipeline runs by outcome",
		},
		[]string{"outcome"}, // "answered", "empty_query", "no_results", "embedding_failed", "retrieval_failed"
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "astra",
			Name:      "query_duration_seconds",
			Help:      "End-to-end pipeline duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"outcome"},
	)

	QueryDocumentsMatched = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "astra",
			Name:      "query_documents_matched",
			Help:      "Documents surviving the score threshold per query",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
	)
)

var queryMetricsRegistered bool

// RegisterQueryMetrics registers Prometheus query metrics. Must be called once from main.
func RegisterQueryMetrics() {
	if queryMetricsRegistered {
		return
	}
	prometheus.MustRegister(QueryRequestsTotal)
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(QueryDocumentsMatched)
	queryMetricsRegistered = true
}
