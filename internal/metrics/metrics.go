package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "doctech_queries_total",
			Help: "Queries handled, by resolved intent and outcome",
		},
		[]string{"intent", "outcome"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "doctech_query_duration_seconds",
			Help:    "End-to-end query resolution time",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"outcome"},
	)
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

func ObserveQuery(intent, outcome string, seconds float64) {
	QueriesTotal.WithLabelValues(intent, outcome).Inc()
	QueryDuration.WithLabelValues(outcome).Observe(seconds)
}
