package metrics

import "github.com/prometheus/client_golang/prometheus"

// String store Prometheus metrics.
var (
	StringsIngestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "strindex",
			Name:      "strings_ingested_total",
			Help:      "Total number of string ingestion attempts",
		},
		[]string{"outcome"}, // "created" / "duplicate" / "error"
	)

	StringsDeletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "strindex",
			Name:      "strings_deleted_total",
			Help:      "Total number of strings deleted",
		},
	)

	NLQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "strindex",
			Name:      "nl_queries_total",
			Help:      "Natural-language query translation outcomes",
		},
		[]string{"outcome"}, // "parsed" / "unparseable" / "conflicting"
	)
)

var stringMetricsRegistered bool

// RegisterStringMetrics registers Prometheus string store metrics. Must be called once from main.
func RegisterStringMetrics() {
	if stringMetricsRegistered {
		return
	}
	prometheus.MustRegister(StringsIngestedTotal)
	prometheus.MustRegister(StringsDeletedTotal)
	prometheus.MustRegister(NLQueriesTotal)
	stringMetricsRegistered = true
}
