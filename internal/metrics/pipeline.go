package metrics

import "github.com/prometheus/client_golang/prometheus"

// Parse/match pipeline metrics.
var (
	ParseTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumatch",
			Name:      "parse_total",
			Help:      "Total resume parse invocations",
		},
		[]string{"status"}, // "ok" / "degraded" / "error"
	)

	MatchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumatch",
			Name:      "match_requests_total",
			Help:      "Total find-matches invocations",
		},
		[]string{"status"}, // "ok" / "not_ready" / "error"
	)

	MatchScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "resumatch",
			Name:      "match_score",
			Help:      "Distribution of computed match scores",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers parse/match metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(ParseTotal)
	prometheus.MustRegister(MatchRequestsTotal)
	prometheus.MustRegister(MatchScore)
	pipelineMetricsRegistered = true
}
