package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// RetrievalRequestsTotal counts semantic index calls by index and outcome.
	RetrievalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "topiclens",
			Name:      "retrieval_requests_total",
			Help:      "Total number of semantic index retrieval calls",
		},
		[]string{"index", "status"},
	)

	// RetrievalDuration observes semantic index call latency by index.
	RetrievalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "topiclens",
			Name:      "retrieval_duration_seconds",
			Help:      "Semantic index retrieval call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"index"},
	)

	// CompletionRequestsTotal counts chat-completion calls by outcome.
	CompletionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "topiclens",
			Name:      "completion_requests_total",
			Help:      "Total number of chat-completion calls",
		},
		[]string{"status"},
	)

	// CompletionDuration observes chat-completion call latency.
	CompletionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "topiclens",
			Name:      "completion_duration_seconds",
			Help:      "Chat-completion call duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// CompletionTokensTotal counts tokens reported by the completion API.
	CompletionTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "topiclens",
			Name:      "completion_tokens_total",
			Help:      "Total completion API token usage",
		},
		[]string{"kind"}, // prompt | completion | total
	)
)

// RegisterRAGMetrics registers the RAG pipeline metrics. Call once from the
// composition root (no init()).
func RegisterRAGMetrics() {
	prometheus.MustRegister(
		RetrievalRequestsTotal,
		RetrievalDuration,
		CompletionRequestsTotal,
		CompletionDuration,
		CompletionTokensTotal,
	)
}
