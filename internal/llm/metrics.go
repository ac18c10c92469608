package llm

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	llmRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyforge_llm_requests_total",
		Help: "LLM completions by provider and outcome.",
	}, []string{"provider", "outcome"})

	llmDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "studyforge_llm_request_duration_seconds",
		Help:    "Wall time of LLM completions including retries.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60, 90},
	}, []string{"provider"})

	llmTokens = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyforge_llm_tokens_total",
		Help: "Tokens reported by the provider.",
	}, []string{"provider", "kind"})
)

func observeCall(provider, outcome string, elapsed time.Duration, usage Usage) {
	llmRequests.WithLabelValues(provider, outcome).Inc()
	llmDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
	if usage.PromptTokens > 0 {
		llmTokens.WithLabelValues(provider, "prompt").Add(float64(usage.PromptTokens))
	}
	if usage.CompletionTokens > 0 {
		llmTokens.WithLabelValues(provider, "completion").Add(float64(usage.CompletionTokens))
	}
}
