// Package metrics provides Prometheus metrics for the monitoring pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "veille"

var (
	// RunsTotal counts pipeline runs by type and final status.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of pipeline runs",
		},
		[]string{"type", "status"},
	)

	// RunDuration measures pipeline run duration.
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of pipeline runs in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"type"},
	)

	// ArticlesCollected counts inserted articles by origin.
	ArticlesCollected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_collected_total",
			Help:      "Total number of collected articles",
		},
		[]string{"origin"},
	)

	// ArticlesEnriched counts keyword enrichments.
	ArticlesEnriched = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_enriched_total",
			Help:      "Total number of enriched articles",
		},
	)

	// AlertsTotal counts alert inserts by level and outcome.
	AlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_total",
			Help:      "Total number of alert inserts",
		},
		[]string{"level", "status"},
	)

	// LLMCalls counts language-model calls by purpose and outcome.
	LLMCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_calls_total",
			Help:      "Total number of language-model calls",
		},
		[]string{"purpose", "status"},
	)

	// HTTPRequests counts HTTP requests by route and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"route", "code"},
	)
)

// RecordRun records a finished pipeline run.
func RecordRun(runType, status string, d time.Duration) {
	RunsTotal.WithLabelValues(runType, status).Inc()
	RunDuration.WithLabelValues(runType).Observe(d.Seconds())
}

// RecordAlert records one alert insert.
func RecordAlert(level string, err error) {
	AlertsTotal.WithLabelValues(level, outcome(err)).Inc()
}

// RecordLLMCall records one language-model call.
func RecordLLMCall(purpose string, err error) {
	LLMCalls.WithLabelValues(purpose, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
