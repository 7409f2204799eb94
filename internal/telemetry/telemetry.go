// Package telemetry exposes prometheus metrics for the reasoning pipeline.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stageCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "darkai_pipeline_stage_calls_total",
		Help: "Pipeline stage invocations by stage name.",
	}, []string{"stage"})

	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "darkai_pipeline_stage_duration_seconds",
		Help:    "Wall time spent per pipeline stage.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	directiveFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "darkai_directive_parse_failures_total",
		Help: "Model directive responses that fell back to stage defaults.",
	}, []string{"stage"})

	searchQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "darkai_search_queries_total",
		Help: "Web search queries issued by the orchestrator.",
	})

	searchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "darkai_search_query_failures_total",
		Help: "Web search queries that failed and were skipped.",
	})

	turns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "darkai_turns_total",
		Help: "Completed user turns by outcome.",
	}, []string{"outcome"}) // answered, clarification, error
)

// ObserveStage records one stage invocation with its duration.
func ObserveStage(stage string, start time.Time) {
	stageCalls.WithLabelValues(stage).Inc()
	stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// DirectiveFallback records a directive parse failure for a stage.
func DirectiveFallback(stage string) {
	directiveFailures.WithLabelValues(stage).Inc()
}

// SearchQuery records an issued query and whether it failed.
func SearchQuery(failed bool) {
	searchQueries.Inc()
	if failed {
		searchFailures.Inc()
	}
}

// Turn records a finished turn outcome.
func Turn(outcome string) {
	turns.WithLabelValues(outcome).Inc()
}
