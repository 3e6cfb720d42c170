package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline stages, used as the "stage" label.
const (
	StageFetch      = "fetch"
	StageTranscribe = "transcribe"
	StageSummarize  = "summarize"
	StagePublish    = "publish"
)

var (
	// StageDuration tracks how long each pipeline stage takes
	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "podcast_digest_stage_duration_seconds",
		Help:    "Duration of pipeline stages",
		Buckets: prometheus.ExponentialBuckets(0.25, 2.0, 14), // 250ms to ~68min
	}, []string{"stage"})

	// StageFailures counts failed stage executions, soft failures included
	StageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "podcast_digest_stage_failures_total",
		Help: "Total failed pipeline stage executions",
	}, []string{"stage"})

	// RunsTotal counts finished runs by outcome
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "podcast_digest_runs_total",
		Help: "Total pipeline runs by outcome",
	}, []string{"outcome"})
)

// ObserveStage records the duration since start and, when failed, a failure.
func ObserveStage(stage string, start time.Time, failed bool) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	if failed {
		StageFailures.WithLabelValues(stage).Inc()
	}
}

// ObserveRun counts one finished run.
func ObserveRun(outcome string) {
	RunsTotal.WithLabelValues(outcome).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
