// Package metrics exposes the prometheus instrumentation for the review
// pipeline: job queue depth, stage latencies, and reconciler outcomes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReviewRunsTotal counts completed orchestrator runs by outcome
	// ("success" or "failure").
	ReviewRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grepiku_review_runs_total",
		Help: "Total number of review runs processed, by outcome.",
	}, []string{"outcome"})

	// ReviewRunDuration tracks end-to-end wall time for one review run.
	ReviewRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "grepiku_review_run_duration_seconds",
		Help:    "Duration of a full review run, from setup through finalize.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s .. ~34m
	})

	// StageDuration tracks latency of a single LLM stage invocation.
	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "grepiku_stage_duration_seconds",
		Help:    "Duration of a single review stage, by stage name.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	// StageErrorsTotal counts stage invocations that returned an error.
	StageErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grepiku_stage_errors_total",
		Help: "Total number of review stage invocations that failed.",
	}, []string{"stage"})

	// JobsEnqueuedTotal counts jobs handed to the queue, by queue name.
	JobsEnqueuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grepiku_jobs_enqueued_total",
		Help: "Total number of jobs enqueued, by queue.",
	}, []string{"queue"})

	// JobsProcessedTotal counts jobs a subscriber finished handling, by
	// queue and outcome ("ok" or "error").
	JobsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grepiku_jobs_processed_total",
		Help: "Total number of jobs processed by a queue subscriber, by outcome.",
	}, []string{"queue", "outcome"})

	// QueueDepth is the current number of jobs sitting in a queue,
	// enqueued but not yet picked up by a worker.
	QueueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "grepiku_queue_depth",
		Help: "Current number of jobs waiting in a queue.",
	}, []string{"queue"})

	// ReconcileOutcomesTotal counts findings by the lifecycle transition
	// the reconciler assigned them on a given run: "new", "fixed",
	// "obsolete", or "carried_over".
	ReconcileOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grepiku_reconcile_outcomes_total",
		Help: "Total number of findings by reconciler outcome.",
	}, []string{"outcome"})
)

// RecordReviewRun records the outcome and duration of one completed run.
func RecordReviewRun(outcome string, d time.Duration) {
	ReviewRunsTotal.WithLabelValues(outcome).Inc()
	ReviewRunDuration.Observe(d.Seconds())
}

// RecordStage records the latency of one stage invocation and, if err is
// non-nil, increments that stage's error counter.
func RecordStage(stage string, d time.Duration, err error) {
	StageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		StageErrorsTotal.WithLabelValues(stage).Inc()
	}
}

// RecordEnqueue records one job handed to a queue.
func RecordEnqueue(queue string) {
	JobsEnqueuedTotal.WithLabelValues(queue).Inc()
	QueueDepth.WithLabelValues(queue).Inc()
}

// RecordDequeue records one job picked up off a queue by a worker, before
// its handler has run. QueueDepth drops as soon as a worker claims the job,
// matching the point at which Subscribe hands it to the caller's handler.
func RecordDequeue(queue string) {
	QueueDepth.WithLabelValues(queue).Dec()
}

// SetQueueDepth overwrites the queue depth gauge with an authoritative
// count, for backends (Redis) where depth is a shared list length rather
// than something this process alone increments and decrements.
func SetQueueDepth(queue string, depth float64) {
	QueueDepth.WithLabelValues(queue).Set(depth)
}

// RecordProcessed records the outcome of a subscriber's handle call for one
// job: "ok" if it returned nil, "error" otherwise.
func RecordProcessed(queue string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	JobsProcessedTotal.WithLabelValues(queue, outcome).Inc()
}

// RecordReconcileOutcome adds n findings to the given outcome bucket.
func RecordReconcileOutcome(outcome string, n int) {
	if n <= 0 {
		return
	}
	ReconcileOutcomesTotal.WithLabelValues(outcome).Add(float64(n))
}

// Timer measures elapsed wall time from its creation. It mirrors the
// call sites that need a single start point but record against different
// metrics depending on how the measured operation finished.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// RecordStage records the elapsed time against the named stage.
func (t *Timer) RecordStage(stage string, err error) {
	RecordStage(stage, t.Elapsed(), err)
}

// RecordReviewRun records the elapsed time against the review run outcome.
func (t *Timer) RecordReviewRun(outcome string) {
	RecordReviewRun(outcome, t.Elapsed())
}
