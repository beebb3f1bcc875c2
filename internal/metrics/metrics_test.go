package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordReviewRun(t *testing.T) {
	initial := testutil.ToFloat64(ReviewRunsTotal.WithLabelValues("success"))

	RecordReviewRun("success", 2*time.Second)

	assert.Equal(t, initial+1.0, testutil.ToFloat64(ReviewRunsTotal.WithLabelValues("success")))
}

func TestRecordStage(t *testing.T) {
	initialErrors := testutil.ToFloat64(StageErrorsTotal.WithLabelValues("reviewer"))

	RecordStage("reviewer", 500*time.Millisecond, nil)
	assert.Equal(t, initialErrors, testutil.ToFloat64(StageErrorsTotal.WithLabelValues("reviewer")))

	RecordStage("reviewer", 500*time.Millisecond, errors.New("boom"))
	assert.Equal(t, initialErrors+1.0, testutil.ToFloat64(StageErrorsTotal.WithLabelValues("reviewer")))
}

func TestEnqueueDequeueDepth(t *testing.T) {
	initial := testutil.ToFloat64(QueueDepth.WithLabelValues("review"))

	RecordEnqueue("review")
	assert.Equal(t, initial+1.0, testutil.ToFloat64(QueueDepth.WithLabelValues("review")))

	RecordDequeue("review")
	assert.Equal(t, initial, testutil.ToFloat64(QueueDepth.WithLabelValues("review")))
}

func TestRecordProcessed(t *testing.T) {
	initialOK := testutil.ToFloat64(JobsProcessedTotal.WithLabelValues("review", "ok"))
	initialErr := testutil.ToFloat64(JobsProcessedTotal.WithLabelValues("review", "error"))

	RecordProcessed("review", nil)
	assert.Equal(t, initialOK+1.0, testutil.ToFloat64(JobsProcessedTotal.WithLabelValues("review", "ok")))

	RecordProcessed("review", errors.New("fail"))
	assert.Equal(t, initialErr+1.0, testutil.ToFloat64(JobsProcessedTotal.WithLabelValues("review", "error")))
}

func TestRecordReconcileOutcome(t *testing.T) {
	initial := testutil.ToFloat64(ReconcileOutcomesTotal.WithLabelValues("new"))

	RecordReconcileOutcome("new", 3)
	assert.Equal(t, initial+3.0, testutil.ToFloat64(ReconcileOutcomesTotal.WithLabelValues("new")))

	RecordReconcileOutcome("new", 0)
	assert.Equal(t, initial+3.0, testutil.ToFloat64(ReconcileOutcomesTotal.WithLabelValues("new")))
}

func TestTimer(t *testing.T) {
	timer := NewTimer()
	assert.False(t, timer.start.IsZero())

	time.Sleep(5 * time.Millisecond)
	assert.True(t, timer.Elapsed() >= 5*time.Millisecond)

	initial := testutil.ToFloat64(ReviewRunsTotal.WithLabelValues("success"))
	timer.RecordReviewRun("success")
	assert.Equal(t, initial+1.0, testutil.ToFloat64(ReviewRunsTotal.WithLabelValues("success")))
}
