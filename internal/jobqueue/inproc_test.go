package jobqueue

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/grepiku/internal/core"
)

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestInProc_EnqueueThenSubscribeDeliversPayload(t *testing.T) {
	q := NewInProc(4, testLogger())
	require.NoError(t, q.Enqueue(context.Background(), core.JobReview, core.ReviewJobPayload{PRNumber: 7}))

	received := make(chan core.ReviewJobPayload, 1)
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		_ = q.Subscribe(ctx, core.JobReview, 1, func(_ context.Context, payload any) error {
			var rj core.ReviewJobPayload
			require.NoError(t, json.Unmarshal(payload.(json.RawMessage), &rj))
			received <- rj
			return nil
		})
	}()

	select {
	case rj := <-received:
		assert.Equal(t, 7, rj.PRNumber)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
	cancel()
}

func TestInProc_EnqueueFailsFastWhenQueueIsFull(t *testing.T) {
	q := NewInProc(1, testLogger())
	require.NoError(t, q.Enqueue(context.Background(), core.JobIndex, core.IndexJobPayload{RepoID: 1}))

	err := q.Enqueue(context.Background(), core.JobIndex, core.IndexJobPayload{RepoID: 2})
	assert.Error(t, err)
}

func TestInProc_SeparateQueuesDoNotInterfere(t *testing.T) {
	q := NewInProc(4, testLogger())
	require.NoError(t, q.Enqueue(context.Background(), core.JobReview, core.ReviewJobPayload{PRNumber: 1}))
	require.NoError(t, q.Enqueue(context.Background(), core.JobAnalytics, core.AnalyticsJobPayload{ReviewRunID: 2}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var analyticsSeen int64
	done := make(chan struct{})
	go func() {
		_ = q.Subscribe(ctx, core.JobAnalytics, 1, func(_ context.Context, payload any) error {
			var ap core.AnalyticsJobPayload
			require.NoError(t, json.Unmarshal(payload.(json.RawMessage), &ap))
			analyticsSeen = ap.ReviewRunID
			done <- struct{}{}
			return nil
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for analytics delivery")
	}
	assert.EqualValues(t, 2, analyticsSeen)
}
