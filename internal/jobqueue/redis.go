package jobqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/metrics"
)

// keyPrefix namespaces every list this package touches, so a shared Redis
// instance can host the queue alongside unrelated keys.
const keyPrefix = "grepiku:jobqueue:"

func pendingKey(queue core.JobKind) string    { return keyPrefix + string(queue) + ":pending" }
func processingKey(queue core.JobKind) string { return keyPrefix + string(queue) + ":processing" }

var _ core.Queue = (*Redis)(nil)

// Redis is a Redis-list-backed core.Queue: LPUSH onto a pending list,
// BRPOPLPUSH to move a payload onto a per-queue processing list while a
// worker handles it, and LREM to acknowledge once handle succeeds. A
// payload still in the processing list after a crash is, by design, left
// for an operator-run reaper rather than auto-requeued here, since this
// package has no opinion on how long "stuck" should mean.
type Redis struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedis builds a *redis.Client from opts and wraps it, the same
// options-then-wrap construction the example repo's cache client uses.
func NewRedis(opts *redis.Options, logger *slog.Logger) *Redis {
	return &Redis{client: redis.NewClient(opts), logger: logger}
}

// Enqueue LPUSHes the JSON-encoded payload onto queue's pending list.
func (q *Redis) Enqueue(ctx context.Context, queue core.JobKind, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("jobqueue: marshal payload: %w", err)
	}
	if err := q.client.LPush(ctx, pendingKey(queue), raw).Err(); err != nil {
		return fmt.Errorf("jobqueue: lpush: %w", err)
	}
	metrics.RecordEnqueue(string(queue))
	if n, err := q.client.LLen(ctx, pendingKey(queue)).Result(); err == nil {
		metrics.SetQueueDepth(string(queue), float64(n))
	}
	return nil
}

// Subscribe starts concurrency worker goroutines, each blocking on
// BRPOPLPUSH against queue's pending list until ctx is canceled.
func (q *Redis) Subscribe(ctx context.Context, queue core.JobKind, concurrency int, handle func(context.Context, any) error) error {
	if concurrency <= 0 {
		concurrency = 1
	}
	done := make(chan struct{}, concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer func() { done <- struct{}{} }()
			q.logger.Info("starting redis queue worker", "queue", queue, "worker_id", workerID)
			q.runWorker(ctx, queue, workerID, handle)
		}(i)
	}
	for i := 0; i < concurrency; i++ {
		<-done
	}
	return nil
}

func (q *Redis) runWorker(ctx context.Context, queue core.JobKind, workerID int, handle func(context.Context, any) error) {
	pending, processing := pendingKey(queue), processingKey(queue)
	for {
		if ctx.Err() != nil {
			q.logger.Info("stopping redis queue worker", "queue", queue, "worker_id", workerID)
			return
		}
		raw, err := q.client.BRPopLPush(ctx, pending, processing, 5*time.Second).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			q.logger.Error("redis brpoplpush failed", "queue", queue, "worker_id", workerID, "error", err)
			continue
		}

		if n, err := q.client.LLen(ctx, pending).Result(); err == nil {
			metrics.SetQueueDepth(string(queue), float64(n))
		}

		payload := json.RawMessage(raw)
		err = handle(ctx, payload)
		metrics.RecordProcessed(string(queue), err)
		if err != nil {
			q.logger.Error("queue handler failed", "queue", queue, "worker_id", workerID, "error", err)
			continue
		}
		if err := q.client.LRem(ctx, processing, 1, raw).Err(); err != nil {
			q.logger.Error("failed to acknowledge processed job", "queue", queue, "worker_id", workerID, "error", err)
		}
	}
}

// Close releases the underlying Redis connection pool.
func (q *Redis) Close() error { return q.client.Close() }
