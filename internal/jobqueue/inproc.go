// Package jobqueue provides the FIFO-per-queue core.Queue contract the
// scheduler enqueues onto and the worker binaries subscribe to: an
// in-process channel queue for a single-process deployment, and a
// Redis-backed list queue for a multi-process one. Neither redelivers a
// payload whose handler returned an error: InProc logs and discards it, and
// Redis logs it and leaves it on the queue's processing list.
package jobqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/metrics"
)

var _ core.Queue = (*InProc)(nil)

// InProc is a channel-based core.Queue, one buffered channel per JobKind,
// generalized from the teacher's single-job-type dispatcher to an arbitrary
// set of named queues.
type InProc struct {
	mu      sync.Mutex
	queues  map[core.JobKind]chan any
	bufSize int
	wg      sync.WaitGroup
	logger  *slog.Logger
}

// NewInProc constructs an InProc queue. bufSize bounds each queue's backlog;
// Enqueue returns an error once a queue is full rather than blocking the
// caller, the same non-blocking contract the teacher's dispatcher used.
func NewInProc(bufSize int, logger *slog.Logger) *InProc {
	if bufSize <= 0 {
		bufSize = 100
	}
	return &InProc{
		queues:  make(map[core.JobKind]chan any),
		bufSize: bufSize,
		logger:  logger,
	}
}

func (q *InProc) channel(kind core.JobKind) chan any {
	q.mu.Lock()
	defer q.mu.Unlock()
	ch, ok := q.queues[kind]
	if !ok {
		ch = make(chan any, q.bufSize)
		q.queues[kind] = ch
	}
	return ch
}

// Enqueue admits payload onto queue's channel, failing fast if it's full.
// payload is marshaled to JSON so a handler sees the same json.RawMessage
// shape regardless of which core.Queue implementation delivered it.
func (q *InProc) Enqueue(ctx context.Context, queue core.JobKind, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("jobqueue: marshal payload: %w", err)
	}
	select {
	case q.channel(queue) <- json.RawMessage(raw):
		metrics.RecordEnqueue(string(queue))
		return nil
	default:
		return fmt.Errorf("jobqueue: %s queue is full", queue)
	}
}

// Subscribe starts concurrency worker goroutines draining queue until ctx is
// canceled, then blocks until they've all returned. A handler error is
// logged and the worker moves on to the next payload; it is the caller's
// responsibility to make handle idempotent, since InProc does not persist
// or redeliver a payload once it has been received.
func (q *InProc) Subscribe(ctx context.Context, queue core.JobKind, concurrency int, handle func(context.Context, any) error) error {
	if concurrency <= 0 {
		concurrency = 1
	}
	ch := q.channel(queue)

	var workers sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		workers.Add(1)
		go func(workerID int) {
			defer workers.Done()
			q.logger.Info("starting queue worker", "queue", queue, "worker_id", workerID)
			for {
				select {
				case <-ctx.Done():
					q.logger.Info("stopping queue worker", "queue", queue, "worker_id", workerID)
					return
				case payload, ok := <-ch:
					if !ok {
						return
					}
					metrics.RecordDequeue(string(queue))
					err := handle(ctx, payload)
					metrics.RecordProcessed(string(queue), err)
					if err != nil {
						q.logger.Error("queue handler failed", "queue", queue, "worker_id", workerID, "error", err)
					}
				}
			}
		}(i)
	}
	workers.Wait()
	return nil
}
