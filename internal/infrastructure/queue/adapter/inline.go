package adapter

import (
	"context"
	"fmt"
	"sync"

	"go-convo/internal/infrastructure/queue/port"
)

// InlineQueue implements port.Client and port.Server in-process: Enqueue runs the registered
// handler synchronously. Used when no Redis is configured and in tests.
type InlineQueue struct {
	mu       sync.RWMutex
	handlers map[string]port.Handler
	seq      int
}

func NewInlineQueue() *InlineQueue {
	return &InlineQueue{handlers: make(map[string]port.Handler)}
}

var (
	_ port.Client = (*InlineQueue)(nil)
	_ port.Server = (*InlineQueue)(nil)
)

func (q *InlineQueue) Register(taskType string, h port.Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[taskType] = h
}

func (q *InlineQueue) Enqueue(ctx context.Context, t port.Task, _ ...port.EnqueueOption) (string, error) {
	q.mu.Lock()
	h, ok := q.handlers[t.Type]
	q.seq++
	id := fmt.Sprintf("inline-%d", q.seq)
	q.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("queue: no handler for %q", t.Type)
	}
	return id, h(ctx, t)
}

func (q *InlineQueue) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (q *InlineQueue) Stop(context.Context) error { return nil }

func (q *InlineQueue) Close() error { return nil }
