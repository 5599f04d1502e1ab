package port

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Task is a background job: a stable type name plus opaque payload bytes.
type Task struct {
	Type    string
	Payload []byte
}

// NewJSONTask encodes payload as the task body.
func NewJSONTask(taskType string, payload any) (Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Task{}, fmt.Errorf("queue: encode %s payload: %w", taskType, err)
	}
	return Task{Type: taskType, Payload: b}, nil
}

// Decode unmarshals the JSON body into v.
func (t Task) Decode(v any) error {
	if err := json.Unmarshal(t.Payload, v); err != nil {
		return fmt.Errorf("queue: decode %s payload: %w", t.Type, err)
	}
	return nil
}

// Handler processes a Task. A non-nil error asks the adapter to retry; handlers must be idempotent.
type Handler func(ctx context.Context, task Task) error

// EnqueueOption controls enqueue behavior. Zero values mean "unspecified";
// adapters ignore fields their backend cannot honour.
type EnqueueOption struct {
	Queue     string
	ProcessIn time.Duration
	ProcessAt time.Time // takes precedence over ProcessIn
	MaxRetry  int
	UniqueTTL time.Duration
	Retention time.Duration
	Deadline  time.Time
}

// Client enqueues tasks for background processing.
type Client interface {
	Enqueue(ctx context.Context, t Task, opts ...EnqueueOption) (id string, err error)
	Close() error
}

// Server runs the workers. Run blocks until ctx is cancelled.
type Server interface {
	Register(taskType string, h Handler)
	Run(ctx context.Context) error
	Stop(ctx context.Context) error
}
