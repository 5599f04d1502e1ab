package chat

import (
	"sync"
	"time"
)

// Clock hands out logical timestamps in unix milliseconds.
// Every call returns a value strictly greater than any previous one.
type Clock interface {
	Now() int64
}

// MonotonicClock follows wall time but never repeats or goes backwards.
type MonotonicClock struct {
	mu   sync.Mutex
	last int64
	wall func() time.Time
}

func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{wall: time.Now}
}

func (c *MonotonicClock) Now() int64 {
	now := c.wall().UnixMilli()
	c.mu.Lock()
	defer c.mu.Unlock()
	if now <= c.last {
		now = c.last + 1
	}
	c.last = now
	return now
}
