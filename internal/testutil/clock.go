// Package testutil holds deterministic doubles shared by the chat tests.
package testutil

import "sync"

// ManualClock returns consecutive integers starting at the configured value.
type ManualClock struct {
	mu   sync.Mutex
	next int64
}

func NewManualClock(start int64) *ManualClock {
	return &ManualClock{next: start}
}

func (c *ManualClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next++
	return t
}

// Peek returns the value the next call to Now will hand out.
func (c *ManualClock) Peek() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next
}
