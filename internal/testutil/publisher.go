package testutil

import (
	"sync"

	chat "go-convo/internal/pkg/chat/application/domain"
)

// RecordingPublisher keeps every published event in order.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []chat.Event
}

func (p *RecordingPublisher) Publish(e chat.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *RecordingPublisher) Events() []chat.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]chat.Event(nil), p.events...)
}

// OfKind filters the recorded events.
func (p *RecordingPublisher) OfKind(kind chat.EventKind) []chat.Event {
	var out []chat.Event
	for _, e := range p.Events() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func (p *RecordingPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
