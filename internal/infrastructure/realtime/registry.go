package realtime

import (
	"sync"

	"go-convo/internal/infrastructure/logger"
	chat "go-convo/internal/pkg/chat/application/domain"
)

// Registry maps users to their live channels. A user may hold any number of channels.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]map[string]Channel // userID -> channelID -> channel
	owners   map[string]string             // channelID -> userID
	log      *logger.Logger
}

func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		channels: make(map[string]map[string]Channel),
		owners:   make(map[string]string),
		log:      log,
	}
}

// Register adds ch to the channels of userID.
func (r *Registry) Register(userID string, ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.owners[ch.ID()]; ok {
		r.removeLocked(prev, ch.ID())
	}
	set := r.channels[userID]
	if set == nil {
		set = make(map[string]Channel)
		r.channels[userID] = set
	}
	set[ch.ID()] = ch
	r.owners[ch.ID()] = userID
}

// Deregister forgets ch. Unknown channels are ignored.
func (r *Registry) Deregister(ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if userID, ok := r.owners[ch.ID()]; ok {
		r.removeLocked(userID, ch.ID())
	}
}

// Channels reports how many channels userID currently holds.
func (r *Registry) Channels(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels[userID])
}

// Publish encodes the event once and hands it to every channel of every listed user.
// It returns the number of channels that accepted the frame. Channels that refuse are
// closed and dropped; users without channels are skipped.
func (r *Registry) Publish(userIDs []string, kind chat.EventKind, payload any) int {
	frame, err := EncodeFrame(kind, payload)
	if err != nil {
		r.log.Error("encode event frame", "kind", kind, "error", err)
		return 0
	}
	return r.Deliver(userIDs, frame)
}

// Deliver hands an encoded frame to every channel of the listed users.
func (r *Registry) Deliver(userIDs []string, frame []byte) int {
	var targets []Channel
	r.mu.RLock()
	seen := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		for _, ch := range r.channels[id] {
			targets = append(targets, ch)
		}
	}
	r.mu.RUnlock()

	delivered := 0
	for _, ch := range targets {
		if err := ch.Send(frame); err != nil {
			r.log.Warn("dropping realtime channel", "channelId", ch.ID(), "error", err)
			r.Deregister(ch)
			ch.Close()
			continue
		}
		delivered++
	}
	return delivered
}

// Close closes every channel and empties the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	var all []Channel
	for _, set := range r.channels {
		for _, ch := range set {
			all = append(all, ch)
		}
	}
	r.channels = make(map[string]map[string]Channel)
	r.owners = make(map[string]string)
	r.mu.Unlock()

	for _, ch := range all {
		ch.Close()
	}
}

func (r *Registry) removeLocked(userID, channelID string) {
	delete(r.owners, channelID)
	set := r.channels[userID]
	delete(set, channelID)
	if len(set) == 0 {
		delete(r.channels, userID)
	}
}
