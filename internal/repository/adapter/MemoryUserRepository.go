package adapter

import (
	"context"
	"sync"

	chat "go-convo/internal/pkg/chat/application/domain"
	repository "go-convo/internal/repository/port"
)

// MemoryUserRepository is an in-process directory for tests and local runs.
type MemoryUserRepository struct {
	mu       sync.RWMutex
	contacts map[string]chat.Contact
	calls    int
}

func NewMemoryUserRepository(contacts ...chat.Contact) *MemoryUserRepository {
	r := &MemoryUserRepository{contacts: make(map[string]chat.Contact)}
	for _, c := range contacts {
		r.contacts[c.UserID] = c
	}
	return r
}

var _ repository.UserRepository = (*MemoryUserRepository)(nil)

func (r *MemoryUserRepository) Put(c chat.Contact) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts[c.UserID] = c
}

func (r *MemoryUserRepository) FindContacts(_ context.Context, ids []string) (map[string]chat.Contact, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]chat.Contact, len(ids))
	for _, id := range ids {
		if c, ok := r.contacts[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

// Calls counts FindContacts invocations.
func (r *MemoryUserRepository) Calls() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.calls
}
