package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-convo/internal/infrastructure/cache/port"
	"go-convo/internal/infrastructure/logger"
	chat "go-convo/internal/pkg/chat/application/domain"
	repository "go-convo/internal/repository/port"
)

const contactKeyPrefix = "chat:contact:"

// CachedUserRepository serves contact cards from the cache and falls back to next on a miss.
// Cache failures are logged and never fail the lookup.
type CachedUserRepository struct {
	next  repository.UserRepository
	cache port.Cache
	ttl   time.Duration
	log   *logger.Logger
}

func NewCachedUserRepository(next repository.UserRepository, cache port.Cache, ttl time.Duration, log *logger.Logger) *CachedUserRepository {
	return &CachedUserRepository{next: next, cache: cache, ttl: ttl, log: log}
}

var _ repository.UserRepository = (*CachedUserRepository)(nil)

func (r *CachedUserRepository) FindContacts(ctx context.Context, ids []string) (map[string]chat.Contact, error) {
	out := make(map[string]chat.Contact, len(ids))
	var missing []string
	for _, id := range ids {
		if _, done := out[id]; done {
			continue
		}
		raw, err := r.cache.Get(ctx, contactKeyPrefix+id)
		if err != nil {
			if !errors.Is(err, port.ErrMiss) {
				r.log.Warn("contact cache read failed", "userId", id, "error", err)
			}
			missing = append(missing, id)
			continue
		}
		var c chat.Contact
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			missing = append(missing, id)
			continue
		}
		out[id] = c
	}
	if len(missing) == 0 {
		return out, nil
	}

	found, err := r.next.FindContacts(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, c := range found {
		out[id] = c
		raw, err := json.Marshal(c)
		if err != nil {
			continue
		}
		if err := r.cache.Set(ctx, contactKeyPrefix+id, string(raw), r.ttl); err != nil {
			r.log.Warn("contact cache write failed", "userId", id, "error", err)
		}
	}
	return out, nil
}

// Invalidate drops cached cards, e.g. after the directory reports a profile change.
func (r *CachedUserRepository) Invalidate(ctx context.Context, ids ...string) error {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = contactKeyPrefix + id
	}
	_, err := r.cache.Del(ctx, keys...)
	return err
}
