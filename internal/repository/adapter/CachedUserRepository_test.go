package adapter

import (
	"context"
	"testing"
	"time"

	cacheAdapter "go-convo/internal/infrastructure/cache/adapter"
	"go-convo/internal/infrastructure/logger"
	chat "go-convo/internal/pkg/chat/application/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedUserRepositoryServesSecondLookupFromCache(t *testing.T) {
	ctx := context.Background()
	ann := chat.NewContact("u1", "", "ann", "lee", "a.png", 5)
	dir := NewMemoryUserRepository(ann)
	cache, err := cacheAdapter.NewMemoryCache()
	require.NoError(t, err)
	defer cache.Close()
	repo := NewCachedUserRepository(dir, cache, time.Minute, logger.Nop())

	got, err := repo.FindContacts(ctx, []string{"u1", "ghost"})
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", got["u1"].FullName)
	assert.NotContains(t, got, "ghost")
	assert.Equal(t, 1, dir.Calls())

	got, err = repo.FindContacts(ctx, []string{"u1"})
	require.NoError(t, err)
	assert.Equal(t, ann, got["u1"])
	assert.Equal(t, 1, dir.Calls())

	require.NoError(t, repo.Invalidate(ctx, "u1"))
	_, err = repo.FindContacts(ctx, []string{"u1"})
	require.NoError(t, err)
	assert.Equal(t, 2, dir.Calls())
}
