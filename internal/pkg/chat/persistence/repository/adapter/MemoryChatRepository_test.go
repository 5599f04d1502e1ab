package adapter

import (
	"context"
	"errors"
	"testing"

	chat "go-convo/internal/pkg/chat/application/domain"
	repository "go-convo/internal/pkg/chat/persistence/repository/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedConversation(ctx context.Context, t *testing.T, repo repository.ChatRepository, id, creator, hash string) chat.Conversation {
	t.Helper()
	c, created, err := repo.Conversations().Insert(ctx, chat.Conversation{
		ID: id, RemoteID: "r-" + id, CreatorID: creator, ParticipantHash: hash, CreatedAt: 1, UpdatedAt: 1,
	})
	require.NoError(t, err)
	require.True(t, created)
	return c
}

func TestMemoryConversationInsertReturnsExistingOnSameFingerprint(t *testing.T) {
	repo := NewMemoryChatRepository()
	first := seedConversation(context.Background(), t, repo, "c1", "u1", "h")

	again, created, err := repo.Conversations().Insert(context.Background(), chat.Conversation{
		ID: "c2", CreatorID: "u1", ParticipantHash: "h",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	_, err = repo.Conversations().FindByID(context.Background(), "c2")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMemoryUpdateParticipantHashRekeys(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryChatRepository()
	seedConversation(ctx, t, repo, "c1", "u1", "h1")
	seedConversation(ctx, t, repo, "c2", "u1", "h2")

	require.NoError(t, repo.Conversations().UpdateParticipantHash(ctx, "c1", "h3"))
	found, err := repo.Conversations().FindByCreatorAndHash(ctx, "u1", "h3")
	require.NoError(t, err)
	assert.Equal(t, "c1", found.ID)
	_, err = repo.Conversations().FindByCreatorAndHash(ctx, "u1", "h1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, repo.Conversations().UpdateParticipantHash(ctx, "c2", "h3"), repository.ErrDuplicate)
	assert.ErrorIs(t, repo.Conversations().UpdateParticipantHash(ctx, "missing", "h4"), repository.ErrNotFound)

	// the freed fingerprint can be taken by a new conversation
	seedConversation(ctx, t, repo, "c3", "u1", "h1")
}

func TestMemoryParticipantsAddIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryChatRepository()
	seedConversation(context.Background(), t, repo, "c1", "u1", "h")
	require.NoError(t, repo.Participants().Add(ctx, []chat.Participant{{ConversationID: "c1", UserID: "u1"}}))

	err := repo.Participants().Add(ctx, []chat.Participant{
		{ConversationID: "c1", UserID: "u2"},
		{ConversationID: "c1", UserID: "u1"},
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	n, err := repo.Participants().CountByConversation(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryWithinTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryChatRepository()
	boom := errors.New("boom")

	err := repo.WithinTx(ctx, func(ctx context.Context) error {
		seedConversation(ctx, t, repo, "c1", "u1", "h")
		require.NoError(t, repo.Participants().Add(ctx, []chat.Participant{{ConversationID: "c1", UserID: "u1"}}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.Conversations().FindByID(ctx, "c1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.Participants().Find(ctx, "c1", "u1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMemoryFailOnInjectsErrors(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryChatRepository()
	seedConversation(context.Background(), t, repo, "c1", "u1", "h")
	boom := errors.New("disk full")

	repo.FailOn("AppendMessages", boom)
	err := repo.Stream().AppendMessages(ctx, []chat.Message{{ID: "m1", ConversationID: "c1", Content: "hi"}})
	assert.ErrorIs(t, err, boom)

	repo.FailOn("AppendMessages", nil)
	require.NoError(t, repo.Stream().AppendMessages(ctx, []chat.Message{{ID: "m1", ConversationID: "c1", Content: "hi"}}))
}

func TestMemoryDeleteCascades(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryChatRepository()
	seedConversation(context.Background(), t, repo, "c1", "u1", "h")
	require.NoError(t, repo.Groups().Insert(ctx, chat.Group{ID: "g1", ConversationID: "c1"}))
	require.NoError(t, repo.Participants().Add(ctx, []chat.Participant{{ConversationID: "c1", UserID: "u1"}}))
	require.NoError(t, repo.Stream().AppendMessages(ctx, []chat.Message{{ID: "m1", ConversationID: "c1", Content: "x"}}))
	require.NoError(t, repo.Stream().AppendNotifications(ctx, []chat.Notification{{ID: "n1", ConversationID: "c1", Content: "y"}}))

	n, err := repo.Conversations().Delete(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.Groups().FindByID(ctx, "g1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	ps, err := repo.Participants().ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, ps)
	msgs, err := repo.Stream().FindMessages(ctx, []string{"m1"})
	require.NoError(t, err)
	assert.Empty(t, msgs)

	// the fingerprint is free again
	seedConversation(context.Background(), t, repo, "c2", "u1", "h")
}

func TestMemorySetAdminReportsChange(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryChatRepository()
	seedConversation(context.Background(), t, repo, "c1", "u1", "h")
	require.NoError(t, repo.Participants().Add(ctx, []chat.Participant{{ConversationID: "c1", UserID: "u2"}}))

	changed, err := repo.Participants().SetAdmin(ctx, "c1", "u2", true)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.Participants().SetAdmin(ctx, "c1", "u2", true)
	require.NoError(t, err)
	assert.False(t, changed)
}
