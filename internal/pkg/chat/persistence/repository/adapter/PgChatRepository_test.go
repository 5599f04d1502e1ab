package adapter

import (
	"context"
	"errors"
	"testing"

	chat "go-convo/internal/pkg/chat/application/domain"
	repository "go-convo/internal/pkg/chat/persistence/repository/port"
	"go-convo/internal/testutil/testpg"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConversation(creator string, hash string, at int64) chat.Conversation {
	id := uuid.NewString()
	return chat.Conversation{ID: id, RemoteID: "r-" + id, CreatorID: creator, ParticipantHash: hash, CreatedAt: at, UpdatedAt: at}
}

func TestPgChatRepository(t *testing.T) {
	pool := testpg.Start(t)
	repo := NewPgChatRepository(pool)
	ctx := context.Background()

	creator, other := uuid.NewString(), uuid.NewString()

	t.Run("insert dedups on creator and fingerprint", func(t *testing.T) {
		c := newConversation(creator, "hash-1", 10)
		stored, created, err := repo.Conversations().Insert(ctx, c)
		require.NoError(t, err)
		require.True(t, created)

		dup := newConversation(creator, "hash-1", 11)
		again, created, err := repo.Conversations().Insert(ctx, dup)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, stored.ID, again.ID)
	})

	t.Run("participant hash follows membership", func(t *testing.T) {
		a := newConversation(creator, "hash-4", 12)
		b := newConversation(creator, "hash-5", 13)
		for _, c := range []chat.Conversation{a, b} {
			_, _, err := repo.Conversations().Insert(ctx, c)
			require.NoError(t, err)
		}

		require.NoError(t, repo.Conversations().UpdateParticipantHash(ctx, a.ID, "hash-6"))
		found, err := repo.Conversations().FindByCreatorAndHash(ctx, creator, "hash-6")
		require.NoError(t, err)
		assert.Equal(t, a.ID, found.ID)
		_, err = repo.Conversations().FindByCreatorAndHash(ctx, creator, "hash-4")
		assert.ErrorIs(t, err, repository.ErrNotFound)

		err = repo.Conversations().UpdateParticipantHash(ctx, b.ID, "hash-6")
		assert.ErrorIs(t, err, repository.ErrDuplicate)
		err = repo.Conversations().UpdateParticipantHash(ctx, uuid.NewString(), "hash-7")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("rollback leaves nothing behind", func(t *testing.T) {
		c := newConversation(creator, "hash-2", 20)
		boom := errors.New("boom")
		err := repo.WithinTx(ctx, func(ctx context.Context) error {
			if _, _, err := repo.Conversations().Insert(ctx, c); err != nil {
				return err
			}
			if err := repo.Participants().Add(ctx, []chat.Participant{{ConversationID: c.ID, UserID: creator, IsAdmin: true, JoinedAt: 20}}); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = repo.Conversations().FindByID(ctx, c.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("participants and stream", func(t *testing.T) {
		c := newConversation(creator, "hash-3", 30)
		_, _, err := repo.Conversations().Insert(ctx, c)
		require.NoError(t, err)

		require.NoError(t, repo.Participants().Add(ctx, []chat.Participant{
			{ConversationID: c.ID, UserID: creator, IsAdmin: true, JoinedAt: 30},
			{ConversationID: c.ID, UserID: other, JoinedAt: 30},
		}))
		err = repo.Participants().Add(ctx, []chat.Participant{{ConversationID: c.ID, UserID: other, JoinedAt: 31}})
		assert.ErrorIs(t, err, repository.ErrDuplicate)

		n, err := repo.Participants().CountByConversation(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		changed, err := repo.Participants().SetAdmin(ctx, c.ID, other, true)
		require.NoError(t, err)
		assert.True(t, changed)
		changed, err = repo.Participants().SetAdmin(ctx, c.ID, other, true)
		require.NoError(t, err)
		assert.False(t, changed)

		require.NoError(t, repo.Participants().UpdateReadTime(ctx, c.ID, other, 40))
		p, err := repo.Participants().Find(ctx, c.ID, other)
		require.NoError(t, err)
		require.NotNil(t, p.LastReadTime)
		assert.Equal(t, int64(40), *p.LastReadTime)

		msgID, notifID := uuid.NewString(), uuid.NewString()
		require.NoError(t, repo.Stream().AppendMessages(ctx, []chat.Message{
			{ID: msgID, RemoteID: "r-" + msgID, ConversationID: c.ID, AuthorID: creator, Content: "hi", CreatedAt: 35, UpdatedAt: 35},
		}))
		require.NoError(t, repo.Stream().AppendNotifications(ctx, []chat.Notification{
			{ID: notifID, RemoteID: "r-" + notifID, ConversationID: c.ID, Content: "Conversation created.", CreatedAt: 35},
		}))

		latest, err := repo.Stream().LatestMessage(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, msgID, latest.ID)

		msgs, err := repo.Stream().ListMessages(ctx, c.ID)
		require.NoError(t, err)
		notifs, err := repo.Stream().ListNotifications(ctx, c.ID)
		require.NoError(t, err)
		merged := chat.MergeStream(msgs, notifs)
		require.Len(t, merged, 2)
		assert.Equal(t, chat.EntryNotification, merged[0].Kind)

		deleted, err := repo.Conversations().Delete(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)
		_, err = repo.Stream().LatestMessage(ctx, c.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		ps, err := repo.Participants().ListByConversation(ctx, c.ID)
		require.NoError(t, err)
		assert.Empty(t, ps)
	})
}
