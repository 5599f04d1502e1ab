package usecase

import (
	"context"
	"errors"
	"testing"

	chat "go-convo/internal/pkg/chat/application/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateConversationRequiresAnotherParticipant(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateConversationUseCase(f.deps)

	for _, ids := range [][]string{nil, {f.alice}, {f.alice, " ", f.alice}} {
		_, err := uc.Execute(context.Background(), CreateConversationInput{CreatorID: f.alice, ParticipantIDs: ids})
		assert.ErrorIs(t, err, chat.ErrInvalidMembership)
	}
	assert.Empty(t, f.pub.Events())
}

func TestCreateConversationIsIdempotentPerParticipantSet(t *testing.T) {
	f := newFixture(t)
	first := f.create(t, f.alice, f.bob, f.carol)
	require.True(t, first.Created)
	f.pub.Reset()

	second := f.create(t, f.alice, f.carol, f.alice, f.bob)
	assert.False(t, second.Created)
	assert.Equal(t, first.Conversation.ID, second.Conversation.ID)
	assert.Empty(t, f.pub.Events())

	ps, err := f.repo.Participants().ListByUser(context.Background(), f.alice)
	require.NoError(t, err)
	assert.Len(t, ps, 1)

	// another creator with the same set is a different conversation
	third := f.create(t, f.bob, f.alice, f.carol)
	assert.True(t, third.Created)
	assert.NotEqual(t, first.Conversation.ID, third.Conversation.ID)
}

func TestCreateConversationWritesNoticesMessageAndReadMarker(t *testing.T) {
	f := newFixture(t)
	start := f.clock.Peek()
	out, err := NewCreateConversationUseCase(f.deps).Execute(context.Background(), CreateConversationInput{
		CreatorID:      f.alice,
		ParticipantIDs: []string{f.bob, f.carol, f.dave},
		Metadata:       chat.Metadata{Name: ptr("  Team  "), FirstMessage: " hi "},
	})
	require.NoError(t, err)
	require.True(t, out.Created)
	assert.Equal(t, "Team", *out.Conversation.Name)

	assert.Equal(t, []string{
		chat.ConversationCreatedText,
		"Bob Brown, Carol Clark and Dave Dunn joined the conversation.",
		"hi",
	}, contents(f.stream(t, f.bob, out.Conversation.ID)))

	creator, err := f.repo.Participants().Find(context.Background(), out.Conversation.ID, f.alice)
	require.NoError(t, err)
	assert.True(t, creator.IsAdmin)
	require.NotNil(t, creator.LastReadTime)
	assert.Equal(t, start+2, *creator.LastReadTime)

	member, err := f.repo.Participants().Find(context.Background(), out.Conversation.ID, f.bob)
	require.NoError(t, err)
	assert.False(t, member.IsAdmin)
	assert.Nil(t, member.LastReadTime)

	_, err = f.repo.Groups().FindByConversation(context.Background(), out.Conversation.ID)
	require.NoError(t, err)

	changed := f.pub.OfKind(chat.EventConversationChanged)
	require.Len(t, changed, 1)
	assert.ElementsMatch(t, []string{f.alice, f.bob, f.carol, f.dave}, changed[0].Recipients)
	payload := changed[0].Payload.(chat.EntryIDsPayload)
	assert.Equal(t, out.Conversation.RemoteID, payload.ChatID)
	assert.Len(t, payload.IDs, 2)

	msgs := f.pub.OfKind(chat.EventNewMessage)
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{out.Messages[0].RemoteID}, msgs[0].Payload.(chat.EntryIDsPayload).IDs)
}

func TestCreateConversationJoinNoticeCountsCreator(t *testing.T) {
	f := newFixture(t)
	group := f.create(t, f.alice, f.bob, f.carol)
	require.Len(t, group.Notifications, 2)
	assert.Equal(t, []string{
		chat.ConversationCreatedText,
		"Bob Brown and Carol Clark joined the conversation.",
	}, contents(f.stream(t, f.alice, group.Conversation.ID)))

	direct := f.create(t, f.alice, f.dave)
	assert.Equal(t, []string{chat.ConversationCreatedText}, contents(f.stream(t, f.alice, direct.Conversation.ID)))
}

func TestCreateConversationMatchesCurrentMembers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := f.create(t, f.alice, f.bob)

	_, err := NewAddParticipantsUseCase(f.deps).Execute(ctx, AddParticipantsInput{
		ConversationID: first.Conversation.ID, RequesterID: f.alice, UserIDs: []string{f.carol},
	})
	require.NoError(t, err)

	grown := f.create(t, f.alice, f.bob, f.carol)
	assert.False(t, grown.Created)
	assert.Equal(t, first.Conversation.ID, grown.Conversation.ID)

	// the old member set no longer names that conversation
	pair := f.create(t, f.alice, f.bob)
	assert.True(t, pair.Created)
	assert.NotEqual(t, first.Conversation.ID, pair.Conversation.ID)

	_, err = NewRemoveParticipantUseCase(f.deps).Execute(ctx, RemoveParticipantInput{
		ConversationID: first.Conversation.ID, RequesterID: f.alice, TargetID: f.carol,
	})
	require.NoError(t, err)

	// {alice, bob} already belongs to pair, so first is no longer found by any member set
	again := f.create(t, f.alice, f.bob)
	assert.False(t, again.Created)
	assert.Equal(t, pair.Conversation.ID, again.Conversation.ID)

	stored, err := f.repo.Conversations().FindByID(ctx, first.Conversation.ID)
	require.NoError(t, err)
	assert.Equal(t, chat.DetachedFingerprint(first.Conversation.ID), stored.ParticipantHash)

	trio := f.create(t, f.alice, f.bob, f.carol)
	assert.True(t, trio.Created)
}

func TestCreateConversationRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.FailOn("AppendMessages", errors.New("disk full"))

	_, err := NewCreateConversationUseCase(f.deps).Execute(context.Background(), CreateConversationInput{
		CreatorID:      f.alice,
		ParticipantIDs: []string{f.bob},
		Metadata:       chat.Metadata{FirstMessage: "hello"},
	})
	require.ErrorIs(t, err, chat.ErrPersistenceFailure)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Empty(t, f.pub.Events())

	ps, err := f.repo.Participants().ListByUser(context.Background(), f.alice)
	require.NoError(t, err)
	assert.Empty(t, ps)

	f.repo.FailOn("AppendMessages", nil)
	out := f.create(t, f.alice, f.bob)
	assert.True(t, out.Created)
}

func TestCreateConversationRejectsInvalidFirstMessage(t *testing.T) {
	f := newFixture(t)
	_, err := NewCreateConversationUseCase(f.deps).Execute(context.Background(), CreateConversationInput{
		CreatorID:      f.alice,
		ParticipantIDs: []string{f.bob},
		Metadata:       chat.Metadata{FirstMessage: "   "},
	})
	// blank after trimming is not an error: there is simply no first message
	require.NoError(t, err)

	long := make([]rune, chat.MaxMessageLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = NewCreateConversationUseCase(f.deps).Execute(context.Background(), CreateConversationInput{
		CreatorID:      f.alice,
		ParticipantIDs: []string{f.carol},
		Metadata:       chat.Metadata{FirstMessage: string(long)},
	})
	assert.ErrorIs(t, err, chat.ErrInvalidInput)
}
