package usecase

import (
	"context"
	"errors"
	"testing"

	chat "go-convo/internal/pkg/chat/application/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddParticipants(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	conv := f.create(t, f.alice, f.bob).Conversation
	uc := NewAddParticipantsUseCase(f.deps)

	_, err := uc.Execute(ctx, AddParticipantsInput{ConversationID: conv.ID, RequesterID: f.bob, UserIDs: []string{f.carol}})
	assert.ErrorIs(t, err, chat.ErrNotAuthorized)

	_, err = uc.Execute(ctx, AddParticipantsInput{ConversationID: conv.ID, RequesterID: f.alice})
	assert.ErrorIs(t, err, chat.ErrInvalidMembership)

	_, err = uc.Execute(ctx, AddParticipantsInput{ConversationID: conv.ID, RequesterID: f.alice, UserIDs: []string{f.carol, f.bob}})
	assert.ErrorIs(t, err, chat.ErrDuplicateParticipant)
	n, err := f.repo.Participants().CountByConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f.pub.Reset()
	out, err := uc.Execute(ctx, AddParticipantsInput{ConversationID: conv.ID, RequesterID: f.alice, UserIDs: []string{f.carol, f.dave, f.erin}})
	require.NoError(t, err)
	require.Len(t, out.Participants, 3)
	for _, p := range out.Participants {
		assert.False(t, p.IsAdmin)
		assert.Nil(t, p.LastReadTime)
	}
	assert.Equal(t, "Carol Clark", out.Contacts[0].FullName)
	assert.Equal(t, f.codec.Encode(f.carol), out.Contacts[0].RemoteID)

	entries := contents(f.stream(t, f.erin, conv.ID))
	assert.Equal(t, "Carol Clark, Dave Dunn and Erin Evans joined the conversation.", entries[len(entries)-1])

	events := f.pub.OfKind(chat.EventConversationChanged)
	require.Len(t, events, 1)
	assert.ElementsMatch(t, []string{f.alice, f.bob, f.carol, f.dave, f.erin}, events[0].Recipients)
	assert.Len(t, events[0].Payload.(chat.EntryIDsPayload).IDs, 1)
}

func TestAddParticipantsBelowThresholdHasNoNotice(t *testing.T) {
	f := newFixture(t)
	conv := f.create(t, f.alice, f.bob).Conversation
	_, err := NewAddParticipantsUseCase(f.deps).Execute(context.Background(), AddParticipantsInput{
		ConversationID: conv.ID, RequesterID: f.alice, UserIDs: []string{f.carol},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{chat.ConversationCreatedText}, contents(f.stream(t, f.carol, conv.ID)))
}

func TestRemoveParticipantAuthorization(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	conv := f.create(t, f.alice, f.bob, f.carol).Conversation
	uc := NewRemoveParticipantUseCase(f.deps)

	_, err := uc.Execute(ctx, RemoveParticipantInput{ConversationID: conv.ID, RequesterID: f.alice, TargetID: f.alice})
	assert.ErrorIs(t, err, chat.ErrSelfRemovalByCreatorForbidden)

	_, err = uc.Execute(ctx, RemoveParticipantInput{ConversationID: conv.ID, RequesterID: f.bob, TargetID: f.carol})
	assert.ErrorIs(t, err, chat.ErrNotAuthorized)

	_, err = uc.Execute(ctx, RemoveParticipantInput{ConversationID: conv.ID, RequesterID: f.alice, TargetID: f.dave})
	assert.ErrorIs(t, err, chat.ErrNotAParticipant)

	_, err = uc.Execute(ctx, RemoveParticipantInput{ConversationID: conv.ID, RequesterID: f.dave, TargetID: f.dave})
	assert.ErrorIs(t, err, chat.ErrNotAParticipant)

	f.pub.Reset()
	out, err := uc.Execute(ctx, RemoveParticipantInput{ConversationID: conv.ID, RequesterID: f.bob, TargetID: f.bob})
	require.NoError(t, err)
	assert.Equal(t, chat.RemovalLeave, out.Kind)
	assert.Equal(t, "Bob Brown left the conversation.", out.Notification.Content)
	events := f.pub.OfKind(chat.EventConversationChanged)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Recipients, f.bob)

	out, err = uc.Execute(ctx, RemoveParticipantInput{ConversationID: conv.ID, RequesterID: f.alice, TargetID: f.carol})
	require.NoError(t, err)
	assert.Equal(t, chat.RemovalKick, out.Kind)
	assert.Equal(t, "Carol Clark was removed from the conversation.", out.Notification.Content)

	n, err := f.repo.Participants().CountByConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRemoveParticipantRollsBackNoticeOnFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	conv := f.create(t, f.alice, f.bob).Conversation
	f.repo.FailOn("RemoveParticipant", errors.New("connection reset"))

	_, err := NewRemoveParticipantUseCase(f.deps).Execute(ctx, RemoveParticipantInput{
		ConversationID: conv.ID, RequesterID: f.alice, TargetID: f.bob,
	})
	assert.ErrorIs(t, err, chat.ErrPersistenceFailure)
	assert.Equal(t, []string{chat.ConversationCreatedText}, contents(f.stream(t, f.alice, conv.ID)))
}

func TestUpdateParticipants(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	conv := f.create(t, f.alice, f.bob, f.carol).Conversation
	uc := NewUpdateParticipantsUseCase(f.deps)

	res, err := uc.Execute(ctx, UpdateParticipantsInput{RequesterID: f.alice, Items: []ParticipantUpdate{
		{ConversationID: conv.ID, UserID: f.bob, IsAdmin: true},
	}})
	require.NoError(t, err)
	assert.Equal(t, BatchResult{Matched: 1, Modified: 1}, res)

	// bob is now an admin of record but cannot demote the creator or change himself
	res, err = uc.Execute(ctx, UpdateParticipantsInput{RequesterID: f.bob, Items: []ParticipantUpdate{
		{ConversationID: conv.ID, UserID: f.alice, IsAdmin: false},
		{ConversationID: conv.ID, UserID: f.bob, IsAdmin: false},
		{ConversationID: conv.ID, UserID: f.carol, IsAdmin: true},
	}})
	require.NoError(t, err)
	assert.Equal(t, BatchResult{Matched: 3, Modified: 1}, res)

	res, err = uc.Execute(ctx, UpdateParticipantsInput{RequesterID: f.carol, Items: []ParticipantUpdate{
		{ConversationID: conv.ID, UserID: f.bob, IsAdmin: false},
		{ConversationID: conv.ID, UserID: f.dave, IsAdmin: true},
	}})
	var chatErr *chat.Error
	require.ErrorAs(t, err, &chatErr)
	assert.Equal(t, chat.KindPartialMatchFailure, chatErr.Kind)
	assert.Equal(t, 1, chatErr.Matched)
	assert.Equal(t, 1, chatErr.Modified)
	assert.Equal(t, BatchResult{Matched: 1, Modified: 1}, res)
}

func TestDeleteConversation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.create(t, f.alice, f.bob)
	conv := created.Conversation
	uc := NewDeleteConversationUseCase(f.deps)

	err := uc.Execute(ctx, DeleteConversationInput{RequesterID: f.bob, ConversationID: conv.ID})
	assert.ErrorIs(t, err, chat.ErrNotAuthorized)

	f.pub.Reset()
	require.NoError(t, uc.Execute(ctx, DeleteConversationInput{RequesterID: f.alice, ConversationID: conv.ID}))
	events := f.pub.OfKind(chat.EventConversationDeleted)
	require.Len(t, events, 1)
	assert.ElementsMatch(t, []string{f.alice, f.bob}, events[0].Recipients)
	assert.Equal(t, chat.ConversationDeletedPayload{ChatID: conv.RemoteID}, events[0].Payload)

	_, err = NewGetStreamUseCase(f.deps).Execute(ctx, GetStreamInput{UserID: f.alice, ConversationID: conv.ID})
	assert.ErrorIs(t, err, chat.ErrNotAParticipant)

	err = uc.Execute(ctx, DeleteConversationInput{RequesterID: f.alice, ConversationID: conv.ID})
	assert.ErrorIs(t, err, chat.ErrNotFound)

	// the same participant set can be opened again
	assert.True(t, f.create(t, f.alice, f.bob).Created)
}
