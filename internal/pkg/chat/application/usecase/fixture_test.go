package usecase

import (
	"context"
	"testing"

	"go-convo/internal/infrastructure/logger"
	chat "go-convo/internal/pkg/chat/application/domain"
	"go-convo/internal/pkg/chat/persistence/repository/adapter"
	"go-convo/internal/pkg/identity"
	userAdapter "go-convo/internal/repository/adapter"
	"go-convo/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	repo  *adapter.MemoryChatRepository
	users *userAdapter.MemoryUserRepository
	pub   *testutil.RecordingPublisher
	clock *testutil.ManualClock
	codec *identity.Codec
	deps  Deps

	alice, bob, carol, dave, erin string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	codec, err := identity.NewCodec("usecase-test-secret")
	require.NoError(t, err)

	f := &fixture{
		repo:  adapter.NewMemoryChatRepository(),
		pub:   &testutil.RecordingPublisher{},
		clock: testutil.NewManualClock(1000),
		codec: codec,
		alice: uuid.NewString(),
		bob:   uuid.NewString(),
		carol: uuid.NewString(),
		dave:  uuid.NewString(),
		erin:  uuid.NewString(),
	}
	f.users = userAdapter.NewMemoryUserRepository(
		chat.NewContact(f.alice, "", "alice", "adams", "a.png", 10),
		chat.NewContact(f.bob, "", "bob", "brown", "b.png", 20),
		chat.NewContact(f.carol, "", "carol", "clark", "c.png", 30),
		chat.NewContact(f.dave, "", "dave", "dunn", "d.png", 40),
		chat.NewContact(f.erin, "", "erin", "evans", "e.png", 50),
	)
	f.deps = Deps{
		Repo:      f.repo,
		Users:     f.users,
		Publisher: f.pub,
		Clock:     f.clock,
		Codec:     codec,
		Settings:  chat.DefaultSettings(),
		Log:       logger.Nop(),
	}
	return f
}

func (f *fixture) create(t *testing.T, creator string, others ...string) *CreateConversationOutput {
	t.Helper()
	out, err := NewCreateConversationUseCase(f.deps).Execute(context.Background(), CreateConversationInput{
		CreatorID:      creator,
		ParticipantIDs: others,
	})
	require.NoError(t, err)
	return out
}

func (f *fixture) stream(t *testing.T, userID, conversationID string) []chat.StreamEntry {
	t.Helper()
	out, err := NewGetStreamUseCase(f.deps).Execute(context.Background(), GetStreamInput{UserID: userID, ConversationID: conversationID})
	require.NoError(t, err)
	return out.Entries
}

func contents(entries []chat.StreamEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		if e.Message != nil {
			out[i] = e.Message.Content
		} else {
			out[i] = e.Notification.Content
		}
	}
	return out
}

func ptr[T any](v T) *T { return &v }
