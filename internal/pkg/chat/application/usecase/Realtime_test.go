package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"go-convo/internal/infrastructure/logger"
	"go-convo/internal/infrastructure/realtime"
	chat "go-convo/internal/pkg/chat/application/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type socket struct {
	id     string
	mu     sync.Mutex
	frames [][]byte
}

func newSocket() *socket { return &socket{id: uuid.NewString()} }

func (s *socket) ID() string { return s.id }

func (s *socket) Send(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, frame)
	return nil
}

func (s *socket) Close() {}

func (s *socket) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

type received struct {
	Type    chat.EventKind  `json:"type"`
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

func (s *socket) received(t *testing.T) []received {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]received, len(s.frames))
	for i, f := range s.frames {
		require.NoError(t, json.Unmarshal(f, &out[i]))
	}
	return out
}

// withDispatcher routes the fixture's events through a running dispatcher and registry.
func withDispatcher(t *testing.T, f *fixture) (*realtime.Registry, func()) {
	t.Helper()
	registry := realtime.NewRegistry(logger.Nop())
	d := realtime.NewDispatcher(registry, logger.Nop())
	f.deps.Publisher = d

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = d.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-d.Done()
	})
	// events are delivered in order, so a marker event reaching its socket means the queue drained
	flush := func() {
		marker := newSocket()
		id := uuid.NewString()
		registry.Register(id, marker)
		d.Publish(chat.Event{Kind: chat.EventConversationDeleted, Recipients: []string{id}, Payload: chat.ConversationDeletedPayload{}})
		require.Eventually(t, func() bool { return marker.count() == 1 }, time.Second, 5*time.Millisecond)
		registry.Deregister(marker)
	}
	return registry, flush
}

func TestReadReceiptReachesOthersOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	registry, flush := withDispatcher(t, f)
	conv := f.create(t, f.alice, f.bob).Conversation
	flush()

	aliceSock, bobSock := newSocket(), newSocket()
	registry.Register(f.alice, aliceSock)
	registry.Register(f.bob, bobSock)

	out, err := NewMarkReadUseCase(f.deps).Execute(ctx, MarkReadInput{UserID: f.bob, ConversationID: conv.ID})
	require.NoError(t, err)
	flush()

	frames := aliceSock.received(t)
	require.Len(t, frames, 1)
	assert.Equal(t, chat.EventReadReceipt, frames[0].Type)
	assert.Equal(t, chat.EventVersion, frames[0].Version)
	var receipt chat.ReadReceiptPayload
	require.NoError(t, json.Unmarshal(frames[0].Data, &receipt))
	assert.Equal(t, chat.ReadReceiptPayload{
		ChatID: conv.RemoteID, ParticipantID: f.codec.Encode(f.bob), ReadTime: out.LastReadTime,
	}, receipt)

	assert.Empty(t, bobSock.received(t))
}

func TestGroupCreationNoticeReachesEveryMember(t *testing.T) {
	f := newFixture(t)
	registry, flush := withDispatcher(t, f)

	members := []string{f.alice, f.bob, f.carol, f.dave}
	sockets := make(map[string]*socket, len(members))
	for _, id := range members {
		sockets[id] = newSocket()
		registry.Register(id, sockets[id])
	}

	out := f.create(t, f.alice, f.bob, f.carol, f.dave)
	flush()

	require.Len(t, out.Notifications, 2)
	assert.Equal(t, "Bob Brown, Carol Clark and Dave Dunn joined the conversation.", out.Notifications[1].Content)

	for _, id := range members {
		frames := sockets[id].received(t)
		require.Len(t, frames, 1, "member %s", id)
		assert.Equal(t, chat.EventConversationChanged, frames[0].Type)
		var payload chat.EntryIDsPayload
		require.NoError(t, json.Unmarshal(frames[0].Data, &payload))
		assert.Equal(t, out.Conversation.RemoteID, payload.ChatID)
		assert.Equal(t, []string{out.Notifications[0].RemoteID, out.Notifications[1].RemoteID}, payload.IDs)
	}
}
