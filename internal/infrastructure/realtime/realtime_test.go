package realtime

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"testing"
	"time"

	"go-convo/internal/infrastructure/logger"
	chat "go-convo/internal/pkg/chat/application/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	id     string
	frames chan []byte
	mu     sync.Mutex
	closed bool
}

func newFakeChannel(buffer int) *fakeChannel {
	return &fakeChannel{id: uuid.NewString(), frames: make(chan []byte, buffer)}
}

func (f *fakeChannel) ID() string { return f.id }

func (f *fakeChannel) Send(frame []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrChannelClosed
	}
	select {
	case f.frames <- frame:
		return nil
	default:
		return ErrBufferFull
	}
}

func (f *fakeChannel) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeChannel) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func recvFrame(t *testing.T, ch *fakeChannel, timeout time.Duration) Frame {
	t.Helper()
	select {
	case raw := <-ch.frames:
		var f Frame
		require.NoError(t, json.Unmarshal(raw, &f))
		return f
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for frame on %s", ch.id)
	}
	return Frame{}
}

func TestRegistryDeliversToEveryChannelOfEveryUser(t *testing.T) {
	reg := NewRegistry(logger.Nop())
	a1, a2, b := newFakeChannel(4), newFakeChannel(4), newFakeChannel(4)
	reg.Register("alice", a1)
	reg.Register("alice", a2)
	reg.Register("bob", b)

	n := reg.Publish([]string{"alice", "bob", "carol"}, chat.EventNewMessage, chat.EntryIDsPayload{ChatID: "c", IDs: []string{"m"}})
	assert.Equal(t, 3, n)

	for _, ch := range []*fakeChannel{a1, a2, b} {
		f := recvFrame(t, ch, time.Second)
		assert.Equal(t, chat.EventNewMessage, f.Type)
		assert.Equal(t, chat.EventVersion, f.Version)
	}
}

func TestRegistryDeregisterIsIdempotent(t *testing.T) {
	reg := NewRegistry(logger.Nop())
	ch := newFakeChannel(1)
	reg.Register("alice", ch)
	reg.Deregister(ch)
	reg.Deregister(ch)

	assert.Equal(t, 0, reg.Channels("alice"))
	assert.Equal(t, 0, reg.Publish([]string{"alice"}, chat.EventNewMessage, nil))
}

func TestRegistryDropsFailingChannelWithoutAffectingOthers(t *testing.T) {
	reg := NewRegistry(logger.Nop())
	full, ok := newFakeChannel(0), newFakeChannel(1)
	reg.Register("alice", full)
	reg.Register("alice", ok)

	n := reg.Publish([]string{"alice"}, chat.EventReadReceipt, nil)
	assert.Equal(t, 1, n)
	assert.True(t, full.isClosed())
	assert.Equal(t, 1, reg.Channels("alice"))
	recvFrame(t, ok, time.Second)
}

func TestDispatcherKeepsGenerationOrder(t *testing.T) {
	reg := NewRegistry(logger.Nop())
	ch := newFakeChannel(64)
	reg.Register("alice", ch)
	d := NewDispatcher(reg, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	for i := 0; i < 20; i++ {
		d.Publish(chat.Event{Kind: chat.EventNewMessage, Recipients: []string{"alice"},
			Payload: chat.EntryIDsPayload{ChatID: "c", IDs: []string{strconv.Itoa(i)}}})
	}
	for i := 0; i < 20; i++ {
		f := recvFrame(t, ch, time.Second)
		data, err := json.Marshal(f.Data)
		require.NoError(t, err)
		var p chat.EntryIDsPayload
		require.NoError(t, json.Unmarshal(data, &p))
		assert.Equal(t, []string{strconv.Itoa(i)}, p.IDs)
	}
}

func TestDispatcherOrderAcrossEvents(t *testing.T) {
	reg := NewRegistry(logger.Nop())
	ch := newFakeChannel(8)
	reg.Register("bob", ch)
	d := NewDispatcher(reg, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	d.Publish(chat.Event{Kind: chat.EventConversationChanged, Recipients: []string{"bob"}})
	d.Publish(chat.Event{Kind: chat.EventNewMessage, Recipients: []string{"bob"}})
	d.Publish(chat.Event{Kind: chat.EventReadReceipt, Recipients: []string{"bob"}})

	assert.Equal(t, chat.EventConversationChanged, recvFrame(t, ch, time.Second).Type)
	assert.Equal(t, chat.EventNewMessage, recvFrame(t, ch, time.Second).Type)
	assert.Equal(t, chat.EventReadReceipt, recvFrame(t, ch, time.Second).Type)
}

func TestDispatcherPublishNeverBlocks(t *testing.T) {
	d := NewDispatcher(NewRegistry(logger.Nop()), logger.Nop(), WithQueueSize(1))
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.Publish(chat.Event{Kind: chat.EventNewMessage, Recipients: []string{"x"}})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}

type memoryBus struct {
	mu        sync.Mutex
	published []Envelope
}

func (b *memoryBus) Publish(_ context.Context, env Envelope) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, env)
	return nil
}

func (b *memoryBus) StartForwarder(context.Context, func(Envelope)) error { return nil }
func (b *memoryBus) Close() error                                         { return nil }

func (b *memoryBus) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.published)
}

func TestDispatcherRelaysAndIgnoresOwnEcho(t *testing.T) {
	reg := NewRegistry(logger.Nop())
	ch := newFakeChannel(4)
	reg.Register("alice", ch)
	bus := &memoryBus{}
	d := NewDispatcher(reg, logger.Nop(), WithBus(bus, "node-a"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	d.Publish(chat.Event{Kind: chat.EventNewMessage, Recipients: []string{"alice"}, Payload: chat.EntryIDsPayload{ChatID: "c"}})
	recvFrame(t, ch, time.Second)
	require.Eventually(t, func() bool { return bus.count() == 1 }, time.Second, 10*time.Millisecond)

	d.deliverRelayed(Envelope{Origin: "node-a", Kind: chat.EventNewMessage, Recipients: []string{"alice"}, Data: json.RawMessage(`{}`)})
	select {
	case <-ch.frames:
		t.Fatal("own relay must be ignored")
	case <-time.After(50 * time.Millisecond):
	}

	d.deliverRelayed(Envelope{Origin: "node-b", Kind: chat.EventReadReceipt, Recipients: []string{"alice"}, Data: json.RawMessage(`{"chatId":"c"}`)})
	f := recvFrame(t, ch, time.Second)
	assert.Equal(t, chat.EventReadReceipt, f.Type)
	assert.Equal(t, map[string]any{"chatId": "c"}, f.Data)
}

type stalledBus struct {
	calls chan struct{}
}

func (b *stalledBus) Publish(ctx context.Context, _ Envelope) error {
	b.calls <- struct{}{}
	<-ctx.Done()
	return ctx.Err()
}

func (b *stalledBus) StartForwarder(context.Context, func(Envelope)) error { return nil }
func (b *stalledBus) Close() error                                         { return nil }

func TestDispatcherLocalDeliveryDoesNotWaitForRelay(t *testing.T) {
	reg := NewRegistry(logger.Nop())
	alice, bob := newFakeChannel(4), newFakeChannel(4)
	reg.Register("alice", alice)
	reg.Register("bob", bob)
	bus := &stalledBus{calls: make(chan struct{}, 4)}
	d := NewDispatcher(reg, logger.Nop(), WithBus(bus, "node-a"))

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = d.Run(ctx) }()

	d.Publish(chat.Event{Kind: chat.EventNewMessage, Recipients: []string{"alice"}, Payload: chat.EntryIDsPayload{ChatID: "c1"}})
	recvFrame(t, alice, time.Second)
	select {
	case <-bus.calls:
	case <-time.After(time.Second):
		t.Fatal("event was not relayed")
	}

	// the relay of the first event is still hanging
	start := time.Now()
	d.Publish(chat.Event{Kind: chat.EventNewMessage, Recipients: []string{"bob"}, Payload: chat.EntryIDsPayload{ChatID: "c2"}})
	recvFrame(t, bob, time.Second)
	assert.Less(t, time.Since(start), relayTimeout/2)

	cancel()
	select {
	case <-d.Done():
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop")
	}
}
