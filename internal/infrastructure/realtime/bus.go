package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"go-convo/internal/infrastructure/logger"
	chat "go-convo/internal/pkg/chat/application/domain"
)

// Envelope carries an event between nodes.
type Envelope struct {
	Origin     string          `json:"origin"`
	Kind       chat.EventKind  `json:"kind"`
	Recipients []string        `json:"recipients"`
	Data       json.RawMessage `json:"data"`
}

// Bus relays events to the other nodes of the deployment.
type Bus interface {
	Publish(ctx context.Context, env Envelope) error
	// StartForwarder subscribes and calls onMsg for every relayed envelope until ctx is done.
	StartForwarder(ctx context.Context, onMsg func(Envelope)) error
	Close() error
}

type redisBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// NewRedisBus relays over Redis pub/sub on channel. The client is shared and not closed by the bus.
func NewRedisBus(rdb *goredis.Client, channel string, log *logger.Logger) (Bus, error) {
	if rdb == nil {
		return nil, fmt.Errorf("realtime: redis client required")
	}
	if channel == "" {
		channel = "chat-events"
	}
	return &redisBus{log: log.With("service", "RedisEventBus"), rdb: rdb, channel: channel}, nil
}

func (b *redisBus) Publish(ctx context.Context, env Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *redisBus) StartForwarder(ctx context.Context, onMsg func(Envelope)) error {
	if onMsg == nil {
		return fmt.Errorf("realtime: onMsg callback required")
	}
	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("realtime: redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var env Envelope
				if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
					b.log.Warn("bad relayed event", "error", err)
					continue
				}
				onMsg(env)
			}
		}
	}()
	return nil
}

func (b *redisBus) Close() error { return nil }
