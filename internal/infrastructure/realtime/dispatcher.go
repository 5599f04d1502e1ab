package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go-convo/internal/infrastructure/logger"
	chat "go-convo/internal/pkg/chat/application/domain"
)

const (
	defaultQueueSize = 1024
	relayTimeout     = 2 * time.Second
)

// Dispatcher decouples event producers from delivery. Publish never blocks;
// a single loop drains the queue so every channel sees events in generation order.
// Relays to other nodes go through their own queue and goroutine, so a slow bus
// never holds up local delivery.
type Dispatcher struct {
	registry *Registry
	bus      Bus
	nodeID   string
	queue    chan chat.Event
	relay    chan Envelope
	log      *logger.Logger
	done     chan struct{}
}

type DispatcherOption func(*Dispatcher)

// WithBus relays every event to other nodes, tagged with nodeID.
func WithBus(bus Bus, nodeID string) DispatcherOption {
	return func(d *Dispatcher) {
		d.bus = bus
		d.nodeID = nodeID
	}
}

func WithQueueSize(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queue = make(chan chat.Event, n)
			d.relay = make(chan Envelope, n)
		}
	}
}

func NewDispatcher(registry *Registry, log *logger.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		queue:    make(chan chat.Event, defaultQueueSize),
		relay:    make(chan Envelope, defaultQueueSize),
		log:      log,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Publish enqueues e. When the queue is full the event is dropped and logged.
func (d *Dispatcher) Publish(e chat.Event) {
	if len(e.Recipients) == 0 {
		return
	}
	select {
	case d.queue <- e:
	default:
		d.log.Warn("realtime queue full, dropping event", "kind", e.Kind, "recipients", len(e.Recipients))
	}
}

// Run delivers queued events until ctx is done. When a bus is configured it also
// forwards events relayed by other nodes.
func (d *Dispatcher) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	defer func() {
		wg.Wait()
		close(d.done)
	}()
	if d.bus != nil {
		if err := d.bus.StartForwarder(ctx, d.deliverRelayed); err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.relayLoop(ctx)
		}()
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-d.queue:
			d.dispatch(ctx, e)
		}
	}
}

// Done is closed when Run returns.
func (d *Dispatcher) Done() <-chan struct{} { return d.done }

func (d *Dispatcher) dispatch(ctx context.Context, e chat.Event) {
	data, err := json.Marshal(e.Payload)
	if err != nil {
		d.log.Error("encode event payload", "kind", e.Kind, "error", err)
		return
	}
	n := d.registry.Publish(e.Recipients, e.Kind, json.RawMessage(data))
	d.log.Debug("event delivered", "kind", e.Kind, "channels", n)

	if d.bus == nil {
		return
	}
	select {
	case d.relay <- Envelope{Origin: d.nodeID, Kind: e.Kind, Recipients: e.Recipients, Data: data}:
	default:
		d.log.Warn("relay queue full, dropping event", "kind", e.Kind)
	}
}

func (d *Dispatcher) relayLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-d.relay:
			relayCtx, cancel := context.WithTimeout(ctx, relayTimeout)
			if err := d.bus.Publish(relayCtx, env); err != nil {
				d.log.Warn("relay event failed", "kind", env.Kind, "error", err)
			}
			cancel()
		}
	}
}

func (d *Dispatcher) deliverRelayed(env Envelope) {
	if env.Origin == d.nodeID {
		return
	}
	d.registry.Publish(env.Recipients, env.Kind, env.Data)
}
