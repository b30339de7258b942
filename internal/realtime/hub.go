package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

const defaultQueueSize = 64

// Sink is one subscriber's outbound half. Send must be safe to call from the
// hub's broadcast goroutine; a failed Send marks the subscriber dead.
type Sink interface {
	Send(data []byte) error
	Close() error
}

// Subscriber is a registered connection handle.
type Subscriber struct {
	id   uuid.UUID
	sink Sink
}

// Hub fans order events out to every registered subscriber. Publish is a
// non-blocking handoff onto a bounded queue; a single goroutine drains the
// queue and processes one event fully before the next, which keeps delivery
// FIFO per subscriber. Delivery is best-effort, at-most-once, no replay.
type Hub struct {
	logger *slog.Logger
	queue  chan Event

	mu   sync.Mutex
	subs map[uuid.UUID]*Subscriber
}

type HubOption func(*Hub)

// WithQueueSize overrides the bounded publish queue length.
func WithQueueSize(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.queue = make(chan Event, n)
		}
	}
}

func NewHub(logger *slog.Logger, opts ...HubOption) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Hub{
		logger: logger,
		queue:  make(chan Event, defaultQueueSize),
		subs:   map[uuid.UUID]*Subscriber{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run drains the publish queue until ctx is canceled. Call in its own
// goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-h.queue:
			h.broadcast(event)
		}
	}
}

// Subscribe registers a sink and returns its handle.
func (h *Hub) Subscribe(sink Sink) *Subscriber {
	sub := &Subscriber{id: uuid.New(), sink: sink}
	h.mu.Lock()
	h.subs[sub.id] = sub
	h.mu.Unlock()
	h.logger.Info("subscriber connected", slog.String("subscriber.id", sub.id.String()))
	return sub
}

// Unsubscribe removes a handle; unknown handles are ignored.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	_, ok := h.subs[sub.id]
	delete(h.subs, sub.id)
	h.mu.Unlock()
	if ok {
		h.logger.Info("subscriber disconnected", slog.String("subscriber.id", sub.id.String()))
	}
}

// Publish hands an event to the broadcast queue without blocking. When the
// queue is full the event is dropped: delivery is best-effort and a slow
// consumer must never delay the publisher.
func (h *Hub) Publish(event Event) {
	select {
	case h.queue <- event:
	default:
		h.logger.Warn("event queue full, dropping event", slog.String("event.type", event.Type))
	}
}

// Len reports the current number of subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// broadcast serializes once and delivers to a snapshot of the registry. A
// failed send removes that subscriber after the pass; it never stops the
// fan-out loop.
func (h *Hub) broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to serialize event", slog.String("error", err.Error()))
		return
	}

	h.mu.Lock()
	snapshot := make([]*Subscriber, 0, len(h.subs))
	for _, sub := range h.subs {
		snapshot = append(snapshot, sub)
	}
	h.mu.Unlock()

	var dead []*Subscriber
	for _, sub := range snapshot {
		if err := sub.sink.Send(data); err != nil {
			dead = append(dead, sub)
		}
	}
	for _, sub := range dead {
		h.Unsubscribe(sub)
		_ = sub.sink.Close()
	}
}
