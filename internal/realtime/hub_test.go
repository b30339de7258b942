package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	mu       sync.Mutex
	messages [][]byte
	fail     bool
	closed   bool
}

func (s *captureSink) Send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("broken pipe")
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	s.messages = append(s.messages, buf)
	return nil
}

func (s *captureSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *captureSink) received() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.messages))
	copy(out, s.messages)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestHubFanOut(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	first := &captureSink{}
	second := &captureSink{}
	hub.Subscribe(first)
	hub.Subscribe(second)

	hub.Publish(Event{Type: EventTypeOrderUpdate, Data: OrderUpdateData{OrderID: 7, Total: "15.00", Status: "pending"}})

	waitFor(t, func() bool { return len(first.received()) == 1 && len(second.received()) == 1 })

	var envelope struct {
		Type string `json:"type"`
		Data struct {
			OrderID int64  `json:"order_id"`
			Total   string `json:"total"`
			Status  string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(first.received()[0], &envelope))
	assert.Equal(t, "order_update", envelope.Type)
	assert.Equal(t, int64(7), envelope.Data.OrderID)
	assert.Equal(t, "15.00", envelope.Data.Total)
}

func TestHubPrunesDeadSubscribers(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	healthy := &captureSink{}
	broken := &captureSink{fail: true}
	hub.Subscribe(healthy)
	hub.Subscribe(broken)

	hub.Publish(Event{Type: EventTypeOrderUpdate})

	waitFor(t, func() bool { return hub.Len() == 1 })
	waitFor(t, func() bool { return len(healthy.received()) == 1 })

	// A second publish still reaches the surviving subscriber.
	hub.Publish(Event{Type: EventTypeOrderUpdate})
	waitFor(t, func() bool { return len(healthy.received()) == 2 })

	broken.mu.Lock()
	closed := broken.closed
	broken.mu.Unlock()
	assert.True(t, closed)
}

func TestHubDeliversInOrder(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	sink := &captureSink{}
	hub.Subscribe(sink)

	for i := 1; i <= 5; i++ {
		hub.Publish(Event{Type: EventTypeOrderUpdate, Data: OrderUpdateData{OrderID: int64(i)}})
	}

	waitFor(t, func() bool { return len(sink.received()) == 5 })

	for i, raw := range sink.received() {
		var envelope struct {
			Data struct {
				OrderID int64 `json:"order_id"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &envelope))
		assert.Equal(t, int64(i+1), envelope.Data.OrderID)
	}
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	sink := &captureSink{}
	sub := hub.Subscribe(sink)
	require.Equal(t, 1, hub.Len())

	hub.Unsubscribe(sub)
	assert.Equal(t, 0, hub.Len())

	hub.Publish(Event{Type: EventTypeOrderUpdate})
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, sink.received())
}
