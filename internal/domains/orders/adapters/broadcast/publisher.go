// Package broadcast delivers order events to connected websocket clients and,
// when a broker is configured, mirrors them onto RabbitMQ. Delivery is
// best-effort: a failed publish is logged and never fails the order.
package broadcast

import (
	"context"
	"log/slog"
	"time"

	"github.com/billfinity/backoffice/internal/domains/orders/ports"
	"github.com/billfinity/backoffice/internal/realtime"
)

const routingKeyOrderUpdate = "orders.update"

// BrokerPublisher is the outbound broker half. Implemented by
// messaging.Client.
type BrokerPublisher interface {
	Publish(routingKey string, payload any) error
	IsConnected() bool
}

type Publisher struct {
	hub    *realtime.Hub
	broker BrokerPublisher
	logger *slog.Logger
}

var _ ports.EventPublisher = (*Publisher)(nil)

type Option func(*Publisher)

// WithBroker mirrors every event onto the given broker in addition to the
// websocket hub.
func WithBroker(broker BrokerPublisher) Option {
	return func(p *Publisher) {
		p.broker = broker
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func NewPublisher(hub *realtime.Hub, opts ...Option) *Publisher {
	p := &Publisher{hub: hub, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) PublishOrderUpdate(ctx context.Context, event ports.OrderEvent) error {
	payload := realtime.Event{
		Type: realtime.EventTypeOrderUpdate,
		Data: realtime.OrderUpdateData{
			OrderID:    event.OrderID,
			CustomerID: event.CustomerID,
			Total:      event.Total,
			Status:     event.Status,
			CreatedAt:  event.CreatedAt.Format(time.RFC3339),
		},
	}

	p.hub.Publish(payload)

	if p.broker != nil && p.broker.IsConnected() {
		if err := p.broker.Publish(routingKeyOrderUpdate, payload); err != nil {
			p.logger.WarnContext(ctx, "failed to publish order event to broker",
				slog.Int64("order.id", event.OrderID),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}
