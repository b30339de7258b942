package ports

import (
	"context"
	"time"
)

// OrderEvent is the change notification emitted after a successful commit.
// Total is a decimal string so no precision is lost on the wire.
type OrderEvent struct {
	OrderID    int64
	CustomerID int64
	Total      string
	Status     string
	CreatedAt  time.Time
}

// EventPublisher delivers order events to interested parties. Delivery is
// best-effort: implementations must never block the caller beyond a bounded
// handoff and must swallow delivery failures.
type EventPublisher interface {
	PublishOrderUpdate(ctx context.Context, event OrderEvent) error
}
