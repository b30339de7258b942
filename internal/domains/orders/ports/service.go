package ports

import (
	"context"

	"github.com/billfinity/backoffice/internal/domains/orders/domain"
)

// CreateOrderInput is the inbound order request.
type CreateOrderInput struct {
	CustomerID int64
	Lines      []LineInput
}

// CustomerDirectory is the read-only view of the customer store the order
// engine needs.
type CustomerDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service exposes order use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	CompleteOrder(ctx context.Context, id int64) (*domain.Order, error)
}
