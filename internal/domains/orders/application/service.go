package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/billfinity/backoffice/internal/domains/orders/domain"
	"github.com/billfinity/backoffice/internal/domains/orders/ports"
)

// Service is the order transaction engine. It validates an order request,
// delegates the atomic stock-and-persist unit to the repository, and emits a
// change event after a successful commit.
type Service struct {
	repo      ports.Repository
	customers ports.CustomerDirectory
	publisher ports.EventPublisher
}

func NewService(repo ports.Repository, customers ports.CustomerDirectory, publisher ports.EventPublisher) *Service {
	return &Service{repo: repo, customers: customers, publisher: publisher}
}

// CreateOrder runs the order transaction. The caller either gets the fully
// persisted order or a specific rejection; it never observes a half-created
// order. Broadcast outcome does not affect the result: once committed, the
// order stands.
func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	if len(input.Lines) == 0 {
		return nil, mapError(domain.ErrNoLines)
	}
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, mapError(domain.ErrInvalidQuantity)
		}
	}
	exists, err := s.customers.Exists(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ports.ErrCustomerNotFound
	}

	order, err := s.repo.Create(ctx, input.CustomerID, input.Lines)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		// Broadcast failures never affect the committed order.
		_ = s.publisher.PublishOrderUpdate(ctx, ports.OrderEvent{
			OrderID:    order.ID,
			CustomerID: order.CustomerID,
			Total:      order.Total.StringFixed(2),
			Status:     string(order.Status),
			CreatedAt:  order.CreatedAt,
		})
	}
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// ListOrders returns the ledger, newest first.
func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

// CompleteOrder performs the one-way pending to completed transition.
func (s *Service) CompleteOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.Complete(ctx, id)
}

var _ ports.Service = (*Service)(nil)

// ErrInvalidInput signals the request violated an order invariant.
var ErrInvalidInput = errors.New("invalid order input")

func mapError(err error) error {
	if errors.Is(err, domain.ErrNoLines) || errors.Is(err, domain.ErrInvalidQuantity) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
