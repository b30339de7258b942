package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/billfinity/backoffice/internal/domains/orders/domain"
)

var (
	ErrNotFound         = errors.New("order not found")
	ErrCustomerNotFound = errors.New("customer not found")
)

// ItemNotFoundError names the catalog id missing from an order request.
type ItemNotFoundError struct {
	ItemID int64
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item id %d not found", e.ItemID)
}

// InsufficientStockError names the item whose stock cannot cover a requested
// line, along with the shortfall.
type InsufficientStockError struct {
	ItemID    int64
	SKU       string
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %s (SKU: %s): have %d, want %d",
		e.Name, e.SKU, e.Available, e.Requested)
}

// LineInput is one requested order line. Duplicate item ids stay independent
// lines; the repository checks each against the balance left by the previous
// ones inside the same transaction.
type LineInput struct {
	ItemID   int64
	Quantity int
}

// Repository persists orders. Create is the atomic unit of work: it resolves
// every referenced item, checks and decrements stock per line in submitted
// order, captures unit prices, computes the total, and inserts the order with
// its lines; either everything commits or nothing does.
type Repository interface {
	Create(ctx context.Context, customerID int64, lines []LineInput) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	Complete(ctx context.Context, id int64) (*domain.Order, error)
	CustomerReferenced(ctx context.Context, customerID int64) (bool, error)
	ItemReferenced(ctx context.Context, itemID int64) (bool, error)
}
