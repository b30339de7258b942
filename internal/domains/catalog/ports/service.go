package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/billfinity/backoffice/internal/domains/catalog/domain"
)

// UpdateItemInput carries a partial item update. Nil fields are left untouched.
type UpdateItemInput struct {
	Name         *string
	SKU          *string
	Category     *string
	Price        *decimal.Decimal
	Stock        *int
	ReorderPoint *int
}

// Service exposes catalog use cases to adapters.
type Service interface {
	CreateItem(ctx context.Context, item *domain.Item) (*domain.Item, error)
	GetItem(ctx context.Context, id int64) (*domain.Item, error)
	ListItems(ctx context.Context) ([]*domain.Item, error)
	UpdateItem(ctx context.Context, id int64, input UpdateItemInput) (*domain.Item, error)
	SetStock(ctx context.Context, id int64, stock int) (*domain.Item, error)
	DeleteItem(ctx context.Context, id int64, actor string) error
}
