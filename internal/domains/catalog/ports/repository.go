package ports

import (
	"context"
	"errors"

	"github.com/billfinity/backoffice/internal/domains/catalog/domain"
)

var (
	ErrNotFound     = errors.New("item not found")
	ErrDuplicateSKU = errors.New("sku already exists")
)

// Repository persists catalog items. Save enforces SKU uniqueness and returns
// ErrDuplicateSKU when another item already claims the SKU.
type Repository interface {
	Save(ctx context.Context, item *domain.Item) (*domain.Item, error)
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	List(ctx context.Context) ([]*domain.Item, error)
	SetStock(ctx context.Context, id int64, stock int) (*domain.Item, error)
	Delete(ctx context.Context, id int64) error
}
