package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/billfinity/backoffice/internal/domains/catalog/domain"
	"github.com/billfinity/backoffice/internal/domains/catalog/ports"
)

// ErrItemReferenced signals the item cannot be deleted while order lines
// reference it.
var ErrItemReferenced = errors.New("item is referenced by existing orders")

// OrderReferences answers whether the order ledger still references an item.
type OrderReferences interface {
	ItemReferenced(ctx context.Context, itemID int64) (bool, error)
}

// Service orchestrates catalog use cases.
type Service struct {
	repo   ports.Repository
	orders OrderReferences
	logger *slog.Logger
}

func NewService(repo ports.Repository, orders OrderReferences, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, orders: orders, logger: logger}
}

// CreateItem validates and persists a new catalog item. The GST rate is not
// client-settable and always starts at the default slab.
func (s *Service) CreateItem(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if item == nil {
		return nil, errors.New("item is nil")
	}
	item.ID = 0
	item.GSTRate = domain.DefaultGSTRate
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, item)
}

func (s *Service) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListItems(ctx context.Context) ([]*domain.Item, error) {
	return s.repo.List(ctx)
}

// UpdateItem applies a partial update, re-validating the result.
func (s *Service) UpdateItem(ctx context.Context, id int64, input ports.UpdateItemInput) (*domain.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.SKU != nil {
		item.SKU = *input.SKU
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.Price != nil {
		item.Price = *input.Price
	}
	if input.Stock != nil {
		item.Stock = *input.Stock
	}
	if input.ReorderPoint != nil {
		item.ReorderPoint = *input.ReorderPoint
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, item)
}

// SetStock overwrites the stock count of one item.
func (s *Service) SetStock(ctx context.Context, id int64, stock int) (*domain.Item, error) {
	if stock < 0 {
		return nil, domain.ErrNegativeStock
	}
	return s.repo.SetStock(ctx, id, stock)
}

// DeleteItem removes an item unless order lines still reference it. Deletions
// are audit-logged with the acting user.
func (s *Service) DeleteItem(ctx context.Context, id int64, actor string) error {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s.orders != nil {
		referenced, err := s.orders.ItemReferenced(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return ErrItemReferenced
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("item deleted",
		slog.Int64("item.id", id),
		slog.String("item.sku", item.SKU),
		slog.String("item.name", item.Name),
		slog.String("actor", actor),
	)
	return nil
}

var _ ports.Service = (*Service)(nil)
