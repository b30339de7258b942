package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	catalogmemory "github.com/billfinity/backoffice/internal/domains/catalog/adapters/memory"
	"github.com/billfinity/backoffice/internal/domains/orders/domain"
	"github.com/billfinity/backoffice/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order ledger. It shares item state with the
// catalog memory repository so stock checks and decrements happen inside one
// staged transaction, mirroring the row-locked path of the postgres adapter.
type Repository struct {
	catalog *catalogmemory.Repository

	mu     sync.RWMutex
	orders map[int64]*domain.Order
	nextID int64
	now    func() time.Time
}

func NewRepository(catalog *catalogmemory.Repository) *Repository {
	return &Repository{
		catalog: catalog,
		orders:  map[int64]*domain.Order{},
		now:     time.Now,
	}
}

// Create runs the atomic order unit: resolve items, check and decrement stock
// per line in submitted order, capture prices, compute the total, and insert
// the order. Any failure discards every staged stock movement.
func (r *Repository) Create(_ context.Context, customerID int64, lines []ports.LineInput) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var orderLines []domain.Line
	err := r.catalog.Transact(func(tx *catalogmemory.StockTx) error {
		// One resolution pass over the distinct ids before any movement.
		seen := map[int64]struct{}{}
		for _, line := range lines {
			if _, ok := seen[line.ItemID]; ok {
				continue
			}
			seen[line.ItemID] = struct{}{}
			if _, ok := tx.Item(line.ItemID); !ok {
				return &ports.ItemNotFoundError{ItemID: line.ItemID}
			}
		}
		for _, line := range lines {
			item, _ := tx.Item(line.ItemID)
			if item.Stock < line.Quantity {
				return &ports.InsufficientStockError{
					ItemID:    item.ID,
					SKU:       item.SKU,
					Name:      item.Name,
					Available: item.Stock,
					Requested: line.Quantity,
				}
			}
			if err := tx.Decrement(line.ItemID, line.Quantity); err != nil {
				return err
			}
			orderLines = append(orderLines, domain.Line{
				ItemID:    line.ItemID,
				Quantity:  line.Quantity,
				UnitPrice: item.Price,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.nextID++
	ts := r.now()
	order := &domain.Order{
		ID:         r.nextID,
		CustomerID: customerID,
		Status:     domain.StatusPending,
		Total:      domain.ComputeTotal(orderLines),
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	merged := domain.MergeLines(orderLines)
	for i := range merged {
		merged[i].OrderID = order.ID
	}
	order.Lines = merged
	r.orders[order.ID] = order
	return cloneOrder(order), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

// List returns orders newest first.
func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		list = append(list, cloneOrder(order))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *Repository) Complete(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if err := order.Complete(); err != nil {
		return nil, err
	}
	order.UpdatedAt = r.now()
	return cloneOrder(order), nil
}

func (r *Repository) CustomerReferenced(_ context.Context, customerID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, order := range r.orders {
		if order.CustomerID == customerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *Repository) ItemReferenced(_ context.Context, itemID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, order := range r.orders {
		for _, line := range order.Lines {
			if line.ItemID == itemID {
				return true, nil
			}
		}
	}
	return false, nil
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Lines = append([]domain.Line(nil), order.Lines...)
	return &clone
}
