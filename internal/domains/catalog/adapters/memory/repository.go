package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/billfinity/backoffice/internal/domains/catalog/domain"
	"github.com/billfinity/backoffice/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog persistence adapter.
type Repository struct {
	mu     sync.Mutex
	items  map[int64]*domain.Item
	nextID int64
	now    func() time.Time
}

func NewRepository() *Repository {
	return &Repository{items: map[int64]*domain.Item{}, now: time.Now}
}

// WithClock overrides the timestamp source, useful in tests.
func (r *Repository) WithClock(now func() time.Time) { r.now = now }

func (r *Repository) Save(_ context.Context, item *domain.Item) (*domain.Item, error) {
	if item == nil {
		return nil, errors.New("item is nil")
	}
	clone := cloneItem(item)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.items {
		if existing.SKU == clone.SKU && id != clone.ID {
			return nil, ports.ErrDuplicateSKU
		}
	}
	ts := r.now()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
		clone.CreatedAt = ts
	} else {
		existing, ok := r.items[clone.ID]
		if !ok {
			return nil, ports.ErrNotFound
		}
		clone.CreatedAt = existing.CreatedAt
	}
	clone.UpdatedAt = ts
	r.items[clone.ID] = clone
	return cloneItem(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneItem(item), nil
}

// List returns items newest first.
func (r *Repository) List(_ context.Context) ([]*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*domain.Item, 0, len(r.items))
	for _, item := range r.items {
		list = append(list, cloneItem(item))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *Repository) SetStock(_ context.Context, id int64, stock int) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	item.Stock = stock
	item.UpdatedAt = r.now()
	return cloneItem(item), nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// StockTx stages stock movements against the repository inside one atomic
// pass. Reads observe staged decrements, so repeated lines for the same item
// check against the already-reduced balance.
type StockTx struct {
	repo   *Repository
	staged map[int64]int
}

// Item returns a copy of the item with staged movements applied.
func (tx *StockTx) Item(id int64) (*domain.Item, bool) {
	item, ok := tx.repo.items[id]
	if !ok {
		return nil, false
	}
	clone := cloneItem(item)
	if pending, ok := tx.staged[id]; ok {
		clone.Stock = pending
	}
	return clone, true
}

// Decrement stages a stock reduction; it never lets stock go negative.
func (tx *StockTx) Decrement(id int64, qty int) error {
	item, ok := tx.Item(id)
	if !ok {
		return ports.ErrNotFound
	}
	if item.Stock < qty {
		return errors.New("insufficient stock")
	}
	tx.staged[id] = item.Stock - qty
	return nil
}

// Transact runs fn while holding the repository lock. Staged stock movements
// are applied only when fn returns nil; any error discards them all.
func (r *Repository) Transact(fn func(tx *StockTx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx := &StockTx{repo: r, staged: map[int64]int{}}
	if err := fn(tx); err != nil {
		return err
	}
	ts := r.now()
	for id, stock := range tx.staged {
		r.items[id].Stock = stock
		r.items[id].UpdatedAt = ts
	}
	return nil
}

func cloneItem(item *domain.Item) *domain.Item {
	clone := *item
	clone.Components = append([]domain.ComboComponent(nil), item.Components...)
	return &clone
}
