package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/billfinity/backoffice/internal/domains/orders/domain"
	"github.com/billfinity/backoffice/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists the order ledger in PostgreSQL using GORM. Create runs
// the whole order unit inside one transaction with the touched item rows
// locked, so two concurrent orders cannot both claim the same stock.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID         int64           `gorm:"primaryKey;column:id"`
	CustomerID int64           `gorm:"column:customer_id;index"`
	Total      decimal.Decimal `gorm:"column:total;type:numeric(12,2)"`
	Status     string          `gorm:"column:status;type:varchar(32);index"`
	CreatedAt  time.Time       `gorm:"column:created_at;index"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderLineRecord struct {
	OrderID   int64           `gorm:"primaryKey;column:order_id"`
	ItemID    int64           `gorm:"primaryKey;column:item_id"`
	Position  int             `gorm:"column:position"`
	Quantity  int             `gorm:"column:qty"`
	UnitPrice decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
}

func (orderLineRecord) TableName() string { return "order_items" }

// itemRow is the slice of the items table the order transaction touches.
type itemRow struct {
	ID    int64           `gorm:"primaryKey;column:id"`
	Name  string          `gorm:"column:name"`
	SKU   string          `gorm:"column:sku"`
	Price decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Stock int             `gorm:"column:stock"`
}

func (itemRow) TableName() string { return "items" }

// Create implements the atomic order unit of work.
func (r *Repository) Create(ctx context.Context, customerID int64, lines []ports.LineInput) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var orderID int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		distinct := make([]int64, 0, len(lines))
		seen := map[int64]struct{}{}
		for _, line := range lines {
			if _, ok := seen[line.ItemID]; ok {
				continue
			}
			seen[line.ItemID] = struct{}{}
			distinct = append(distinct, line.ItemID)
		}

		// Lock every referenced item row for the duration of the transaction.
		var rows []itemRow
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Find(&rows, "id IN ?", distinct).Error; err != nil {
			return err
		}
		items := make(map[int64]*itemRow, len(rows))
		for i := range rows {
			items[rows[i].ID] = &rows[i]
		}
		for _, id := range distinct {
			if _, ok := items[id]; !ok {
				return &ports.ItemNotFoundError{ItemID: id}
			}
		}

		// Process lines in submitted order against the locked snapshot.
		orderLines := make([]domain.Line, 0, len(lines))
		for _, line := range lines {
			item := items[line.ItemID]
			if item.Stock < line.Quantity {
				return &ports.InsufficientStockError{
					ItemID:    item.ID,
					SKU:       item.SKU,
					Name:      item.Name,
					Available: item.Stock,
					Requested: line.Quantity,
				}
			}
			item.Stock -= line.Quantity
			orderLines = append(orderLines, domain.Line{
				ItemID:    line.ItemID,
				Quantity:  line.Quantity,
				UnitPrice: item.Price,
			})
		}

		record := orderRecord{
			CustomerID: customerID,
			Total:      domain.ComputeTotal(orderLines),
			Status:     string(domain.StatusPending),
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		orderID = record.ID

		for i, line := range domain.MergeLines(orderLines) {
			lineRecord := orderLineRecord{
				OrderID:   record.ID,
				ItemID:    line.ItemID,
				Position:  i,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
			}
			if err := tx.Create(&lineRecord).Error; err != nil {
				return err
			}
		}
		for _, item := range items {
			if err := tx.Model(&itemRow{}).Where("id = ?", item.ID).
				Update("stock", item.Stock).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	lines, err := r.linesFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return record.toDomain(lines), nil
}

// List returns orders newest first with their lines.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		lines, err := r.linesFor(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		orders = append(orders, records[i].toDomain(lines))
	}
	return orders, nil
}

func (r *Repository) Complete(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record orderRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		if record.Status != string(domain.StatusPending) {
			return domain.ErrNotPending
		}
		return tx.Model(&orderRecord{}).Where("id = ?", id).
			Update("status", string(domain.StatusCompleted)).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) CustomerReferenced(ctx context.Context, customerID int64) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("customer_id = ?", customerID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ItemReferenced(ctx context.Context, itemID int64) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&orderLineRecord{}).
		Where("item_id = ?", itemID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) linesFor(ctx context.Context, orderID int64) ([]domain.Line, error) {
	var records []orderLineRecord
	if err := r.db.WithContext(ctx).Order("position ASC").
		Find(&records, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	lines := make([]domain.Line, 0, len(records))
	for _, rec := range records {
		lines = append(lines, domain.Line{
			OrderID:   rec.OrderID,
			ItemID:    rec.ItemID,
			Quantity:  rec.Quantity,
			UnitPrice: rec.UnitPrice,
		})
	}
	return lines, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func (r orderRecord) toDomain(lines []domain.Line) *domain.Order {
	return &domain.Order{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		Total:      r.Total,
		Status:     domain.Status(r.Status),
		Lines:      lines,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
