package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/billfinity/backoffice/internal/domains/catalog/domain"
	"github.com/billfinity/backoffice/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists catalog items in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed catalog repository. Caller manages
// the DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type itemRecord struct {
	ID           int64           `gorm:"primaryKey;column:id"`
	Name         string          `gorm:"column:name;size:200"`
	SKU          string          `gorm:"column:sku;size:100;uniqueIndex:uq_item_sku"`
	Category     string          `gorm:"column:category;size:100"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Stock        int             `gorm:"column:stock"`
	ReorderPoint int             `gorm:"column:reorder_point"`
	GSTRate      int             `gorm:"column:gst_rate"`
	CreatedAt    time.Time       `gorm:"column:created_at;index"`
	UpdatedAt    time.Time       `gorm:"column:updated_at"`
}

func (itemRecord) TableName() string { return "items" }

type comboComponentRecord struct {
	ComboItemID     int64 `gorm:"primaryKey;column:combo_item_id"`
	ComponentItemID int64 `gorm:"primaryKey;column:component_item_id"`
	Quantity        int   `gorm:"column:qty"`
}

func (comboComponentRecord) TableName() string { return "item_combo_components" }

// Save inserts a new item or updates an existing one, replacing its combo
// components. SKU uniqueness violations surface as ports.ErrDuplicateSKU.
func (r *Repository) Save(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.New("item is nil")
	}
	record := toItemRecord(item)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var clash int64
		if err := tx.Model(&itemRecord{}).
			Where("sku = ? AND id <> ?", record.SKU, record.ID).
			Count(&clash).Error; err != nil {
			return err
		}
		if clash > 0 {
			return ports.ErrDuplicateSKU
		}
		if record.ID == 0 {
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		} else {
			result := tx.Model(&itemRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
				"name":          record.Name,
				"sku":           record.SKU,
				"category":      record.Category,
				"price":         record.Price,
				"stock":         record.Stock,
				"reorder_point": record.ReorderPoint,
				"gst_rate":      record.GSTRate,
			})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ports.ErrNotFound
			}
		}
		if err := tx.Where("combo_item_id = ?", record.ID).Delete(&comboComponentRecord{}).Error; err != nil {
			return err
		}
		for _, c := range item.Components {
			comp := comboComponentRecord{ComboItemID: record.ID, ComponentItemID: c.ItemID, Quantity: c.Quantity}
			if err := tx.Create(&comp).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record itemRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	var components []comboComponentRecord
	if err := r.db.WithContext(ctx).Find(&components, "combo_item_id = ?", id).Error; err != nil {
		return nil, err
	}
	return record.toDomain(components), nil
}

// List returns all items, newest first.
func (r *Repository) List(ctx context.Context) ([]*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []itemRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	items := make([]*domain.Item, 0, len(records))
	for i := range records {
		var components []comboComponentRecord
		if err := r.db.WithContext(ctx).Find(&components, "combo_item_id = ?", records[i].ID).Error; err != nil {
			return nil, err
		}
		items = append(items, records[i].toDomain(components))
	}
	return items, nil
}

func (r *Repository) SetStock(ctx context.Context, id int64, stock int) (*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Model(&itemRecord{}).Where("id = ?", id).Update("stock", stock)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("combo_item_id = ?", id).Delete(&comboComponentRecord{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&itemRecord{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toItemRecord(item *domain.Item) itemRecord {
	return itemRecord{
		ID:           item.ID,
		Name:         item.Name,
		SKU:          item.SKU,
		Category:     item.Category,
		Price:        item.Price,
		Stock:        item.Stock,
		ReorderPoint: item.ReorderPoint,
		GSTRate:      item.GSTRate,
	}
}

func (r itemRecord) toDomain(components []comboComponentRecord) *domain.Item {
	item := &domain.Item{
		ID:           r.ID,
		Name:         r.Name,
		SKU:          r.SKU,
		Category:     r.Category,
		Price:        r.Price,
		Stock:        r.Stock,
		ReorderPoint: r.ReorderPoint,
		GSTRate:      r.GSTRate,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	for _, c := range components {
		item.Components = append(item.Components, domain.ComboComponent{ItemID: c.ComponentItemID, Quantity: c.Quantity})
	}
	return item
}
