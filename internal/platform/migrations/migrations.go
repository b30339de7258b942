package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&itemRecord{},
		&comboComponentRecord{},
		&customerRecord{},
		&orderRecord{},
		&orderLineRecord{},
		&userRecord{},
		&settingsRecord{},
	)
}

// Item schema mirrors the catalog Postgres adapter.
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

// Customer schema mirrors the customers Postgres adapter.
type customerRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	Name        string    `gorm:"column:name;size:120"`
	Email       string    `gorm:"column:email;size:255;index"`
	Phone       string    `gorm:"column:phone;size:50"`
	GSTIN       string    `gorm:"column:gstin;size:32"`
	CompanyName string    `gorm:"column:company_name;size:255"`
	Address     string    `gorm:"column:address;size:500"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (customerRecord) TableName() string { return "customers" }

// Order schema mirrors the orders Postgres adapter.
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

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	Name         string    `gorm:"column:name;size:120"`
	Email        string    `gorm:"column:email;size:255;uniqueIndex"`
	Role         string    `gorm:"column:role;size:50"`
	PasswordHash string    `gorm:"column:password_hash;size:255"`
	IsActive     bool      `gorm:"column:is_active"`
	CreatedAt    time.Time `gorm:"column:created_at;index"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Settings schema mirrors the settings Postgres adapter.
type settingsRecord struct {
	ID                int64     `gorm:"primaryKey;column:id"`
	CompanyName       string    `gorm:"column:company_name;size:255"`
	Address           string    `gorm:"column:address;size:1000"`
	Currency          string    `gorm:"column:currency;size:10"`
	EmailUpdates      bool      `gorm:"column:email_updates"`
	SMSAlerts         bool      `gorm:"column:sms_alerts"`
	LowStockReminders bool      `gorm:"column:low_stock_reminders"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (settingsRecord) TableName() string { return "settings" }
