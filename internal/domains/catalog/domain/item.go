package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultGSTRate is applied to newly created items. Rates follow the GST
// slabs: 0, 5, 12, 18, 28 percent.
const DefaultGSTRate = 18

var (
	ErrEmptyName           = errors.New("item name is required")
	ErrEmptySKU            = errors.New("item sku is required")
	ErrNegativePrice       = errors.New("item price must not be negative")
	ErrNegativeStock       = errors.New("item stock must not be negative")
	ErrInvalidGSTRate      = errors.New("gst rate must be one of 0, 5, 12, 18, 28")
	ErrInvalidComponentQty = errors.New("combo component quantity must be greater than zero")
)

// ComboComponent declares one constituent of a combo item.
type ComboComponent struct {
	ItemID   int64
	Quantity int
}

// Item is a catalog entry. An item carrying combo components is a virtual
// bundle of other items.
type Item struct {
	ID           int64
	Name         string
	SKU          string
	Category     string
	Price        decimal.Decimal
	Stock        int
	ReorderPoint int
	GSTRate      int
	Components   []ComboComponent
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsCombo reports whether the item is a bundle of other items.
func (i *Item) IsCombo() bool { return len(i.Components) > 0 }

// BelowReorderPoint reports whether stock has reached the reorder threshold.
func (i *Item) BelowReorderPoint() bool { return i.Stock <= i.ReorderPoint }

// Validate enforces the catalog invariants.
func (i *Item) Validate() error {
	i.Name = strings.TrimSpace(i.Name)
	i.SKU = strings.TrimSpace(i.SKU)
	if i.Name == "" {
		return ErrEmptyName
	}
	if i.SKU == "" {
		return ErrEmptySKU
	}
	if i.Price.IsNegative() {
		return ErrNegativePrice
	}
	if i.Stock < 0 {
		return ErrNegativeStock
	}
	if !isValidGSTRate(i.GSTRate) {
		return ErrInvalidGSTRate
	}
	for _, c := range i.Components {
		if c.Quantity <= 0 {
			return ErrInvalidComponentQty
		}
	}
	return nil
}

func isValidGSTRate(rate int) bool {
	switch rate {
	case 0, 5, 12, 18, 28:
		return true
	default:
		return false
	}
}
