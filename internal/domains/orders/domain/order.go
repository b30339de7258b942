package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

var (
	ErrNoLines         = errors.New("order must contain at least one line")
	ErrInvalidQuantity = errors.New("line quantity must be greater than zero")
	ErrInvalidStatus   = errors.New("order status is invalid")
	ErrNotPending      = errors.New("only pending orders can be completed")
)

// Line is one order entry. Its identity is (order id, item id); the unit
// price is captured at order time and never tracks later catalog changes.
type Line struct {
	OrderID   int64
	ItemID    int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal is the line's contribution to the order total.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is the order ledger aggregate. Lines are ordered by insertion.
type Order struct {
	ID         int64
	CustomerID int64
	Total      decimal.Decimal
	Status     Status
	Lines      []Line
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Complete transitions the order from pending to completed. The transition is
// one-way; completed and canceled orders are final.
func (o *Order) Complete() error {
	if o.Status != StatusPending {
		return ErrNotPending
	}
	o.Status = StatusCompleted
	return nil
}

// ComputeTotal sums the line subtotals in line order using fixed-point
// decimal arithmetic.
func ComputeTotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// MergeLines collapses entries sharing an item id into one line with the
// summed quantity, preserving first-appearance order. Stock checks still run
// per submitted entry; merging happens only at persist time so the
// (order id, item id) line identity holds. Unit prices are captured once per
// transaction, so entries for the same item always agree.
func MergeLines(lines []Line) []Line {
	merged := make([]Line, 0, len(lines))
	index := map[int64]int{}
	for _, line := range lines {
		if at, ok := index[line.ItemID]; ok {
			merged[at].Quantity += line.Quantity
			continue
		}
		index[line.ItemID] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

func IsValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusCompleted, StatusCanceled:
		return true
	default:
		return false
	}
}
