package stock

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/billfinity/backoffice/internal/domains/catalog/ports"
)

const (
	// FindLowStockActivityName scans the catalog for items at or below their reorder point.
	FindLowStockActivityName = "stock.activities.FindLowStock"
	// NotifyLowStockActivityName forwards a low-stock report to the configured notifier.
	NotifyLowStockActivityName = "stock.activities.NotifyLowStock"
)

// LowStockItem is one catalog entry at or below its reorder point.
type LowStockItem struct {
	ItemID       int64  `json:"item_id"`
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	Stock        int    `json:"stock"`
	ReorderPoint int    `json:"reorder_point"`
}

// Notifier receives the low-stock report. Implementations may email, page, or
// just log.
type Notifier interface {
	NotifyLowStock(ctx context.Context, items []LowStockItem) error
}

// Activities groups activities operating on the catalog bounded context.
type Activities struct {
	repo     ports.Repository
	notifier Notifier
}

func NewActivities(repo ports.Repository, notifier Notifier) *Activities {
	return &Activities{repo: repo, notifier: notifier}
}

// FindLowStock returns every item whose stock is at or below its reorder point.
func (a *Activities) FindLowStock(ctx context.Context) ([]LowStockItem, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.repo == nil {
		logger.Error("low stock activity not initialized")
		return nil, errors.New("low stock activity not initialized")
	}
	logger.Info("FindLowStock activity started")

	items, err := a.repo.List(ctx)
	if err != nil {
		logger.Error("FindLowStock failed to list items", "error", err)
		return nil, err
	}

	var low []LowStockItem
	for _, item := range items {
		if item.BelowReorderPoint() {
			low = append(low, LowStockItem{
				ItemID:       item.ID,
				Name:         item.Name,
				SKU:          item.SKU,
				Stock:        item.Stock,
				ReorderPoint: item.ReorderPoint,
			})
		}
	}

	logger.Info("FindLowStock activity completed", "lowStockCount", len(low))
	return low, nil
}

// NotifyLowStock forwards the report to the notifier; with none configured it
// is a no-op.
func (a *Activities) NotifyLowStock(ctx context.Context, items []LowStockItem) error {
	logger := activity.GetLogger(ctx)
	if a == nil {
		return errors.New("low stock activity not initialized")
	}
	if len(items) == 0 {
		return nil
	}
	if a.notifier == nil {
		logger.Info("low stock notifier not configured; skipping", "lowStockCount", len(items))
		return nil
	}
	if err := a.notifier.NotifyLowStock(ctx, items); err != nil {
		logger.Error("NotifyLowStock failed", "error", err)
		return err
	}
	logger.Info("NotifyLowStock activity completed", "lowStockCount", len(items))
	return nil
}

// LogNotifier writes the report to the structured log. Used until an outbound
// channel is wired up.
type LogNotifier struct {
	Log interface {
		InfoContext(ctx context.Context, msg string, args ...any)
	}
}

func (n LogNotifier) NotifyLowStock(ctx context.Context, items []LowStockItem) error {
	if n.Log == nil {
		return nil
	}
	for _, item := range items {
		n.Log.InfoContext(ctx, "item below reorder point",
			"item.id", item.ItemID,
			"item.sku", item.SKU,
			"item.stock", item.Stock,
			"item.reorder_point", item.ReorderPoint,
		)
	}
	return nil
}
