package stock

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	stockactivities "github.com/billfinity/backoffice/internal/platform/temporal/activities/stock"
)

const (
	// LowStockSweepWorkflowName is the public identifier for registering the workflow.
	LowStockSweepWorkflowName = "stock.workflows.LowStockSweep"
	// SweepTaskQueue is the queue consumed by the worker processing stock sweeps.
	SweepTaskQueue = "low-stock-sweep"
	// SweepWorkflowID keys the single cron instance of the sweep.
	SweepWorkflowID = "low-stock-sweep-cron"
)

// LowStockSweepResult reports what a single sweep pass found.
type LowStockSweepResult struct {
	LowStockCount int `json:"low_stock_count"`
}

// LowStockSweepWorkflow scans the catalog for items at or below their reorder
// point and hands the report to the notifier activity. Scheduled as a cron
// workflow by the API on startup.
func LowStockSweepWorkflow(ctx workflow.Context) (*LowStockSweepResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("LowStockSweepWorkflow started")

	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var items []stockactivities.LowStockItem
	if err := workflow.ExecuteActivity(ctx, stockactivities.FindLowStockActivityName).Get(ctx, &items); err != nil {
		logger.Error("LowStockSweepWorkflow failed to scan catalog", "error", err)
		return nil, err
	}

	if len(items) > 0 {
		if err := workflow.ExecuteActivity(ctx, stockactivities.NotifyLowStockActivityName, items).Get(ctx, nil); err != nil {
			logger.Error("LowStockSweepWorkflow failed to notify", "error", err)
			return nil, err
		}
	}

	logger.Info("LowStockSweepWorkflow completed", "lowStockCount", len(items))
	return &LowStockSweepResult{LowStockCount: len(items)}, nil
}
