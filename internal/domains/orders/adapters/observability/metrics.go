package observability

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
)

type serviceMetrics struct {
	created   metric.Int64Counter
	completed metric.Int64Counter
	failed    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		m = metricnoop.NewMeterProvider().Meter(tracerName)
	}
	created, err := m.Int64Counter("orders.created", metric.WithDescription("Orders committed to the ledger"))
	if err != nil {
		created, _ = metricnoop.NewMeterProvider().Meter(tracerName).Int64Counter("orders.created")
	}
	completed, err := m.Int64Counter("orders.completed", metric.WithDescription("Orders transitioned to completed"))
	if err != nil {
		completed, _ = metricnoop.NewMeterProvider().Meter(tracerName).Int64Counter("orders.completed")
	}
	failed, err := m.Int64Counter("orders.failed", metric.WithDescription("Order operations that returned an error"))
	if err != nil {
		failed, _ = metricnoop.NewMeterProvider().Meter(tracerName).Int64Counter("orders.failed")
	}
	return serviceMetrics{created: created, completed: completed, failed: failed}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.created != nil {
		m.created.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordCompleted(ctx context.Context) {
	if m.completed != nil {
		m.completed.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordFailed(ctx context.Context) {
	if m.failed != nil {
		m.failed.Add(ctx, 1)
	}
}
