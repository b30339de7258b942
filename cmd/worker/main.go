package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	catalogmemory "github.com/billfinity/backoffice/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/billfinity/backoffice/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/billfinity/backoffice/internal/domains/catalog/ports"
	"github.com/billfinity/backoffice/internal/platform/migrations"
	platformobservability "github.com/billfinity/backoffice/internal/platform/observability"
	platformpostgres "github.com/billfinity/backoffice/internal/platform/postgres"
	stockactivities "github.com/billfinity/backoffice/internal/platform/temporal/activities/stock"
	stockworkflows "github.com/billfinity/backoffice/internal/platform/temporal/workflows/stock"
)

func main() {
	ctx := context.Background()
	const serviceName = "billfinity-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	catalogRepo, cleanupRepo := buildCatalogRepository(ctx, logger)
	defer cleanupRepo()
	activities := stockactivities.NewActivities(catalogRepo, stockactivities.LogNotifier{Log: logger})

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, stockworkflows.SweepTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(stockworkflows.LowStockSweepWorkflow, workflow.RegisterOptions{Name: stockworkflows.LowStockSweepWorkflowName})
	w.RegisterActivityWithOptions(activities.FindLowStock, activity.RegisterOptions{Name: stockactivities.FindLowStockActivityName})
	w.RegisterActivityWithOptions(activities.NotifyLowStock, activity.RegisterOptions{Name: stockactivities.NotifyLowStockActivityName})

	logger.Info("worker listening", slog.String("taskQueue", stockworkflows.SweepTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildCatalogRepository(ctx context.Context, logger *slog.Logger) (catalogports.Repository, func()) {
	dsn := os.Getenv("POSTGRES_DSN")
	if strings.TrimSpace(dsn) == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory catalog repository")
		return catalogmemory.NewRepository(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, dsn)
	if err != nil {
		logger.Warn("worker failed to connect to postgres (falling back to memory)", slog.String("error", err.Error()))
		return catalogmemory.NewRepository(), func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("worker failed to run migrations (falling back to memory)", slog.String("error", err.Error()))
		return catalogmemory.NewRepository(), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("worker failed to unwrap postgres connection (falling back to memory)", slog.String("error", err.Error()))
		return catalogmemory.NewRepository(), func() {}
	}
	logger.Info("worker catalog repository configured with postgres")
	return catalogpostgres.NewRepository(db), func() { _ = sqlDB.Close() }
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
