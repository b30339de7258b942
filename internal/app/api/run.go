// Package api boots the back-office HTTP process: configuration,
// observability, repositories, services, the live order feed, and the
// Temporal cron kickoff.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	"github.com/billfinity/backoffice/internal/auth"
	catalogmemory "github.com/billfinity/backoffice/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/billfinity/backoffice/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/billfinity/backoffice/internal/domains/catalog/application"
	catalogports "github.com/billfinity/backoffice/internal/domains/catalog/ports"
	customermemory "github.com/billfinity/backoffice/internal/domains/customers/adapters/memory"
	customerpostgres "github.com/billfinity/backoffice/internal/domains/customers/adapters/persistence/postgres"
	customerapp "github.com/billfinity/backoffice/internal/domains/customers/application"
	customerports "github.com/billfinity/backoffice/internal/domains/customers/ports"
	"github.com/billfinity/backoffice/internal/domains/orders/adapters/broadcast"
	ordermemory "github.com/billfinity/backoffice/internal/domains/orders/adapters/memory"
	orderobs "github.com/billfinity/backoffice/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/billfinity/backoffice/internal/domains/orders/adapters/persistence/postgres"
	orderapp "github.com/billfinity/backoffice/internal/domains/orders/application"
	orderports "github.com/billfinity/backoffice/internal/domains/orders/ports"
	settingsmemory "github.com/billfinity/backoffice/internal/domains/settings/adapters/memory"
	settingspostgres "github.com/billfinity/backoffice/internal/domains/settings/adapters/persistence/postgres"
	settingsapp "github.com/billfinity/backoffice/internal/domains/settings/application"
	settingsports "github.com/billfinity/backoffice/internal/domains/settings/ports"
	usermemory "github.com/billfinity/backoffice/internal/domains/users/adapters/memory"
	userpostgres "github.com/billfinity/backoffice/internal/domains/users/adapters/persistence/postgres"
	userapp "github.com/billfinity/backoffice/internal/domains/users/application"
	userports "github.com/billfinity/backoffice/internal/domains/users/ports"
	"github.com/billfinity/backoffice/internal/httpapi"
	"github.com/billfinity/backoffice/internal/platform/messaging"
	"github.com/billfinity/backoffice/internal/platform/migrations"
	platformobservability "github.com/billfinity/backoffice/internal/platform/observability"
	platformpostgres "github.com/billfinity/backoffice/internal/platform/postgres"
	stockworkflows "github.com/billfinity/backoffice/internal/platform/temporal/workflows/stock"
	"github.com/billfinity/backoffice/internal/realtime"
)

// Run boots the back-office HTTP API with observability, repositories, and
// the live order feed wired.
func Run(ctx context.Context) error {
	const serviceName = "billfinity-api"
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repos, cleanupRepos := buildRepositories(ctx, cfg, logger)
	defer cleanupRepos()

	hub := realtime.NewHub(logger)
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go hub.Run(hubCtx)

	publisherOpts := []broadcast.Option{broadcast.WithLogger(logger)}
	if cfg.AMQPURL != "" {
		broker := messaging.NewClient(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err := broker.Connect(); err != nil {
			logger.Warn("broker unavailable, order events stay websocket-only", slog.String("error", err.Error()))
		} else {
			defer func() { _ = broker.Close() }()
			publisherOpts = append(publisherOpts, broadcast.WithBroker(broker))
		}
	}
	publisher := broadcast.NewPublisher(hub, publisherOpts...)

	customerService := customerapp.NewService(repos.customers, repos.orders)
	catalogService := catalogapp.NewService(repos.catalog, repos.orders, logger)
	orderService := orderobs.New(
		orderapp.NewService(repos.orders, repos.customers, publisher),
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	userService := userapp.NewService(repos.users)
	settingsService := settingsapp.NewService(repos.settings)

	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal unavailable, low stock sweep disabled", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		startLowStockSweep(ctx, temporalClient, cfg, logger)
	}

	issuer := auth.NewIssuer(cfg.SecretKey, time.Duration(cfg.AccessTokenExpireMinutes)*time.Minute)
	router := httpapi.NewRouter(httpapi.Services{
		Customers: customerService,
		Catalog:   catalogService,
		Orders:    orderService,
		Users:     userService,
		Settings:  settingsService,
	}, httpapi.RouterConfig{
		ServiceName:      serviceName,
		Issuer:           issuer,
		AuthDisabled:     cfg.AuthDisabled,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		Hub:              hub,
		Logger:           logger,
	})

	if cfg.AuthDisabled {
		logger.Warn("authentication disabled, requests run as the default user")
	}

	addr := ":" + cfg.Port
	logger.Info("back-office API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("back-office API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// repositories groups one backend's worth of adapters. Either every
// repository is postgres or every one is memory; mixing backends would break
// the cross-context order transaction.
type repositories struct {
	customers customerports.Repository
	catalog   catalogports.Repository
	orders    orderports.Repository
	users     userports.Repository
	settings  settingsports.Repository
}

func buildRepositories(ctx context.Context, cfg Config, logger *slog.Logger) (repositories, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return buildMemoryRepositories(), func() {}
	}

	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return buildMemoryRepositories(), func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to run migrations, falling back to memory", slog.String("error", err.Error()))
		return buildMemoryRepositories(), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return buildMemoryRepositories(), func() {}
	}
	logger.Info("repositories configured with postgres")
	return repositories{
		customers: customerpostgres.NewRepository(db),
		catalog:   catalogpostgres.NewRepository(db),
		orders:    orderpostgres.NewRepository(db),
		users:     userpostgres.NewRepository(db),
		settings:  settingspostgres.NewRepository(db),
	}, func() { _ = sqlDB.Close() }
}

func buildMemoryRepositories() repositories {
	catalogRepo := catalogmemory.NewRepository()
	return repositories{
		customers: customermemory.NewRepository(),
		catalog:   catalogRepo,
		orders:    ordermemory.NewRepository(catalogRepo),
		users:     usermemory.NewRepository(),
		settings:  settingsmemory.NewRepository(),
	}
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(instruments.Logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

// startLowStockSweep schedules the cron sweep under a fixed workflow id. On
// restart the already-running instance is kept.
func startLowStockSweep(ctx context.Context, temporalClient client.Client, cfg Config, logger *slog.Logger) {
	options := client.StartWorkflowOptions{
		ID:           stockworkflows.SweepWorkflowID,
		TaskQueue:    stockworkflows.SweepTaskQueue,
		CronSchedule: cfg.LowStockSweepCron,
	}
	_, err := temporalClient.ExecuteWorkflow(ctx, options, stockworkflows.LowStockSweepWorkflowName)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			logger.Info("low stock sweep already scheduled")
			return
		}
		logger.Warn("failed to schedule low stock sweep", slog.String("error", err.Error()))
		return
	}
	logger.Info("low stock sweep scheduled", slog.String("cron", cfg.LowStockSweepCron))
}
