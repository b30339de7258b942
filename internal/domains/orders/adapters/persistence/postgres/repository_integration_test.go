//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	catalogpostgres "github.com/billfinity/backoffice/internal/domains/catalog/adapters/persistence/postgres"
	catalogdomain "github.com/billfinity/backoffice/internal/domains/catalog/domain"
	"github.com/billfinity/backoffice/internal/domains/orders/domain"
	"github.com/billfinity/backoffice/internal/domains/orders/ports"
	"github.com/billfinity/backoffice/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("backoffice_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func seedItem(t *testing.T, db *gorm.DB, name, sku, price string, stock int) *catalogdomain.Item {
	t.Helper()
	item, err := catalogpostgres.NewRepository(db).Save(context.Background(), &catalogdomain.Item{
		Name:    name,
		SKU:     sku,
		Price:   decimal.RequireFromString(price),
		Stock:   stock,
		GSTRate: catalogdomain.DefaultGSTRate,
	})
	require.NoError(t, err)
	return item
}

func itemStock(t *testing.T, db *gorm.DB, id int64) int {
	t.Helper()
	item, err := catalogpostgres.NewRepository(db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return item.Stock
}

func TestRepository_CreateComputesTotalAndDecrementsStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	item := seedItem(t, db, "Masala Chai", "CHAI-001", "5.00", 10)
	repo := NewRepository(db)
	ctx := context.Background()

	order, err := repo.Create(ctx, 1, []ports.LineInput{{ItemID: item.ID, Quantity: 3}})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, "15.00", order.Total.StringFixed(2))
	require.Len(t, order.Lines, 1)
	assert.Equal(t, "5.00", order.Lines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, 7, itemStock(t, db, item.ID))
}

func TestRepository_CreateRollsBackOnInsufficientStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	plenty := seedItem(t, db, "Samosa", "SAM-001", "2.00", 50)
	scarce := seedItem(t, db, "Jalebi", "JAL-001", "3.00", 1)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, 1, []ports.LineInput{
		{ItemID: plenty.ID, Quantity: 5},
		{ItemID: scarce.ID, Quantity: 2},
	})

	var insufficient *ports.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, scarce.ID, insufficient.ItemID)
	assert.Equal(t, "JAL-001", insufficient.SKU)

	// Nothing from the failed transaction persists.
	assert.Equal(t, 50, itemStock(t, db, plenty.ID))
	assert.Equal(t, 1, itemStock(t, db, scarce.ID))
	orders, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestRepository_CreateUnknownItem(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	_, err := repo.Create(context.Background(), 1, []ports.LineInput{{ItemID: 42, Quantity: 1}})

	var missing *ports.ItemNotFoundError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, int64(42), missing.ItemID)
}

func TestRepository_ConcurrentCreatesNeverOversell(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	item := seedItem(t, db, "Masala Chai", "CHAI-001", "5.00", 10)
	repo := NewRepository(db)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Create(context.Background(), 1, []ports.LineInput{{ItemID: item.ID, Quantity: 6}})
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var insufficient *ports.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 4, itemStock(t, db, item.ID))
}

func TestRepository_CompleteIsOneWay(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	item := seedItem(t, db, "Masala Chai", "CHAI-001", "5.00", 10)
	repo := NewRepository(db)
	ctx := context.Background()

	order, err := repo.Create(ctx, 1, []ports.LineInput{{ItemID: item.ID, Quantity: 1}})
	require.NoError(t, err)

	completed, err := repo.Complete(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, completed.Status)

	_, err = repo.Complete(ctx, order.ID)
	require.ErrorIs(t, err, domain.ErrNotPending)

	_, err = repo.Complete(ctx, 999)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ReferenceChecks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	item := seedItem(t, db, "Masala Chai", "CHAI-001", "5.00", 10)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, 7, []ports.LineInput{{ItemID: item.ID, Quantity: 1}})
	require.NoError(t, err)

	referenced, err := repo.CustomerReferenced(ctx, 7)
	require.NoError(t, err)
	assert.True(t, referenced)

	referenced, err = repo.ItemReferenced(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, referenced)

	referenced, err = repo.CustomerReferenced(ctx, 99)
	require.NoError(t, err)
	assert.False(t, referenced)
}
