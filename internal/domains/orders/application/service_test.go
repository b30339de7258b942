package application

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/billfinity/backoffice/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/billfinity/backoffice/internal/domains/catalog/domain"
	"github.com/billfinity/backoffice/internal/domains/orders/adapters/memory"
	"github.com/billfinity/backoffice/internal/domains/orders/domain"
	"github.com/billfinity/backoffice/internal/domains/orders/ports"
)

type fakeCustomerDirectory struct {
	ids map[int64]bool
}

func (f *fakeCustomerDirectory) Exists(_ context.Context, id int64) (bool, error) {
	return f.ids[id], nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []ports.OrderEvent
	fail   error
}

func (p *capturePublisher) PublishOrderUpdate(_ context.Context, event ports.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.fail
}

type fixture struct {
	catalog   *catalogmemory.Repository
	orders    *memory.Repository
	publisher *capturePublisher
	service   *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalogRepo := catalogmemory.NewRepository()
	orderRepo := memory.NewRepository(catalogRepo)
	publisher := &capturePublisher{}
	directory := &fakeCustomerDirectory{ids: map[int64]bool{1: true}}
	return &fixture{
		catalog:   catalogRepo,
		orders:    orderRepo,
		publisher: publisher,
		service:   NewService(orderRepo, directory, publisher),
	}
}

func (f *fixture) seedItem(t *testing.T, name, sku string, price string, stock int) *catalogdomain.Item {
	t.Helper()
	item, err := f.catalog.Save(context.Background(), &catalogdomain.Item{
		Name:    name,
		SKU:     sku,
		Price:   decimal.RequireFromString(price),
		Stock:   stock,
		GSTRate: catalogdomain.DefaultGSTRate,
	})
	require.NoError(t, err)
	return item
}

func (f *fixture) stockOf(t *testing.T, id int64) int {
	t.Helper()
	item, err := f.catalog.GetByID(context.Background(), id)
	require.NoError(t, err)
	return item.Stock
}

func TestCreateOrder_ComputesTotalAndDecrementsStock(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(t, "Masala Chai", "CHAI-001", "5.00", 10)

	order, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: 1,
		Lines:      []ports.LineInput{{ItemID: item.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, "15.00", order.Total.StringFixed(2))
	require.Len(t, order.Lines, 1)
	assert.Equal(t, "5.00", order.Lines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, 7, f.stockOf(t, item.ID))

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, order.ID, event.OrderID)
	assert.Equal(t, "15.00", event.Total)
	assert.Equal(t, "pending", event.Status)
}

func TestCreateOrder_InsufficientStockLeavesNothingBehind(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(t, "Filter Coffee", "COF-001", "8.50", 2)

	_, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: 1,
		Lines:      []ports.LineInput{{ItemID: item.ID, Quantity: 3}},
	})

	var insufficient *ports.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, item.ID, insufficient.ItemID)
	assert.Equal(t, "COF-001", insufficient.SKU)
	assert.Equal(t, 2, insufficient.Available)
	assert.Equal(t, 3, insufficient.Requested)

	assert.Equal(t, 2, f.stockOf(t, item.ID))
	orders, err := f.orders.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, f.publisher.events)
}

func TestCreateOrder_PartialFailureRollsBackEarlierLines(t *testing.T) {
	f := newFixture(t)
	plenty := f.seedItem(t, "Samosa", "SAM-001", "2.00", 50)
	scarce := f.seedItem(t, "Jalebi", "JAL-001", "3.00", 1)

	_, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: 1,
		Lines: []ports.LineInput{
			{ItemID: plenty.ID, Quantity: 5},
			{ItemID: scarce.ID, Quantity: 2},
		},
	})

	var insufficient *ports.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, scarce.ID, insufficient.ItemID)

	// The first line's decrement must not survive the failed transaction.
	assert.Equal(t, 50, f.stockOf(t, plenty.ID))
	assert.Equal(t, 1, f.stockOf(t, scarce.ID))
}

func TestCreateOrder_UnknownCustomer(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(t, "Masala Chai", "CHAI-001", "5.00", 10)

	_, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: 99,
		Lines:      []ports.LineInput{{ItemID: item.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, ports.ErrCustomerNotFound)
	assert.Equal(t, 10, f.stockOf(t, item.ID))
}

func TestCreateOrder_UnknownItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: 1,
		Lines:      []ports.LineInput{{ItemID: 42, Quantity: 1}},
	})

	var missing *ports.ItemNotFoundError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, int64(42), missing.ItemID)
}

func TestCreateOrder_RejectsEmptyAndNonPositiveLines(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(t, "Masala Chai", "CHAI-001", "5.00", 10)

	_, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{CustomerID: 1})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrNoLines)

	_, err = f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: 1,
		Lines:      []ports.LineInput{{ItemID: item.ID, Quantity: 0}},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, 10, f.stockOf(t, item.ID))
}

func TestCreateOrder_DuplicateLinesMergeButCheckSequentially(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(t, "Masala Chai", "CHAI-001", "5.00", 10)

	order, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: 1,
		Lines: []ports.LineInput{
			{ItemID: item.ID, Quantity: 3},
			{ItemID: item.ID, Quantity: 4},
		},
	})
	require.NoError(t, err)

	require.Len(t, order.Lines, 1)
	assert.Equal(t, 7, order.Lines[0].Quantity)
	assert.Equal(t, "35.00", order.Total.StringFixed(2))
	assert.Equal(t, 3, f.stockOf(t, item.ID))
}

func TestCreateOrder_DuplicateLinesFailWhenBalanceRunsOut(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(t, "Masala Chai", "CHAI-001", "5.00", 5)

	_, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: 1,
		Lines: []ports.LineInput{
			{ItemID: item.ID, Quantity: 3},
			{ItemID: item.ID, Quantity: 3},
		},
	})

	// The second entry is checked against the balance left by the first.
	var insufficient *ports.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 2, insufficient.Available)
	assert.Equal(t, 5, f.stockOf(t, item.ID))
}

func TestCreateOrder_ConcurrentOrdersNeverOversell(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(t, "Masala Chai", "CHAI-001", "5.00", 10)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
				CustomerID: 1,
				Lines:      []ports.LineInput{{ItemID: item.ID, Quantity: 6}},
			})
		}(i)
	}
	wg.Wait()

	var succeeded, failed int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var insufficient *ports.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		failed++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 4, f.stockOf(t, item.ID))
}

func TestCreateOrder_PublishFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture(t)
	f.publisher.fail = assert.AnError
	item := f.seedItem(t, "Masala Chai", "CHAI-001", "5.00", 10)

	order, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: 1,
		Lines:      []ports.LineInput{{ItemID: item.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.Equal(t, 9, f.stockOf(t, item.ID))
}

func TestCompleteOrder_OneWayTransition(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(t, "Masala Chai", "CHAI-001", "5.00", 10)

	order, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: 1,
		Lines:      []ports.LineInput{{ItemID: item.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	completed, err := f.service.CompleteOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, completed.Status)

	_, err = f.service.CompleteOrder(context.Background(), order.ID)
	require.ErrorIs(t, err, domain.ErrNotPending)

	_, err = f.service.CompleteOrder(context.Background(), 999)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestListOrders_NewestFirst(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(t, "Masala Chai", "CHAI-001", "5.00", 100)

	for i := 0; i < 3; i++ {
		_, err := f.service.CreateOrder(context.Background(), ports.CreateOrderInput{
			CustomerID: 1,
			Lines:      []ports.LineInput{{ItemID: item.ID, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	orders, err := f.service.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, int64(3), orders[0].ID)
	assert.Equal(t, int64(1), orders[2].ID)
}
