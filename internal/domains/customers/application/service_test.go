package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billfinity/backoffice/internal/domains/customers/adapters/memory"
	"github.com/billfinity/backoffice/internal/domains/customers/domain"
	"github.com/billfinity/backoffice/internal/domains/customers/ports"
)

type fakeOrderReferences struct {
	referenced map[int64]bool
}

func (f *fakeOrderReferences) CustomerReferenced(_ context.Context, customerID int64) (bool, error) {
	return f.referenced[customerID], nil
}

func newCustomerService() (*Service, *fakeOrderReferences) {
	orders := &fakeOrderReferences{referenced: map[int64]bool{}}
	return NewService(memory.NewRepository(), orders), orders
}

func TestCreateCustomer(t *testing.T) {
	svc, _ := newCustomerService()

	customer, err := svc.CreateCustomer(context.Background(), &domain.Customer{
		Name:  "Asha Traders",
		Email: "asha@example.com",
		GSTIN: "29ABCDE1234F1Z5",
	})
	require.NoError(t, err)
	assert.NotZero(t, customer.ID)

	_, err = svc.CreateCustomer(context.Background(), &domain.Customer{Email: "x@example.com"})
	require.ErrorIs(t, err, domain.ErrEmptyName)

	_, err = svc.CreateCustomer(context.Background(), &domain.Customer{Name: "X", Email: "not-an-email"})
	require.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestUpdateCustomer_PartialUpdate(t *testing.T) {
	svc, _ := newCustomerService()

	customer, err := svc.CreateCustomer(context.Background(), &domain.Customer{
		Name:  "Asha Traders",
		Phone: "9999999999",
	})
	require.NoError(t, err)

	phone := "8888888888"
	updated, err := svc.UpdateCustomer(context.Background(), customer.ID, ports.UpdateCustomerInput{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "8888888888", updated.Phone)
	assert.Equal(t, "Asha Traders", updated.Name)

	empty := ""
	_, err = svc.UpdateCustomer(context.Background(), customer.ID, ports.UpdateCustomerInput{Name: &empty})
	require.ErrorIs(t, err, domain.ErrEmptyName)

	_, err = svc.UpdateCustomer(context.Background(), 999, ports.UpdateCustomerInput{})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestDeleteCustomer_GuardsReferencedCustomers(t *testing.T) {
	svc, orders := newCustomerService()

	customer, err := svc.CreateCustomer(context.Background(), &domain.Customer{Name: "Asha Traders"})
	require.NoError(t, err)

	orders.referenced[customer.ID] = true
	err = svc.DeleteCustomer(context.Background(), customer.ID)
	require.ErrorIs(t, err, ErrCustomerReferenced)

	orders.referenced[customer.ID] = false
	require.NoError(t, svc.DeleteCustomer(context.Background(), customer.ID))

	err = svc.DeleteCustomer(context.Background(), customer.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
