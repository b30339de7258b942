package ports

import (
	"context"

	"github.com/billfinity/backoffice/internal/domains/customers/domain"
)

// UpdateCustomerInput carries a partial update. Nil fields are left untouched.
type UpdateCustomerInput struct {
	Name        *string
	Email       *string
	Phone       *string
	GSTIN       *string
	CompanyName *string
	Address     *string
}

// Service exposes customer use cases to adapters.
type Service interface {
	CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, input UpdateCustomerInput) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}
