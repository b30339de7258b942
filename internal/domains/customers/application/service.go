package application

import (
	"context"
	"errors"

	"github.com/billfinity/backoffice/internal/domains/customers/domain"
	"github.com/billfinity/backoffice/internal/domains/customers/ports"
)

// ErrCustomerReferenced signals the customer cannot be deleted while orders
// reference them.
var ErrCustomerReferenced = errors.New("customer has existing orders")

// OrderReferences answers whether the order ledger still references a customer.
type OrderReferences interface {
	CustomerReferenced(ctx context.Context, customerID int64) (bool, error)
}

// Service orchestrates customer use cases.
type Service struct {
	repo   ports.Repository
	orders OrderReferences
}

func NewService(repo ports.Repository, orders OrderReferences) *Service {
	return &Service{repo: repo, orders: orders}
}

func (s *Service) CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	customer.ID = 0
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, customer)
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	return s.repo.List(ctx)
}

func (s *Service) UpdateCustomer(ctx context.Context, id int64, input ports.UpdateCustomerInput) (*domain.Customer, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}
	if input.Phone != nil {
		customer.Phone = *input.Phone
	}
	if input.GSTIN != nil {
		customer.GSTIN = *input.GSTIN
	}
	if input.CompanyName != nil {
		customer.CompanyName = *input.CompanyName
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, customer)
}

// DeleteCustomer removes a customer unless orders still reference them.
func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if s.orders != nil {
		referenced, err := s.orders.CustomerReferenced(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return ErrCustomerReferenced
		}
	}
	return s.repo.Delete(ctx, id)
}

var _ ports.Service = (*Service)(nil)
