package ports

import (
	"context"

	"github.com/billfinity/backoffice/internal/domains/users/domain"
)

// CreateUserInput carries a new account request. Password is optional for
// accounts backed by an external identity provider.
type CreateUserInput struct {
	Name     string
	Email    string
	Role     string
	Password string
}

// Service exposes user account use cases to adapters.
type Service interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	EnsureDefaultUser(ctx context.Context) (*domain.User, error)
}
