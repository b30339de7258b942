package ports

import (
	"context"
	"errors"

	"github.com/billfinity/backoffice/internal/domains/users/domain"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Repository persists user accounts. Save enforces email uniqueness.
type Repository interface {
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	FirstActive(ctx context.Context) (*domain.User, error)
}
