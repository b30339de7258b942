package application

import (
	"context"
	"errors"
	"strings"

	"github.com/billfinity/backoffice/internal/domains/users/domain"
	"github.com/billfinity/backoffice/internal/domains/users/ports"
)

// Service exposes the user account use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	user := &domain.User{
		Name:     input.Name,
		Email:    input.Email,
		Role:     input.Role,
		IsActive: true,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Password) != "" {
		if err := user.SetPassword(input.Password); err != nil {
			return nil, err
		}
	}
	return s.repo.Save(ctx, user)
}

func (s *Service) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.GetByEmail(ctx, strings.TrimSpace(email))
}

// Authenticate verifies email/password credentials and returns the account.
// Missing accounts, password-less accounts, and bad passwords all surface the
// same ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, ports.ErrInvalidCredentials
	}
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ports.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ports.ErrInvalidCredentials
	}
	return user, nil
}

// EnsureDefaultUser returns the first active account, creating a development
// admin when none exists. Used by the auth-disabled development bypass.
func (s *Service) EnsureDefaultUser(ctx context.Context) (*domain.User, error) {
	user, err := s.repo.FirstActive(ctx)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	dev := &domain.User{
		Name:     "Dev User",
		Email:    "dev@example.com",
		Role:     "admin",
		IsActive: true,
	}
	return s.repo.Save(ctx, dev)
}

var _ ports.Service = (*Service)(nil)
