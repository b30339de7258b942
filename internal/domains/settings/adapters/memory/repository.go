package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/billfinity/backoffice/internal/domains/settings/domain"
	"github.com/billfinity/backoffice/internal/domains/settings/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory settings adapter holding the singleton row.
type Repository struct {
	mu       sync.Mutex
	settings *domain.Settings
	now      func() time.Time
}

func NewRepository() *Repository {
	return &Repository{now: time.Now}
}

func (r *Repository) Get(_ context.Context) (*domain.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		seeded := domain.Defaults()
		seeded.ID = 1
		ts := r.now()
		seeded.CreatedAt = ts
		seeded.UpdatedAt = ts
		r.settings = seeded
	}
	clone := *r.settings
	return &clone, nil
}

func (r *Repository) Save(_ context.Context, settings *domain.Settings) (*domain.Settings, error) {
	if settings == nil {
		return nil, errors.New("settings is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *settings
	clone.ID = 1
	if r.settings != nil {
		clone.CreatedAt = r.settings.CreatedAt
	}
	clone.UpdatedAt = r.now()
	r.settings = &clone
	result := clone
	return &result, nil
}
