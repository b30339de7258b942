package ports

import (
	"context"

	"github.com/billfinity/backoffice/internal/domains/settings/domain"
)

// UpdateSettingsInput carries a partial update. Nil fields are left untouched.
type UpdateSettingsInput struct {
	CompanyName       *string
	Address           *string
	Currency          *string
	EmailUpdates      *bool
	SMSAlerts         *bool
	LowStockReminders *bool
}

// Repository persists the singleton settings row. Get creates the row with
// defaults when none exists.
type Repository interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, settings *domain.Settings) (*domain.Settings, error)
}

// Service exposes settings use cases to adapters.
type Service interface {
	GetSettings(ctx context.Context) (*domain.Settings, error)
	UpdateSettings(ctx context.Context, input UpdateSettingsInput) (*domain.Settings, error)
}
