package application

import (
	"context"

	"github.com/billfinity/backoffice/internal/domains/settings/domain"
	"github.com/billfinity/backoffice/internal/domains/settings/ports"
)

// Service orchestrates store settings use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetSettings(ctx context.Context) (*domain.Settings, error) {
	return s.repo.Get(ctx)
}

func (s *Service) UpdateSettings(ctx context.Context, input ports.UpdateSettingsInput) (*domain.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if input.CompanyName != nil {
		settings.CompanyName = *input.CompanyName
	}
	if input.Address != nil {
		settings.Address = *input.Address
	}
	if input.Currency != nil {
		settings.Currency = *input.Currency
	}
	if input.EmailUpdates != nil {
		settings.EmailUpdates = *input.EmailUpdates
	}
	if input.SMSAlerts != nil {
		settings.SMSAlerts = *input.SMSAlerts
	}
	if input.LowStockReminders != nil {
		settings.LowStockReminders = *input.LowStockReminders
	}
	return s.repo.Save(ctx, settings)
}

var _ ports.Service = (*Service)(nil)
