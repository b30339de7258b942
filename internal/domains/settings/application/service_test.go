package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billfinity/backoffice/internal/domains/settings/adapters/memory"
	"github.com/billfinity/backoffice/internal/domains/settings/domain"
	"github.com/billfinity/backoffice/internal/domains/settings/ports"
)

func TestGetSettings_SeedsDefaults(t *testing.T) {
	svc := NewService(memory.NewRepository())

	settings, err := svc.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCurrency, settings.Currency)
	assert.True(t, settings.EmailUpdates)
	assert.False(t, settings.SMSAlerts)
	assert.True(t, settings.LowStockReminders)
}

func TestUpdateSettings_PartialPatch(t *testing.T) {
	svc := NewService(memory.NewRepository())

	company := "BillFinity Pvt Ltd"
	sms := true
	updated, err := svc.UpdateSettings(context.Background(), ports.UpdateSettingsInput{
		CompanyName: &company,
		SMSAlerts:   &sms,
	})
	require.NoError(t, err)
	assert.Equal(t, "BillFinity Pvt Ltd", updated.CompanyName)
	assert.True(t, updated.SMSAlerts)
	// Untouched fields keep their defaults.
	assert.Equal(t, domain.DefaultCurrency, updated.Currency)
	assert.True(t, updated.EmailUpdates)

	// The patch persists across reads.
	settings, err := svc.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "BillFinity Pvt Ltd", settings.CompanyName)
	assert.True(t, settings.SMSAlerts)
}
