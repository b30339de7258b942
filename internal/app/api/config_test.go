package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SECRET_KEY", "")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "")
	t.Setenv("AUTH_DISABLED", "")
	t.Setenv("TEMPORAL_DISABLED", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 60, cfg.AccessTokenExpireMinutes)
	assert.Equal(t, "billfinity.events", cfg.AMQPExchange)
	assert.Equal(t, "0 * * * *", cfg.LowStockSweepCron)
	assert.False(t, cfg.AuthDisabled)
}

func TestLoadConfigTokenExpiryOverride(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "15")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.AccessTokenExpireMinutes)

	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "zero")
	_, err = LoadConfig()
	assert.Error(t, err)
}
