package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "auto", cfg.StockAtomic)
	assert.Equal(t, 24*time.Hour, cfg.StaleOrderAge())
	assert.Equal(t, 15*time.Minute, cfg.SweepInterval())
	assert.Equal(t, 5*time.Minute, cfg.ExchangeRateTTL())
	assert.Equal(t, 30, cfg.CheckoutRateLimitPerMinute)
}

func TestLoad_Entorno(t *testing.T) {
	t.Setenv("STALE_ORDER_HOURS", "6")
	t.Setenv("STOCK_ATOMIC", "off")
	t.Setenv("REDIS_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6*time.Hour, cfg.StaleOrderAge())
	assert.Equal(t, "off", cfg.StockAtomic)
	assert.Empty(t, cfg.RedisURL, "an explicitly empty REDIS_URL disables Redis")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{StockAtomic: "auto", StaleOrderHours: 24, SweepIntervalMinutes: 15}
	}

	c := base()
	require.NoError(t, c.validate())
	assert.Equal(t, 1, c.WorkerPoolSize)

	c = base()
	c.StockAtomic = "siempre"
	assert.Error(t, c.validate())

	c = base()
	c.Env = "production"
	assert.Error(t, c.validate(), "production needs a JWT secret")

	c = base()
	c.StaleOrderHours = 0
	assert.Error(t, c.validate())

	c = base()
	c.SweepIntervalMinutes = -1
	assert.Error(t, c.validate())
}
