package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "data/pos.db", cfg.Database.Path)
	assert.Equal(t, 10, cfg.Store.LowStockThreshold)
	assert.Equal(t, "ชิ้น", cfg.Store.DefaultUnit)
	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", ":8080")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("LOW_STOCK_THRESHOLD", "3")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("JWT_TTL_HOURS", "2")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Store.LowStockThreshold)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
}

func TestLocationFallback(t *testing.T) {
	cfg := &Config{Store: StoreConfig{Timezone: "Not/AZone"}}

	loc := cfg.Location()

	_, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 7*60*60, offset)
}
