package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("RECONCILE_INTERVAL", "")
	t.Setenv("EMAIL_ENABLED", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Duration(0), cfg.ReconcileInterval)
	assert.False(t, cfg.EmailEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("REQUEST_TIMEOUT", "250ms")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RECONCILE_INTERVAL", "1m")
	t.Setenv("EMAIL_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 7, cfg.DBMaxOpenConns)
	assert.Equal(t, 250*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, time.Minute, cfg.ReconcileInterval)
	assert.True(t, cfg.EmailEnabled)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"DB_MAX_OPEN_CONNS", "many"},
		{"REQUEST_TIMEOUT", "soon"},
		{"RATE_LIMIT_RPS", "fast"},
		{"EMAIL_ENABLED", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
			assert.Nil(t, cfg)
		})
	}
}
