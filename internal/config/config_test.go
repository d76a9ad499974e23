package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("CHECKOUT_RATE_LIMIT", "2.5")
	t.Setenv("TOKEN_TTL_MINUTES", "15")
	t.Setenv("ADMIN_EMAIL", "root@example.com")
	t.Setenv("ADMIN_PASSWORD", "changeme")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, []byte("s3cret"), cfg.JWTAccessSecret)
	assert.InDelta(t, 2.5, cfg.CheckoutRateLimit, 1e-9)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "root@example.com", cfg.AdminEmail)
	assert.Equal(t, "changeme", cfg.AdminPassword)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/sigecob")
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("CHECKOUT_RATE_LIMIT", "")
	t.Setenv("TOKEN_TTL_MINUTES", "")
	t.Setenv("ADMIN_EMAIL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.InDelta(t, 5, cfg.CheckoutRateLimit, 1e-9)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Empty(t, cfg.AdminEmail)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorContains(t, err, "DATABASE_URL")
	assert.ErrorContains(t, err, "JWT_SECRET")
}
