package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10*time.Second, cfg.PaymentTimeout)
	assert.Equal(t, "usd", cfg.Currency)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("PAYMENT_TIMEOUT", "3s")
	t.Setenv("CURRENCY", "EUR")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 3*time.Second, cfg.PaymentTimeout)
	assert.Equal(t, "eur", cfg.Currency)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.yaml")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET: from-file\nAPP_PORT: \":9090\"\n"), 0o600))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, ":9090", cfg.AppPort)
}

func TestValidate(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")

	cfg.JWTSecret = "secret"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRIPE_WEBHOOK_SECRET is required")

	// Unsigned webhooks are never accepted, with or without an API key.
	cfg.StripeSecretKey = "sk_test_123"
	assert.ErrorContains(t, cfg.Validate(), "STRIPE_WEBHOOK_SECRET")

	cfg.StripeWebhookSecret = "whsec_test"
	require.NoError(t, cfg.Validate())

	cfg.PaymentTimeout = 0
	assert.ErrorContains(t, cfg.Validate(), "PAYMENT_TIMEOUT")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("LOG_LEVEL", "loud")

	_, err := Load(viper.New(), "")
	assert.Error(t, err)
}
