package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("APP_PORT", "8080")
		t.Setenv("APP_ENV", "test")
		t.Setenv("JWT_SECRET", "jwt-secret")
		t.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
		t.Setenv("RAZORPAY_KEY_SECRET", "rzp_secret")
		t.Setenv("GATEWAY_TIMEOUT", "5s")
		t.Setenv("NOTIFY_TIMEOUT", "7")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, "rzp_test_key", cfg.RazorpayKeyID)
		assert.Equal(t, "rzp_secret", cfg.RazorpayKeySecret)
		assert.Equal(t, 5*time.Second, cfg.GatewayTimeout)
		assert.Equal(t, 7*time.Second, cfg.NotifyTimeout)
		assert.Equal(t, "INR", cfg.PaymentCurrency)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("Missing DB host", func(t *testing.T) {
		t.Setenv("DB_HOST", "")
		t.Setenv("JWT_SECRET", "jwt-secret")

		cfg, err := LoadConfig()
		assert.ErrorIs(t, err, ErrMissingEnv)
		assert.Nil(t, cfg)
	})

	t.Run("Missing JWT secret", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("JWT_SECRET", "")

		_, err := LoadConfig()
		assert.ErrorIs(t, err, ErrMissingEnv)
	})

	t.Run("Invalid duration falls back to default", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("JWT_SECRET", "jwt-secret")
		t.Setenv("SESSION_TTL", "forever")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	})
}
