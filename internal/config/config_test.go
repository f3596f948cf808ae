package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/inzicht_test")
	t.Setenv("CLERK_SECRET_KEY", "sk_test_123")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":3333", cfg.Addr())
	assert.Equal(t, 2, cfg.DefaultDailyGoal)
	assert.Equal(t, 5.0, cfg.RateLimitRPS)
	assert.Equal(t, 30, cfg.RateLimitBurst)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.Equal(t, int32(5), cfg.DBMinConns)
	assert.Equal(t, 20, cfg.ReminderHour)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("DEFAULT_DAILY_GOAL", "0")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 0, cfg.DefaultDailyGoal)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Run("missing database url", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("CLERK_SECRET_KEY", "sk_test_123")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("negative daily goal", func(t *testing.T) {
		setRequired(t)
		t.Setenv("DEFAULT_DAILY_GOAL", "-1")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("reminder hour out of range", func(t *testing.T) {
		setRequired(t)
		t.Setenv("REMINDER_HOUR", "24")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("non numeric burst", func(t *testing.T) {
		setRequired(t)
		t.Setenv("RATE_LIMIT_BURST", "lots")
		_, err := Load()
		assert.Error(t, err)
	})
}
