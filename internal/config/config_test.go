package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 50, cfg.Repair.BatchSize)
	assert.False(t, cfg.Repair.ReviveOnStart)
	assert.Contains(t, cfg.Database.URL, ":secret@")

	policy := cfg.RetryPolicy()
	assert.Equal(t, uint(5), policy.MaxAttempts)
	assert.Equal(t, 10*time.Millisecond, policy.InitialInterval)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "BOLT")
	t.Setenv("STORAGE_BOLT_PATH", "/tmp/social.db")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("REPAIR_SYNC_INTERVAL", "45")
	t.Setenv("REPAIR_MAX_RETRIES", "3")
	t.Setenv("REPAIR_REVIVE_ON_START", "true")
	t.Setenv("SAVE_MAX_ATTEMPTS", "8")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_HOST", "127.0.0.1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageBolt, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/social.db", cfg.Storage.BoltPath)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "127.0.0.1:9090", cfg.Address())

	processor := cfg.ProcessorConfig()
	assert.Equal(t, 45*time.Second, processor.Interval)
	assert.Equal(t, 3, processor.MaxRetries)
	assert.Equal(t, uint(8), cfg.RetryPolicy().MaxAttempts)
	assert.True(t, cfg.Repair.ReviveOnStart)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("STORAGE_DRIVER", "bolt")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SAVE_MAX_ATTEMPTS", "0")
	_, err = Load()
	assert.Error(t, err)
}
