package redis

import (
	"context"
	"testing"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/social/internal/config"
)

func TestSessionCacheOptions(t *testing.T) {
	opts, err := sessionCacheOptions(config.RedisConfig{
		URL:      "redis://cache:6379/0",
		Password: "secret",
		DB:       2,
	})
	require.NoError(t, err)

	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, clientName, opts.ClientName)
}

func TestSessionCacheOptionsRejectsBadURL(t *testing.T) {
	_, err := sessionCacheOptions(config.RedisConfig{URL: "http://cache"})
	assert.Error(t, err)
}

func TestHealthCheckWithoutClient(t *testing.T) {
	assert.ErrorIs(t, HealthCheck(nil)(context.Background()), goRedis.ErrClosed)
}
