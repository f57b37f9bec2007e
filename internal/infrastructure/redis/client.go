// Package redis connects the social service to the Redis instance that caches
// login sessions.
package redis

import (
	"context"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/social/internal/config"
)

// clientName shows up in CLIENT LIST for connections opened by the session cache.
const clientName = "social-sessions"

// NewSessionCache opens the client behind repository/redis and fails unless Redis
// answers within five seconds.
func NewSessionCache(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*goRedis.Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts, err := sessionCacheOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := goRedis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := Ping(pingCtx, client); err != nil {
		client.Close()
		return nil, err
	}

	logger.Info("session cache connected", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	return client, nil
}

func sessionCacheOptions(cfg config.RedisConfig) (*goRedis.Options, error) {
	opts, err := goRedis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	opts.ClientName = clientName
	return opts, nil
}

// Ping reports whether the session cache answers; the monitor polls it.
func Ping(ctx context.Context, client *goRedis.Client) error {
	if client == nil {
		return goRedis.ErrClosed
	}
	return client.Ping(ctx).Err()
}

// HealthCheck binds Ping to client.
func HealthCheck(client *goRedis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return Ping(ctx, client)
	}
}
