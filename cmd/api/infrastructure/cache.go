package infrastructure

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"directory-service/internal/config"
	redisclient "directory-service/pkg/redis"
)

// NewRedisClient connects the redis instance shared by the user view cache
// and the rate limiter.
func NewRedisClient(ctx context.Context, cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	rdb, err := redisclient.NewClient(ctx, redisclient.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	l.Info("redis ready",
		zap.Bool("view_cache", cfg.Redis.CacheEnabled),
		zap.Int("view_cache_ttl_seconds", cfg.Redis.CacheTTL),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
	)

	return rdb, nil
}
