package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "directory-service/internal/domain/user"
	redisclient "directory-service/pkg/redis"
)

const (
	viewKeyPrefix = "user:view:"
	purgeBatch    = 100
)

// UserViewCache defines the interface for caching denormalized user views.
type UserViewCache interface {
	// Get retrieves a view from cache by user ID.
	// Returns nil if the view is not cached.
	Get(ctx context.Context, id string) (*domain.View, error)

	// Set stores a view with the configured TTL.
	Set(ctx context.Context, view *domain.View) error

	// Delete removes a single view.
	Delete(ctx context.Context, id string) error

	// Purge removes every cached view. Place and district renames change
	// the names embedded in views, so the whole set is dropped.
	Purge(ctx context.Context) error
}

// RedisUserViewCache implements UserViewCache using Redis as the backing store.
type RedisUserViewCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisUserViewCache creates a new Redis-backed view cache.
func NewRedisUserViewCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisUserViewCache {
	return &RedisUserViewCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func cacheKey(id string) string {
	return viewKeyPrefix + id
}

// Get retrieves a view from Redis.
func (c *RedisUserViewCache) Get(ctx context.Context, id string) (*domain.View, error) {
	data, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.log.Debug("cache miss", zap.String("user_id", id))
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	var view domain.View
	if err := json.Unmarshal(data, &view); err != nil {
		c.log.Error("failed to unmarshal cached view", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	c.log.Debug("cache hit", zap.String("user_id", id))
	return &view, nil
}

// Set stores a view in Redis with TTL.
func (c *RedisUserViewCache) Set(ctx context.Context, view *domain.View) error {
	if view == nil {
		return fmt.Errorf("cannot cache nil view")
	}

	data, err := json.Marshal(view)
	if err != nil {
		c.log.Error("failed to marshal view for cache", zap.String("user_id", view.ID), zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, cacheKey(view.ID), data, c.ttl).Err(); err != nil {
		c.log.Error("failed to set cache", zap.String("user_id", view.ID), zap.Error(err))
		return err
	}

	c.log.Debug("cached view", zap.String("user_id", view.ID), zap.Duration("ttl", c.ttl))
	return nil
}

// Delete removes a view from Redis.
func (c *RedisUserViewCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		c.log.Error("failed to delete from cache", zap.String("user_id", id), zap.Error(err))
		return err
	}

	c.log.Debug("deleted from cache", zap.String("user_id", id))
	return nil
}

// Purge deletes every view key in SCAN batches.
func (c *RedisUserViewCache) Purge(ctx context.Context) error {
	deleted, err := redisclient.DeleteByPrefix(ctx, c.client, viewKeyPrefix, purgeBatch)
	if err != nil {
		c.log.Error("failed to purge cached views", zap.Int("deleted", deleted), zap.Error(err))
		return err
	}

	c.log.Debug("purged cached views", zap.Int("count", deleted))
	return nil
}
