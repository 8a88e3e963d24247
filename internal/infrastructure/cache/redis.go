package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisAssetCache implements AssetCache using Redis. This is suitable
// for distributed deployments where multiple renderer instances share
// the same fetched assets.
type RedisAssetCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisAssetCache creates a new Redis-backed asset cache
func NewRedisAssetCache(cfg RedisConfig) (*RedisAssetCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisAssetCache{
		client:    client,
		keyPrefix: "render:asset:",
	}, nil
}

// NewRedisAssetCacheWithClient creates a cache with an existing Redis
// client. This is useful for testing or when sharing a client across
// components.
func NewRedisAssetCacheWithClient(client *redis.Client, keyPrefix string) *RedisAssetCache {
	if keyPrefix == "" {
		keyPrefix = "render:asset:"
	}
	return &RedisAssetCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get returns the cached bytes for a URL, or (nil, false) on a miss
func (c *RedisAssetCache) Get(ctx context.Context, url string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+url).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached asset: %w", err)
	}
	return data, true, nil
}

// Set stores the bytes for a URL with a TTL
func (c *RedisAssetCache) Set(ctx context.Context, url string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+url, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache asset: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisAssetCache) Close() error {
	return c.client.Close()
}

var _ AssetCache = (*RedisAssetCache)(nil)
