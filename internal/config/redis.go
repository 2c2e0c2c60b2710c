package config

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/docgrid/internal/logger"
)

// NewRedisClient connects to the cache Redis described by cfg.
// Returns nil, nil when no address is configured.
func NewRedisClient(ctx context.Context, cfg CacheConfig) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}

	logger.Debugf("NewRedisClient: addr=%s db=%d passwordSet=%v", cfg.RedisAddr, cfg.RedisDB, cfg.RedisPassword != "")

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		DB:       cfg.RedisDB,
		Password: cfg.RedisPassword,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis at %s: %w", cfg.RedisAddr, err)
	}

	logger.Debugf("NewRedisClient: connected to Redis")
	return client, nil
}
