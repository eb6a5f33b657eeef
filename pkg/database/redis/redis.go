package redis

import (
	"context"
	"fmt"
	"time"

	"myStorefront/pkg/config"

	"github.com/redis/go-redis/v9"
)

const defaultLookupTimeout = 500 * time.Millisecond

// options sizes the client for session token lookups, one short GET per
// authenticated request.
func options(cfg config.RedisConfig) *redis.Options {
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 10
	}

	return &redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Username:     cfg.RedisUsername,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		PoolSize:     poolSize,
		MinIdleConns: poolSize / 5,
	}
}

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(options(cfg.Redis))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// test connection
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// CloseRedisClient closes the Redis connection
func CloseRedisClient(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}

	return nil
}
