package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis. url may be a redis:// URL or a bare
// host:port.
func NewRedisClient(url, password string, db int) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		opts = &redis.Options{
			Addr:     url,
			Password: password,
			DB:       db,
		}
	}

	// The console only keeps a token and one snapshot in Redis.
	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.MaxRetries = 3

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", opts.Addr, err)
	}

	log.Println("Successfully connected to Redis")
	return client, nil
}

// RedisHealthCheck performs a health check on Redis connection
func RedisHealthCheck(client redis.Cmdable) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}

	return nil
}
