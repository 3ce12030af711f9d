package backends

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBackend checks the Redis client shared with the event bus
type RedisBackend struct {
	BaseBackend
	client *redis.Client
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, address, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// NewRedisBackend wraps an existing client. Close closes the client.
func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{
		BaseBackend: BaseBackend{backendType: "redis"},
		client:      client,
	}
}

// HealthCheck verifies Redis connectivity
func (b *RedisBackend) HealthCheck(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (b *RedisBackend) Close() error {
	return b.client.Close()
}
