// Package cache wraps Redis for the two small caching concerns the engine
// has: payoff quote storage and webhook event deduplication.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// eventTTL bounds the dedup window. The provider stops redelivering long
// before a day, so keys may expire without reopening a replay hole.
const eventTTL = 24 * time.Hour

type Redis struct {
	client *redis.Client
}

// NewRedis connects to Redis and verifies the connection. Callers treat a
// nil *Redis as "caching disabled".
func NewRedis(ctx context.Context, addr string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	zap.L().Info("connected to redis", zap.String("addr", addr))
	return &Redis{client: client}, nil
}

// Get returns (nil, nil) on a cache miss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// SeenEvent atomically records an event ID and reports whether it had been
// recorded before. SETNX makes first-writer-wins exact even across replicas
// of this service.
func (r *Redis) SeenEvent(ctx context.Context, eventID string) (bool, error) {
	set, err := r.client.SetNX(ctx, "webhook-event:"+eventID, 1, eventTTL).Result()
	if err != nil {
		return false, err
	}
	return !set, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
