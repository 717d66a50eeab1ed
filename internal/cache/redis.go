package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"unisms/internal/config"
)

func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// GetJSON decodes the value stored at key into out. It reports false on a
// cache miss or when client is nil.
func GetJSON(ctx context.Context, client *redis.Client, key string, out any) (bool, error) {
	if client == nil {
		return false, nil
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func SetJSON(ctx context.Context, client *redis.Client, key string, value any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return client.Set(ctx, key, raw, ttl).Err()
}

// Delete removes key. A nil client is a no-op.
func Delete(ctx context.Context, client *redis.Client, key string) error {
	if client == nil {
		return nil
	}
	return client.Del(ctx, key).Err()
}

// Acquire takes a short-lived SETNX lock. A nil client always acquires.
func Acquire(ctx context.Context, client *redis.Client, key string, ttl time.Duration) (release func(), ok bool, err error) {
	noop := func() {}
	if client == nil {
		return noop, true, nil
	}
	acquired, err := client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return noop, false, err
	}
	if !acquired {
		return noop, false, nil
	}
	return func() { client.Del(context.WithoutCancel(ctx), key) }, true, nil
}
