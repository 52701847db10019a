package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chatori/chatori-backend/internal/domain/providers"
	redisclient "github.com/chatori/chatori-backend/internal/infrastructure/clients/redis"
)

// RedisAdapter implements the CacheProvider interface using Redis
type RedisAdapter struct {
	client *redisclient.Client
}

// NewRedisAdapter creates a new Redis cache adapter
func NewRedisAdapter(client *redisclient.Client) providers.CacheProvider {
	return &RedisAdapter{
		client: client,
	}
}

// Get retrieves a value from cache
func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := a.client.Client().Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get from cache: %w", err)
	}
	return result, nil
}

// Set stores a value in cache with expiration
func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	expiration := time.Duration(expirationSeconds) * time.Second
	if err := a.client.Client().Set(ctx, key, value, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set in cache: %w", err)
	}
	return nil
}

// Delete removes a value from cache
func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.client.Client().Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete from cache: %w", err)
	}
	return nil
}

// Exists checks if a key exists in cache
func (a *RedisAdapter) Exists(ctx context.Context, key string) (bool, error) {
	result, err := a.client.Client().Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check existence in cache: %w", err)
	}
	return result > 0, nil
}

// GetMulti retrieves multiple keys in one round trip. Keys that are
// missing or hold non-string values are absent from the result map.
func (a *RedisAdapter) GetMulti(ctx context.Context, keys []string) (map[string][]byte, error) {
	if len(keys) == 0 {
		return map[string][]byte{}, nil
	}

	values, err := a.client.Client().MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to mget from cache: %w", err)
	}

	result := make(map[string][]byte, len(keys))
	for i, value := range values {
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok {
			result[keys[i]] = []byte(s)
		}
	}
	return result, nil
}

// SetMulti stores multiple values with a shared expiration using a pipeline
func (a *RedisAdapter) SetMulti(ctx context.Context, items map[string][]byte, expirationSeconds int) error {
	if len(items) == 0 {
		return nil
	}

	expiration := time.Duration(expirationSeconds) * time.Second
	pipe := a.client.Client().Pipeline()
	for key, value := range items {
		pipe.Set(ctx, key, value, expiration)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set multiple keys in cache: %w", err)
	}
	return nil
}

// DeletePattern removes all keys matching a glob pattern. SCAN is used
// instead of KEYS so the server is never blocked on large keyspaces.
func (a *RedisAdapter) DeletePattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := a.client.Client().Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			if err := a.client.Client().Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete matched keys: %w", err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
