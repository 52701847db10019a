package providers

import (
	"context"
)

// CacheProvider defines the interface for caching operations
type CacheProvider interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)

	// GetMulti retrieves multiple keys at once; missing keys are simply
	// absent from the result map
	GetMulti(ctx context.Context, keys []string) (map[string][]byte, error)

	// SetMulti stores multiple values with a shared expiration
	SetMulti(ctx context.Context, items map[string][]byte, expirationSeconds int) error

	// DeletePattern removes all keys matching a glob pattern
	DeletePattern(ctx context.Context, pattern string) error
}
