package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatori/chatori-backend/internal/api/middleware"
)

type mapCache struct {
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, ok := c.data[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return value, nil
}

func (c *mapCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *mapCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.data[key]
	return ok, nil
}

func (c *mapCache) GetMulti(ctx context.Context, keys []string) (map[string][]byte, error) {
	result := make(map[string][]byte)
	for _, key := range keys {
		if value, ok := c.data[key]; ok {
			result[key] = value
		}
	}
	return result, nil
}

func (c *mapCache) SetMulti(ctx context.Context, items map[string][]byte, expirationSeconds int) error {
	for key, value := range items {
		c.data[key] = value
	}
	return nil
}

func (c *mapCache) DeletePattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
	return nil
}

func TestCacheMiddleware_HitAfterMiss(t *testing.T) {
	cache := newMapCache()
	m := middleware.NewCacheMiddleware(cache)

	calls := 0
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"results":[]}`))
	}))

	req := httptest.NewRequest("GET", "/api/stalls/discover?dishType=chaat", nil)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)
}

func TestCacheMiddleware_KeysAreAddressableByRoute(t *testing.T) {
	cache := newMapCache()
	m := middleware.NewCacheMiddleware(cache)

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))

	req := httptest.NewRequest("GET", "/api/stalls/discover?dishType=chaat", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	// The path stays in the clear, so invalidation can target stall
	// routes without knowing each query-string variant
	found := false
	for key := range cache.data {
		if strings.HasPrefix(key, "http:cache:/api/stalls/discover:") {
			found = true
		}
	}
	require.True(t, found)

	require.NoError(t, cache.DeletePattern(context.Background(), "http:cache:/api/stalls/*"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"), "the invalidated route is re-fetched")
}

func TestCacheMiddleware_OnlyCachesConfiguredRoutes(t *testing.T) {
	cache := newMapCache()
	m := middleware.NewCacheMiddleware(cache)

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))

	req := httptest.NewRequest("GET", "/api/users/u1", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Empty(t, cache.data)
}

func TestCacheMiddleware_SkipsNonGET(t *testing.T) {
	cache := newMapCache()
	m := middleware.NewCacheMiddleware(cache)

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))

	req := httptest.NewRequest("POST", "/api/stalls/discover", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Empty(t, cache.data)
}
