package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/chatori/chatori-backend/internal/domain/providers"
)

// CacheConfig holds cache configuration for specific routes
type CacheConfig struct {
	TTLSeconds int
	Enabled    bool
}

// CacheMiddleware provides HTTP response caching
type CacheMiddleware struct {
	cache        providers.CacheProvider
	routeConfigs map[string]CacheConfig
}

// NewCacheMiddleware creates a new cache middleware
func NewCacheMiddleware(cache providers.CacheProvider) *CacheMiddleware {
	return &CacheMiddleware{
		cache: cache,
		routeConfigs: map[string]CacheConfig{
			"/api/stalls/discover":    {TTLSeconds: 120, Enabled: true},  // 2 minutes
			"/api/stalls/recommended": {TTLSeconds: 60, Enabled: true},   // 1 minute, feed should vary
			"/api/stalls/filters":     {TTLSeconds: 300, Enabled: true},  // 5 minutes
			"/api/geocode":            {TTLSeconds: 3600, Enabled: true}, // 1 hour
			"/api/reverse-geocode":    {TTLSeconds: 3600, Enabled: true}, // 1 hour
		},
	}
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only cache GET requests
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		if m.cache == nil {
			next.ServeHTTP(w, r)
			return
		}

		config := m.getRouteConfig(r.URL.Path)
		if !config.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		cacheKey := m.generateCacheKey(r)

		if cached, err := m.cache.Get(r.Context(), cacheKey); err == nil {
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}

		w.Header().Set("X-Cache", "MISS")

		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}

		next.ServeHTTP(recorder, r)

		// Only cache successful responses
		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := m.cache.Set(r.Context(), cacheKey, recorder.body.Bytes(), config.TTLSeconds); err != nil {
				log.Printf("Failed to cache response for %s: %v", cacheKey, err)
			}
		}
	})
}

// getRouteConfig gets the cache configuration for a route
func (m *CacheMiddleware) getRouteConfig(path string) CacheConfig {
	// Exact match first
	if config, exists := m.routeConfigs[path]; exists {
		return config
	}

	// Prefix match for dynamic routes
	for pattern, config := range m.routeConfigs {
		if strings.HasPrefix(path, pattern) {
			return config
		}
	}

	return CacheConfig{Enabled: false}
}

// generateCacheKey generates a cache key from the request. The path
// stays in the clear so invalidation can target routes by pattern;
// only the method and query string are hashed.
func (m *CacheMiddleware) generateCacheKey(r *http.Request) string {
	variant := r.Method
	if r.URL.RawQuery != "" {
		variant += "?" + r.URL.RawQuery
	}

	hash := sha256.Sum256([]byte(variant))
	return fmt.Sprintf("http:cache:%s:%s", r.URL.Path, hex.EncodeToString(hash[:]))
}

// responseRecorder captures the response for caching
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

// WriteHeader captures the status code
func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.written {
		r.statusCode = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
		r.written = true
	}
}

// Write captures the response body and writes to the client
func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}

	r.body.Write(data)

	return r.ResponseWriter.Write(data)
}

// CacheMiddlewareWithConfig creates a cache middleware with custom config
func CacheMiddlewareWithConfig(cache providers.CacheProvider, configs map[string]CacheConfig) func(http.Handler) http.Handler {
	m := &CacheMiddleware{
		cache:        cache,
		routeConfigs: configs,
	}
	return m.Middleware
}
