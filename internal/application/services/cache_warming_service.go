package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/chatori/chatori-backend/internal/domain/providers"
	"github.com/chatori/chatori-backend/internal/domain/repositories"
)

// CacheWarmingService pre-fills the cache with the stall data the
// mobile clients hit on every app open.
type CacheWarmingService struct {
	stallRepo repositories.StallRepository
	cache     providers.CacheProvider
}

// NewCacheWarmingService creates a new cache warming service
func NewCacheWarmingService(
	stallRepo repositories.StallRepository,
	cache providers.CacheProvider,
) *CacheWarmingService {
	return &CacheWarmingService{
		stallRepo: stallRepo,
		cache:     cache,
	}
}

// WarmCache warms the cache with frequently accessed data
func (s *CacheWarmingService) WarmCache(ctx context.Context) error {
	log.Println("Starting cache warming...")

	if err := s.warmStalls(ctx); err != nil {
		log.Printf("Failed to warm stalls: %v", err)
	}

	if err := s.warmStallLists(ctx); err != nil {
		log.Printf("Failed to warm stall lists: %v", err)
	}

	log.Println("Cache warming completed")
	return nil
}

// warmStalls caches individual stall records
func (s *CacheWarmingService) warmStalls(ctx context.Context) error {
	stalls, err := s.stallRepo.List(ctx, repositories.StallFilter{
		Limit:  50,
		Offset: 0,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch stalls: %w", err)
	}

	items := make(map[string][]byte)
	for _, stall := range stalls {
		data, err := json.Marshal(stall)
		if err != nil {
			log.Printf("Failed to marshal stall %s: %v", stall.ID, err)
			continue
		}
		items[fmt.Sprintf("stall:%s", stall.ID)] = data
	}

	if len(items) > 0 {
		if err := s.cache.SetMulti(ctx, items, 300); err != nil {
			return fmt.Errorf("failed to cache stalls: %w", err)
		}
		log.Printf("Warmed cache with %d stalls", len(items))
	}

	return nil
}

// warmStallLists caches the first few pages of the stall list
func (s *CacheWarmingService) warmStallLists(ctx context.Context) error {
	for page := 0; page < 3; page++ {
		stalls, err := s.stallRepo.List(ctx, repositories.StallFilter{
			Limit:  20,
			Offset: page * 20,
		})
		if err != nil {
			log.Printf("Failed to fetch stalls page %d: %v", page, err)
			continue
		}

		data, err := json.Marshal(stalls)
		if err != nil {
			log.Printf("Failed to marshal stall list page %d: %v", page, err)
			continue
		}

		key := fmt.Sprintf("stalls:list::::%d:%d", 20, page*20)
		if err := s.cache.Set(ctx, key, data, 180); err != nil {
			log.Printf("Failed to cache stall list page %d: %v", page, err)
		}
	}

	log.Println("Warmed cache with stall lists")
	return nil
}

// StartPeriodicWarming starts a background goroutine that periodically warms the cache
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) {
	if err := s.WarmCache(ctx); err != nil {
		log.Printf("Initial cache warming failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Println("Stopping cache warming service")
				return
			case <-ticker.C:
				if err := s.WarmCache(context.Background()); err != nil {
					log.Printf("Periodic cache warming failed: %v", err)
				}
			}
		}
	}()
	log.Printf("Started periodic cache warming every %v", interval)
}

// InvalidateCache invalidates all cached stall data (useful after bulk updates)
func (s *CacheWarmingService) InvalidateCache(ctx context.Context) error {
	patterns := []string{
		"stall:*",
		"stalls:*",
	}

	for _, pattern := range patterns {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			log.Printf("Failed to invalidate cache pattern %s: %v", pattern, err)
		}
	}

	log.Println("Cache invalidated")
	return nil
}
