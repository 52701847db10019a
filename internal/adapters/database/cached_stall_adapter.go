package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/chatori/chatori-backend/internal/domain/entities"
	"github.com/chatori/chatori-backend/internal/domain/providers"
	"github.com/chatori/chatori-backend/internal/domain/repositories"
)

// CachedStallAdapter wraps StallAdapter with caching
type CachedStallAdapter struct {
	adapter repositories.StallRepository
	cache   providers.CacheProvider
}

// NewCachedStallAdapter creates a new cached stall adapter
func NewCachedStallAdapter(adapter repositories.StallRepository, cache providers.CacheProvider) repositories.StallRepository {
	return &CachedStallAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	stallByIDTTL    = 300 // 5 minutes for single stall
	stallsListTTL   = 180 // 3 minutes for lists
	stallFiltersTTL = 120 // 2 minutes for filter option lists
)

// Cache key generators
func stallCacheKey(id string) string {
	return fmt.Sprintf("stall:%s", id)
}

func stallsListCacheKey(filter repositories.StallFilter) string {
	return fmt.Sprintf("stalls:list:%s:%s:%s:%d:%d",
		filter.DishType, filter.Area, filter.CreatedBy, filter.Limit, filter.Offset)
}

func stallFiltersCacheKey(column string) string {
	return fmt.Sprintf("stalls:filters:%s", column)
}

// GetByID retrieves a stall by ID with caching
func (a *CachedStallAdapter) GetByID(ctx context.Context, id string) (*entities.Stall, error) {
	cacheKey := stallCacheKey(id)

	// Try to get from cache first
	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var stall entities.Stall
		if err := json.Unmarshal(cached, &stall); err == nil {
			return &stall, nil
		}
		// If unmarshal fails, continue to fetch from DB
		log.Printf("Failed to unmarshal cached stall %s: %v", id, err)
	}

	// Cache miss - fetch from database
	stall, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(stall); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, stallByIDTTL); err != nil {
				log.Printf("Failed to cache stall %s: %v", id, err)
			}
		}
	}()

	return stall, nil
}

// GetByIDs retrieves multiple stalls by IDs with batch caching
func (a *CachedStallAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Stall, error) {
	if len(ids) == 0 {
		return []*entities.Stall{}, nil
	}

	cacheKeys := make([]string, len(ids))
	for i, id := range ids {
		cacheKeys[i] = stallCacheKey(id)
	}

	cached, _ := a.cache.GetMulti(ctx, cacheKeys)

	byID := make(map[string]*entities.Stall, len(ids))
	missingIDs := make([]string, 0)

	for i, id := range ids {
		if data, ok := cached[cacheKeys[i]]; ok {
			var stall entities.Stall
			if err := json.Unmarshal(data, &stall); err == nil {
				byID[id] = &stall
				continue
			}
		}
		missingIDs = append(missingIDs, id)
	}

	if len(missingIDs) > 0 {
		dbStalls, err := a.adapter.GetByIDs(ctx, missingIDs)
		if err != nil {
			return nil, err
		}

		for _, stall := range dbStalls {
			byID[stall.ID] = stall
		}

		// Cache the missing stalls asynchronously using batch operation
		go func() {
			bgCtx := context.Background()
			items := make(map[string][]byte)
			for _, stall := range dbStalls {
				if data, err := json.Marshal(stall); err == nil {
					items[stallCacheKey(stall.ID)] = data
				}
			}
			if len(items) > 0 {
				if err := a.cache.SetMulti(bgCtx, items, stallByIDTTL); err != nil {
					log.Printf("Failed to batch cache stalls: %v", err)
				}
			}
		}()
	}

	// Preserve the caller's ID order; missing IDs are skipped.
	stalls := make([]*entities.Stall, 0, len(byID))
	for _, id := range ids {
		if stall, ok := byID[id]; ok {
			stalls = append(stalls, stall)
		}
	}

	return stalls, nil
}

// List retrieves a list of stalls with caching
func (a *CachedStallAdapter) List(ctx context.Context, filter repositories.StallFilter) ([]*entities.Stall, error) {
	cacheKey := stallsListCacheKey(filter)

	// Try to get from cache first
	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var stalls []*entities.Stall
		if err := json.Unmarshal(cached, &stalls); err == nil {
			return stalls, nil
		}
		log.Printf("Failed to unmarshal cached stalls list: %v", err)
	}

	// Cache miss - fetch from database
	stalls, err := a.adapter.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(stalls); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, stallsListTTL); err != nil {
				log.Printf("Failed to cache stalls list: %v", err)
			}
		}
	}()

	return stalls, nil
}

// Create creates a stall and invalidates related caches
func (a *CachedStallAdapter) Create(ctx context.Context, stall *entities.Stall) error {
	err := a.adapter.Create(ctx, stall)
	if err != nil {
		return err
	}

	go a.invalidateDerivedCaches()

	return nil
}

// Update updates a stall and invalidates its cache
func (a *CachedStallAdapter) Update(ctx context.Context, stall *entities.Stall) error {
	err := a.adapter.Update(ctx, stall)
	if err != nil {
		return err
	}

	go func() {
		bgCtx := context.Background()
		if err := a.cache.Delete(bgCtx, stallCacheKey(stall.ID)); err != nil {
			log.Printf("Failed to invalidate stall cache %s: %v", stall.ID, err)
		}
		a.invalidateDerivedCaches()
	}()

	return nil
}

// AddImage appends an image URL and invalidates the stall's cache
func (a *CachedStallAdapter) AddImage(ctx context.Context, stallID, imageURL string) error {
	err := a.adapter.AddImage(ctx, stallID, imageURL)
	if err != nil {
		return err
	}

	go func() {
		bgCtx := context.Background()
		if err := a.cache.Delete(bgCtx, stallCacheKey(stallID)); err != nil {
			log.Printf("Failed to invalidate stall cache %s: %v", stallID, err)
		}
		if err := a.cache.DeletePattern(bgCtx, "stalls:list:*"); err != nil {
			log.Printf("Failed to invalidate stalls list cache: %v", err)
		}
	}()

	return nil
}

// DistinctDishTypes returns every dish type present in the store, cached
func (a *CachedStallAdapter) DistinctDishTypes(ctx context.Context) ([]string, error) {
	return a.cachedDistinct(ctx, "dish_type", a.adapter.DistinctDishTypes)
}

// DistinctAreas returns every area present in the store, cached
func (a *CachedStallAdapter) DistinctAreas(ctx context.Context) ([]string, error) {
	return a.cachedDistinct(ctx, "area", a.adapter.DistinctAreas)
}

func (a *CachedStallAdapter) cachedDistinct(ctx context.Context, column string, fetch func(context.Context) ([]string, error)) ([]string, error) {
	cacheKey := stallFiltersCacheKey(column)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var values []string
		if err := json.Unmarshal(cached, &values); err == nil {
			return values, nil
		}
		log.Printf("Failed to unmarshal cached filter values: %v", err)
	}

	values, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(values); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, stallFiltersTTL); err != nil {
				log.Printf("Failed to cache filter values: %v", err)
			}
		}
	}()

	return values, nil
}

func (a *CachedStallAdapter) invalidateDerivedCaches() {
	bgCtx := context.Background()
	if err := a.cache.DeletePattern(bgCtx, "stalls:list:*"); err != nil {
		log.Printf("Failed to invalidate stalls list cache: %v", err)
	}
	if err := a.cache.DeletePattern(bgCtx, "stalls:filters:*"); err != nil {
		log.Printf("Failed to invalidate stall filters cache: %v", err)
	}
}
