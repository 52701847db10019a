package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chatori/chatori-backend/internal/domain/entities"
	"github.com/chatori/chatori-backend/internal/domain/providers"
)

// invalidationTimeout bounds each cache cleanup triggered by an event.
const invalidationTimeout = 5 * time.Second

// CacheInvalidationService consumes stall events from the event bus
// and drops the cache entries the change made stale. Without it, a
// fresh review keeps serving the pre-review rating until the TTLs run
// out.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start subscribes to stall updates and begins processing events.
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelStallUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to stall updates: %w", err)
	}

	go s.processEvents(eventChan)

	log.Println("Cache invalidation service started")
	return nil
}

// Stop stops the event processing loop.
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	log.Println("Cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.StallEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *CacheInvalidationService) handleEvent(event *entities.StallEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), invalidationTimeout)
	defer cancel()

	if err := s.cache.Delete(ctx, fmt.Sprintf("stall:%s", event.StallID)); err != nil {
		log.Printf("Warning: Failed to invalidate stall cache for %s: %v", event.StallID, err)
	}

	// List caches and cached HTTP responses embed stall fields, so any
	// stall change makes them stale.
	patterns := []string{
		"stalls:list:*",
		"http:cache:/api/stalls/*",
	}

	// Rating changes don't touch dish types or areas, so the filter
	// options cache only turns over on create and descriptive updates.
	if event.Type != entities.StallEventRatingUpdated {
		patterns = append(patterns, "stalls:filters:*")
	}

	for _, pattern := range patterns {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			log.Printf("Warning: Failed to invalidate cache pattern %s: %v", pattern, err)
		}
	}
}
