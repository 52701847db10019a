package services

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/chatori/chatori-backend/internal/domain/entities"
	"github.com/chatori/chatori-backend/internal/domain/providers"
	"github.com/chatori/chatori-backend/internal/domain/repositories"
	apperrors "github.com/chatori/chatori-backend/pkg/errors"
)

// candidateFetchLimit caps how many stalls one discovery query pulls
// from storage before in-memory filtering.
const candidateFetchLimit = 500

// recommendedPoolSize is how many top-rated stalls feed the shuffled
// recommendation feed.
const recommendedPoolSize = 20

// StallService handles business logic for stalls
type StallService struct {
	repo       repositories.StallRepository
	searchRepo repositories.StallSearchRepository
	discovery  *DiscoveryService
	eventBus   providers.EventBus
}

// NewStallService creates a new stall service
func NewStallService(
	repo repositories.StallRepository,
	searchRepo repositories.StallSearchRepository,
	discovery *DiscoveryService,
	eventBus providers.EventBus,
) *StallService {
	return &StallService{
		repo:       repo,
		searchRepo: searchRepo,
		discovery:  discovery,
		eventBus:   eventBus,
	}
}

// FilterOptions holds the values the clients can filter stalls by.
type FilterOptions struct {
	DishTypes []string `json:"dish_types"`
	Areas     []string `json:"areas"`
}

// Create validates, defaults and persists a new stall, then indexes it
func (s *StallService) Create(ctx context.Context, stall *entities.Stall) error {
	if stall == nil {
		return apperrors.NewValidationError("stall is required")
	}

	if stall.ID == "" {
		stall.ID = uuid.New().String()
	}
	now := time.Now()
	stall.CreatedAt = now
	stall.UpdatedAt = now
	stall.Rating = 0
	stall.NumRatings = 0
	stall.ApplyDefaults()

	if err := s.repo.Create(ctx, stall); err != nil {
		return err
	}

	// Index in search engine; log but don't fail (eventual consistency)
	if s.searchRepo != nil {
		if err := s.searchRepo.Index(ctx, stall); err != nil {
			log.Printf("Warning: Failed to index stall %s: %v", stall.ID, err)
		}
	}

	s.publishEvent(ctx, entities.StallEventCreated, stall)

	return nil
}

// GetByID retrieves a stall by ID
func (s *StallService) GetByID(ctx context.Context, id string) (*entities.Stall, error) {
	stall, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stall.ApplyDefaults()
	return stall, nil
}

// Update updates a stall's descriptive fields and refreshes the index
func (s *StallService) Update(ctx context.Context, stall *entities.Stall) error {
	if stall == nil || stall.ID == "" {
		return apperrors.NewValidationError("stall id is required")
	}

	stall.ApplyDefaults()

	if err := s.repo.Update(ctx, stall); err != nil {
		return err
	}

	if s.searchRepo != nil {
		if err := s.searchRepo.Index(ctx, stall); err != nil {
			log.Printf("Warning: Failed to update stall index %s: %v", stall.ID, err)
		}
	}

	s.publishEvent(ctx, entities.StallEventUpdated, stall)

	return nil
}

// List retrieves stalls with filters
func (s *StallService) List(ctx context.Context, filter repositories.StallFilter) ([]*entities.Stall, error) {
	stalls, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, stall := range stalls {
		stall.ApplyDefaults()
	}
	return stalls, nil
}

// Discover runs the discovery engine over a candidate set. When a
// search index is configured it narrows the candidates server-side;
// otherwise, and whenever the index cannot serve the query, the full
// stored set is used. The engine applies every filter either way, so
// the index is an optimization, not the contract.
func (s *StallService) Discover(ctx context.Context, params DiscoveryParams) ([]DiscoveryResult, error) {
	stalls := s.searchCandidates(ctx, params)
	if stalls == nil {
		var err error
		stalls, err = s.repo.List(ctx, repositories.StallFilter{Limit: candidateFetchLimit})
		if err != nil {
			return nil, err
		}
	}
	for _, stall := range stalls {
		stall.ApplyDefaults()
	}
	return s.discovery.Discover(stalls, params), nil
}

// searchCandidates asks the search index for a candidate set and
// hydrates the hits from the primary store. A nil return means the
// caller should fall back to listing the store; an empty hit list
// falls back too, so a cold or stale index never hides stalls the
// store still has.
func (s *StallService) searchCandidates(ctx context.Context, params DiscoveryParams) []*entities.Stall {
	if s.searchRepo == nil {
		return nil
	}

	searchParams := repositories.SearchParams{
		Query: params.Query,
		Limit: candidateFetchLimit,
	}
	if params.UserLocation != nil {
		searchParams.Latitude = params.UserLocation.Latitude
		searchParams.Longitude = params.UserLocation.Longitude
		if params.RadiusKm > 0 {
			searchParams.RadiusKm = params.RadiusKm
		}
	}

	hits, err := s.searchRepo.Search(ctx, searchParams)
	if err != nil {
		log.Printf("Warning: Search-backed discovery failed, falling back to store: %v", err)
		return nil
	}
	if len(hits) == 0 {
		return nil
	}

	ids := make([]string, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.ID)
	}

	stalls, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		log.Printf("Warning: Failed to hydrate search hits, falling back to store: %v", err)
		return nil
	}
	if len(stalls) == 0 {
		return nil
	}

	return stalls
}

// Recommended returns a shuffled sample of the top-rated stalls, so
// the home feed varies between refreshes without losing quality.
func (s *StallService) Recommended(ctx context.Context, limit int) ([]*entities.Stall, error) {
	if limit <= 0 {
		limit = 10
	}

	stalls, err := s.repo.List(ctx, repositories.StallFilter{Limit: candidateFetchLimit})
	if err != nil {
		return nil, err
	}
	for _, stall := range stalls {
		stall.ApplyDefaults()
	}

	results := s.discovery.Discover(stalls, DiscoveryParams{Sort: SortRatingDesc})

	pool := len(results)
	if pool > recommendedPoolSize {
		pool = recommendedPoolSize
	}

	top := make([]*entities.Stall, pool)
	for i := 0; i < pool; i++ {
		top[i] = results[i].Stall
	}

	rand.Shuffle(len(top), func(i, j int) {
		top[i], top[j] = top[j], top[i]
	})

	if len(top) > limit {
		top = top[:limit]
	}

	return top, nil
}

// AddImage appends an image URL to a stall
func (s *StallService) AddImage(ctx context.Context, stallID, imageURL string) (*entities.Stall, error) {
	if imageURL == "" {
		return nil, apperrors.NewValidationError("image url is required")
	}

	if err := s.repo.AddImage(ctx, stallID, imageURL); err != nil {
		return nil, err
	}

	stall, err := s.repo.GetByID(ctx, stallID)
	if err != nil {
		return nil, err
	}

	if s.searchRepo != nil {
		if err := s.searchRepo.Index(ctx, stall); err != nil {
			log.Printf("Warning: Failed to update stall index %s: %v", stall.ID, err)
		}
	}

	s.publishEvent(ctx, entities.StallEventUpdated, stall)

	return stall, nil
}

// FilterOptions returns the distinct dish types and areas clients can
// offer as filter choices.
func (s *StallService) FilterOptions(ctx context.Context) (*FilterOptions, error) {
	dishTypes, err := s.repo.DistinctDishTypes(ctx)
	if err != nil {
		return nil, err
	}

	areas, err := s.repo.DistinctAreas(ctx)
	if err != nil {
		return nil, err
	}

	return &FilterOptions{
		DishTypes: dishTypes,
		Areas:     areas,
	}, nil
}

// ApplyRatingUpdate reflects an externally computed rating change in
// the search index and on the event bus.
func (s *StallService) ApplyRatingUpdate(ctx context.Context, stall *entities.Stall) {
	if s.searchRepo != nil {
		if err := s.searchRepo.Index(ctx, stall); err != nil {
			log.Printf("Warning: Failed to update stall index %s: %v", stall.ID, err)
		}
	}
	s.publishEvent(ctx, entities.StallEventRatingUpdated, stall)
}

func (s *StallService) publishEvent(ctx context.Context, eventType entities.StallEventType, stall *entities.Stall) {
	if s.eventBus == nil {
		return
	}

	event := &entities.StallEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		StallID:   stall.ID,
		Payload:   stall,
		Timestamp: time.Now(),
	}

	if err := s.eventBus.Publish(ctx, providers.EventChannelStallUpdates, event); err != nil {
		log.Printf("Warning: Failed to publish %s event for stall %s: %v", eventType, stall.ID, err)
	}
}
