package services_test

import (
	"context"
	"strings"
	"sync"

	"github.com/chatori/chatori-backend/internal/domain/entities"
	"github.com/chatori/chatori-backend/internal/domain/repositories"
	apperrors "github.com/chatori/chatori-backend/pkg/errors"
)

// fakeStallRepo is an in-memory StallRepository for service tests.
type fakeStallRepo struct {
	mu     sync.Mutex
	stalls map[string]*entities.Stall
	order  []string
}

func newFakeStallRepo(stalls ...*entities.Stall) *fakeStallRepo {
	repo := &fakeStallRepo{stalls: make(map[string]*entities.Stall)}
	for _, stall := range stalls {
		repo.stalls[stall.ID] = stall
		repo.order = append(repo.order, stall.ID)
	}
	return repo
}

func (r *fakeStallRepo) Create(ctx context.Context, stall *entities.Stall) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stalls[stall.ID] = stall
	r.order = append(r.order, stall.ID)
	return nil
}

func (r *fakeStallRepo) GetByID(ctx context.Context, id string) (*entities.Stall, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stall, ok := r.stalls[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("stall not found")
	}
	copied := *stall
	return &copied, nil
}

func (r *fakeStallRepo) GetByIDs(ctx context.Context, ids []string) ([]*entities.Stall, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*entities.Stall, 0, len(ids))
	for _, id := range ids {
		if stall, ok := r.stalls[id]; ok {
			copied := *stall
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeStallRepo) Update(ctx context.Context, stall *entities.Stall) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stalls[stall.ID]; !ok {
		return apperrors.NewNotFoundError("stall not found")
	}
	r.stalls[stall.ID] = stall
	return nil
}

func (r *fakeStallRepo) List(ctx context.Context, filter repositories.StallFilter) ([]*entities.Stall, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*entities.Stall, 0, len(r.order))
	for _, id := range r.order {
		copied := *r.stalls[id]
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeStallRepo) AddImage(ctx context.Context, stallID, imageURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stall, ok := r.stalls[stallID]
	if !ok {
		return apperrors.NewNotFoundError("stall not found")
	}
	stall.AddImage(imageURL)
	return nil
}

func (r *fakeStallRepo) DistinctDishTypes(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	var result []string
	for _, id := range r.order {
		dt := r.stalls[id].DishType
		if dt != "" && !seen[dt] {
			seen[dt] = true
			result = append(result, dt)
		}
	}
	return result, nil
}

func (r *fakeStallRepo) DistinctAreas(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	var result []string
	for _, id := range r.order {
		area := r.stalls[id].Area
		if area != "" && !seen[area] {
			seen[area] = true
			result = append(result, area)
		}
	}
	return result, nil
}

// fakeSearchRepo records index operations and serves canned search
// results.
type fakeSearchRepo struct {
	mu         sync.Mutex
	indexed    []string
	deleted    []string
	results    []*entities.Stall
	searchErr  error
	lastParams *repositories.SearchParams
}

func (r *fakeSearchRepo) Search(ctx context.Context, params repositories.SearchParams) ([]*entities.Stall, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	recorded := params
	r.lastParams = &recorded
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	return r.results, nil
}

func (r *fakeSearchRepo) Index(ctx context.Context, stall *entities.Stall) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexed = append(r.indexed, stall.ID)
	return nil
}

func (r *fakeSearchRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, id)
	return nil
}

// fakeEventBus records published events and delivers them to
// subscribers.
type fakeEventBus struct {
	mu     sync.Mutex
	events []*entities.StallEvent
	subs   map[string][]chan *entities.StallEvent
}

func (b *fakeEventBus) Publish(ctx context.Context, channel string, event *entities.StallEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	for _, ch := range b.subs[channel] {
		ch <- event
	}
	return nil
}

func (b *fakeEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.StallEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[string][]chan *entities.StallEvent)
	}
	ch := make(chan *entities.StallEvent, 16)
	b.subs[channel] = append(b.subs[channel], ch)
	return ch, nil
}

func (b *fakeEventBus) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (b *fakeEventBus) Close() error { return nil }

func (b *fakeEventBus) published() []*entities.StallEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*entities.StallEvent(nil), b.events...)
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entities.User
}

func newFakeUserRepo(users ...*entities.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*entities.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return apperrors.NewConflictError("user already exists")
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	copied := *user
	copied.Favorites = append([]string(nil), user.Favorites...)
	return &copied, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return apperrors.NewNotFoundError("user not found")
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) AddFavorite(ctx context.Context, userID, stallID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return apperrors.NewNotFoundError("user not found")
	}
	user.AddFavorite(stallID)
	return nil
}

func (r *fakeUserRepo) RemoveFavorite(ctx context.Context, userID, stallID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return apperrors.NewNotFoundError("user not found")
	}
	user.RemoveFavorite(stallID)
	return nil
}

func (r *fakeUserRepo) ListFavorites(ctx context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	return append([]string(nil), user.Favorites...), nil
}

// fakeReviewRepo applies the same rating fold the SQL adapter performs.
type fakeReviewRepo struct {
	mu        sync.Mutex
	stallRepo *fakeStallRepo
	reviews   []*entities.Review
}

func (r *fakeReviewRepo) CreateWithRatingUpdate(ctx context.Context, review *entities.Review) (*entities.Stall, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stallRepo.mu.Lock()
	stall, ok := r.stallRepo.stalls[review.StallID]
	if !ok {
		r.stallRepo.mu.Unlock()
		return nil, apperrors.NewNotFoundError("stall not found")
	}
	stall.UpdateRating(review.Rating)
	copied := *stall
	r.stallRepo.mu.Unlock()

	r.reviews = append(r.reviews, review)
	return &copied, nil
}

func (r *fakeReviewRepo) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, review := range r.reviews {
		if review.ID == id {
			return review, nil
		}
	}
	return nil, apperrors.NewNotFoundError("review not found")
}

func (r *fakeReviewRepo) ListByStall(ctx context.Context, stallID string) ([]*entities.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entities.Review
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].StallID == stallID {
			result = append(result, r.reviews[i])
		}
	}
	return result, nil
}

func (r *fakeReviewRepo) ListByUser(ctx context.Context, userID string) ([]*entities.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entities.Review
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].UserID == userID {
			result = append(result, r.reviews[i])
		}
	}
	return result, nil
}

func (r *fakeReviewRepo) GetByUserAndStall(ctx context.Context, userID, stallID string) (*entities.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].UserID == userID && r.reviews[i].StallID == stallID {
			return r.reviews[i], nil
		}
	}
	return nil, apperrors.NewNotFoundError("review not found")
}

// fakeDishRepo is an in-memory DishRepository.
type fakeDishRepo struct {
	mu     sync.Mutex
	dishes map[string]*entities.Dish
	order  []string
}

func newFakeDishRepo(dishes ...*entities.Dish) *fakeDishRepo {
	repo := &fakeDishRepo{dishes: make(map[string]*entities.Dish)}
	for _, dish := range dishes {
		repo.dishes[dish.ID] = dish
		repo.order = append(repo.order, dish.ID)
	}
	return repo
}

func (r *fakeDishRepo) Create(ctx context.Context, dish *entities.Dish) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dishes[dish.ID] = dish
	r.order = append(r.order, dish.ID)
	return nil
}

func (r *fakeDishRepo) GetByID(ctx context.Context, id string) (*entities.Dish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dish, ok := r.dishes[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("dish not found")
	}
	copied := *dish
	copied.Tags = append([]string(nil), dish.Tags...)
	return &copied, nil
}

func (r *fakeDishRepo) GetByName(ctx context.Context, name string) (*entities.Dish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.order) - 1; i >= 0; i-- {
		if dish := r.dishes[r.order[i]]; dish.Name == name {
			copied := *dish
			copied.Tags = append([]string(nil), dish.Tags...)
			return &copied, nil
		}
	}
	return nil, apperrors.NewNotFoundError("dish not found")
}

func (r *fakeDishRepo) ListByStall(ctx context.Context, stallID string) ([]*entities.Dish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entities.Dish
	for _, id := range r.order {
		if r.dishes[id].StallID == stallID {
			copied := *r.dishes[id]
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeDishRepo) UpdateTags(ctx context.Context, dishID string, tags []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dish, ok := r.dishes[dishID]
	if !ok {
		return apperrors.NewNotFoundError("dish not found")
	}
	dish.Tags = append([]string(nil), tags...)
	return nil
}

// fakeCache is an in-memory CacheProvider with glob-suffix pattern
// deletes.
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache(keys ...string) *fakeCache {
	cache := &fakeCache{data: make(map[string][]byte)}
	for _, key := range keys {
		cache.data[key] = []byte("cached")
	}
	return cache
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.data[key]
	if !ok {
		return nil, apperrors.NewNotFoundError("cache miss")
	}
	return value, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

func (c *fakeCache) GetMulti(ctx context.Context, keys []string) (map[string][]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make(map[string][]byte)
	for _, key := range keys {
		if value, ok := c.data[key]; ok {
			result[key] = value
		}
	}
	return result, nil
}

func (c *fakeCache) SetMulti(ctx context.Context, items map[string][]byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, value := range items {
		c.data[key] = value
	}
	return nil
}

func (c *fakeCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}
