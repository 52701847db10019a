package handlers_test

import (
	"context"

	"github.com/chatori/chatori-backend/internal/application/services"
	"github.com/chatori/chatori-backend/internal/domain/entities"
	"github.com/chatori/chatori-backend/internal/domain/repositories"
	apperrors "github.com/chatori/chatori-backend/pkg/errors"
)

// memStallRepo is a minimal in-memory StallRepository backing handler tests.
type memStallRepo struct {
	stalls map[string]*entities.Stall
	order  []string
}

func newMemStallRepo(stalls ...*entities.Stall) *memStallRepo {
	repo := &memStallRepo{stalls: make(map[string]*entities.Stall)}
	for _, stall := range stalls {
		repo.stalls[stall.ID] = stall
		repo.order = append(repo.order, stall.ID)
	}
	return repo
}

func (r *memStallRepo) Create(ctx context.Context, stall *entities.Stall) error {
	r.stalls[stall.ID] = stall
	r.order = append(r.order, stall.ID)
	return nil
}

func (r *memStallRepo) GetByID(ctx context.Context, id string) (*entities.Stall, error) {
	stall, ok := r.stalls[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("stall not found")
	}
	copied := *stall
	return &copied, nil
}

func (r *memStallRepo) GetByIDs(ctx context.Context, ids []string) ([]*entities.Stall, error) {
	result := make([]*entities.Stall, 0, len(ids))
	for _, id := range ids {
		if stall, ok := r.stalls[id]; ok {
			copied := *stall
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *memStallRepo) Update(ctx context.Context, stall *entities.Stall) error {
	if _, ok := r.stalls[stall.ID]; !ok {
		return apperrors.NewNotFoundError("stall not found")
	}
	r.stalls[stall.ID] = stall
	return nil
}

func (r *memStallRepo) List(ctx context.Context, filter repositories.StallFilter) ([]*entities.Stall, error) {
	result := make([]*entities.Stall, 0, len(r.order))
	for _, id := range r.order {
		copied := *r.stalls[id]
		result = append(result, &copied)
	}
	return result, nil
}

func (r *memStallRepo) AddImage(ctx context.Context, stallID, imageURL string) error {
	stall, ok := r.stalls[stallID]
	if !ok {
		return apperrors.NewNotFoundError("stall not found")
	}
	stall.AddImage(imageURL)
	return nil
}

func (r *memStallRepo) DistinctDishTypes(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var result []string
	for _, id := range r.order {
		if dt := r.stalls[id].DishType; dt != "" && !seen[dt] {
			seen[dt] = true
			result = append(result, dt)
		}
	}
	return result, nil
}

func (r *memStallRepo) DistinctAreas(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var result []string
	for _, id := range r.order {
		if area := r.stalls[id].Area; area != "" && !seen[area] {
			seen[area] = true
			result = append(result, area)
		}
	}
	return result, nil
}

// memUserRepo is a minimal in-memory UserRepository backing handler tests.
type memUserRepo struct {
	users map[string]*entities.User
}

func newMemUserRepo(users ...*entities.User) *memUserRepo {
	repo := &memUserRepo{users: make(map[string]*entities.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *memUserRepo) Create(ctx context.Context, user *entities.User) error {
	if _, ok := r.users[user.ID]; ok {
		return apperrors.NewConflictError("user already exists")
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	copied := *user
	copied.Favorites = append([]string(nil), user.Favorites...)
	return &copied, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *entities.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return apperrors.NewNotFoundError("user not found")
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) AddFavorite(ctx context.Context, userID, stallID string) error {
	user, ok := r.users[userID]
	if !ok {
		return apperrors.NewNotFoundError("user not found")
	}
	user.AddFavorite(stallID)
	return nil
}

func (r *memUserRepo) RemoveFavorite(ctx context.Context, userID, stallID string) error {
	user, ok := r.users[userID]
	if !ok {
		return apperrors.NewNotFoundError("user not found")
	}
	user.RemoveFavorite(stallID)
	return nil
}

func (r *memUserRepo) ListFavorites(ctx context.Context, userID string) ([]string, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	return append([]string(nil), user.Favorites...), nil
}

// memDishRepo is a minimal in-memory DishRepository backing handler tests.
type memDishRepo struct {
	dishes map[string]*entities.Dish
	order  []string
}

func newMemDishRepo(dishes ...*entities.Dish) *memDishRepo {
	repo := &memDishRepo{dishes: make(map[string]*entities.Dish)}
	for _, dish := range dishes {
		repo.dishes[dish.ID] = dish
		repo.order = append(repo.order, dish.ID)
	}
	return repo
}

func (r *memDishRepo) Create(ctx context.Context, dish *entities.Dish) error {
	r.dishes[dish.ID] = dish
	r.order = append(r.order, dish.ID)
	return nil
}

func (r *memDishRepo) GetByID(ctx context.Context, id string) (*entities.Dish, error) {
	dish, ok := r.dishes[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("dish not found")
	}
	copied := *dish
	copied.Tags = append([]string(nil), dish.Tags...)
	return &copied, nil
}

func (r *memDishRepo) GetByName(ctx context.Context, name string) (*entities.Dish, error) {
	for i := len(r.order) - 1; i >= 0; i-- {
		if dish := r.dishes[r.order[i]]; dish.Name == name {
			copied := *dish
			copied.Tags = append([]string(nil), dish.Tags...)
			return &copied, nil
		}
	}
	return nil, apperrors.NewNotFoundError("dish not found")
}

func (r *memDishRepo) ListByStall(ctx context.Context, stallID string) ([]*entities.Dish, error) {
	var result []*entities.Dish
	for _, id := range r.order {
		if r.dishes[id].StallID == stallID {
			copied := *r.dishes[id]
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *memDishRepo) UpdateTags(ctx context.Context, dishID string, tags []string) error {
	dish, ok := r.dishes[dishID]
	if !ok {
		return apperrors.NewNotFoundError("dish not found")
	}
	dish.Tags = append([]string(nil), tags...)
	return nil
}

// memReviewRepo is a minimal in-memory ReviewRepository backing handler
// tests. It folds ratings into the stall the way the SQL adapter does.
type memReviewRepo struct {
	stallRepo *memStallRepo
	reviews   []*entities.Review
}

func (r *memReviewRepo) CreateWithRatingUpdate(ctx context.Context, review *entities.Review) (*entities.Stall, error) {
	stall, ok := r.stallRepo.stalls[review.StallID]
	if !ok {
		return nil, apperrors.NewNotFoundError("stall not found")
	}
	stall.UpdateRating(review.Rating)
	r.reviews = append(r.reviews, review)
	copied := *stall
	return &copied, nil
}

func (r *memReviewRepo) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	for _, review := range r.reviews {
		if review.ID == id {
			return review, nil
		}
	}
	return nil, apperrors.NewNotFoundError("review not found")
}

func (r *memReviewRepo) ListByStall(ctx context.Context, stallID string) ([]*entities.Review, error) {
	var result []*entities.Review
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].StallID == stallID {
			result = append(result, r.reviews[i])
		}
	}
	return result, nil
}

func (r *memReviewRepo) ListByUser(ctx context.Context, userID string) ([]*entities.Review, error) {
	var result []*entities.Review
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].UserID == userID {
			result = append(result, r.reviews[i])
		}
	}
	return result, nil
}

func (r *memReviewRepo) GetByUserAndStall(ctx context.Context, userID, stallID string) (*entities.Review, error) {
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].UserID == userID && r.reviews[i].StallID == stallID {
			return r.reviews[i], nil
		}
	}
	return nil, apperrors.NewNotFoundError("review not found")
}

func newStallService(repo repositories.StallRepository) *services.StallService {
	return services.NewStallService(repo, nil, services.NewDiscoveryService(), nil)
}
