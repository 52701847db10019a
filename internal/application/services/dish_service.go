package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chatori/chatori-backend/internal/domain/entities"
	"github.com/chatori/chatori-backend/internal/domain/repositories"
	apperrors "github.com/chatori/chatori-backend/pkg/errors"
)

// DishService handles business logic for dishes
type DishService struct {
	repo      repositories.DishRepository
	stallRepo repositories.StallRepository
}

// NewDishService creates a new dish service
func NewDishService(repo repositories.DishRepository, stallRepo repositories.StallRepository) *DishService {
	return &DishService{
		repo:      repo,
		stallRepo: stallRepo,
	}
}

// Create validates and persists a new dish
func (s *DishService) Create(ctx context.Context, dish *entities.Dish) error {
	if dish == nil {
		return apperrors.NewValidationError("dish is required")
	}
	if dish.Name == "" {
		return apperrors.NewValidationError("dish name is required")
	}
	if dish.StallID == "" {
		return apperrors.NewValidationError("stall id is required")
	}

	if _, err := s.stallRepo.GetByID(ctx, dish.StallID); err != nil {
		return err
	}

	if dish.ID == "" {
		dish.ID = uuid.New().String()
	}
	dish.CreatedAt = time.Now()
	if dish.Tags == nil {
		dish.Tags = []string{}
	}

	return s.repo.Create(ctx, dish)
}

// GetByID retrieves a dish by ID
func (s *DishService) GetByID(ctx context.Context, id string) (*entities.Dish, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByName retrieves a dish by exact name
func (s *DishService) GetByName(ctx context.Context, name string) (*entities.Dish, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("dish name is required")
	}
	return s.repo.GetByName(ctx, name)
}

// ListByStall retrieves a stall's dishes
func (s *DishService) ListByStall(ctx context.Context, stallID string) ([]*entities.Dish, error) {
	return s.repo.ListByStall(ctx, stallID)
}

// AddTag adds a tag to a dish; tags behave as a set.
func (s *DishService) AddTag(ctx context.Context, dishID, tag string) (*entities.Dish, error) {
	if tag == "" {
		return nil, apperrors.NewValidationError("tag is required")
	}

	dish, err := s.repo.GetByID(ctx, dishID)
	if err != nil {
		return nil, err
	}

	dish.AddTag(tag)
	if err := s.repo.UpdateTags(ctx, dishID, dish.Tags); err != nil {
		return nil, err
	}

	return dish, nil
}

// RemoveTag removes a tag from a dish; removing an absent tag is a
// no-op.
func (s *DishService) RemoveTag(ctx context.Context, dishID, tag string) (*entities.Dish, error) {
	if tag == "" {
		return nil, apperrors.NewValidationError("tag is required")
	}

	dish, err := s.repo.GetByID(ctx, dishID)
	if err != nil {
		return nil, err
	}

	dish.RemoveTag(tag)
	if err := s.repo.UpdateTags(ctx, dishID, dish.Tags); err != nil {
		return nil, err
	}

	return dish, nil
}
