package services

import (
	"context"
	"time"

	"github.com/chatori/chatori-backend/internal/domain/entities"
	"github.com/chatori/chatori-backend/internal/domain/repositories"
	apperrors "github.com/chatori/chatori-backend/pkg/errors"
)

// UserService handles business logic for users and their favorites
type UserService struct {
	repo      repositories.UserRepository
	stallRepo repositories.StallRepository
}

// NewUserService creates a new user service
func NewUserService(repo repositories.UserRepository, stallRepo repositories.StallRepository) *UserService {
	return &UserService{
		repo:      repo,
		stallRepo: stallRepo,
	}
}

// Create creates a new user record. The ID comes from the identity
// provider, so it must be supplied by the caller.
func (s *UserService) Create(ctx context.Context, user *entities.User) error {
	if user == nil {
		return apperrors.NewValidationError("user is required")
	}
	if user.ID == "" {
		return apperrors.NewValidationError("user id is required")
	}
	if user.Name == "" {
		return apperrors.NewValidationError("user name is required")
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Favorites == nil {
		user.Favorites = []string{}
	}

	return s.repo.Create(ctx, user)
}

// GetByID retrieves a user by ID, favorites included
func (s *UserService) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Update updates a user's profile fields
func (s *UserService) Update(ctx context.Context, user *entities.User) error {
	if user == nil || user.ID == "" {
		return apperrors.NewValidationError("user id is required")
	}
	return s.repo.Update(ctx, user)
}

// AddFavorite marks a stall as a favorite; adding twice is a no-op
func (s *UserService) AddFavorite(ctx context.Context, userID, stallID string) error {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return err
	}
	if _, err := s.stallRepo.GetByID(ctx, stallID); err != nil {
		return err
	}
	return s.repo.AddFavorite(ctx, userID, stallID)
}

// RemoveFavorite unmarks a stall as a favorite; removing twice is a no-op
func (s *UserService) RemoveFavorite(ctx context.Context, userID, stallID string) error {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.repo.RemoveFavorite(ctx, userID, stallID)
}

// ToggleFavorite flips the favorite state and reports the new state:
// true when the stall is now a favorite, false when it no longer is.
func (s *UserService) ToggleFavorite(ctx context.Context, userID, stallID string) (bool, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}

	if user.IsFavorite(stallID) {
		if err := s.repo.RemoveFavorite(ctx, userID, stallID); err != nil {
			return false, err
		}
		return false, nil
	}

	if _, err := s.stallRepo.GetByID(ctx, stallID); err != nil {
		return false, err
	}
	if err := s.repo.AddFavorite(ctx, userID, stallID); err != nil {
		return false, err
	}
	return true, nil
}

// FavoriteStalls returns the user's favorite stalls, hydrated and in
// the order they were favorited.
func (s *UserService) FavoriteStalls(ctx context.Context, userID string) ([]*entities.Stall, error) {
	ids, err := s.repo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*entities.Stall{}, nil
	}

	stalls, err := s.stallRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, stall := range stalls {
		stall.ApplyDefaults()
	}
	return stalls, nil
}
