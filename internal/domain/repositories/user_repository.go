package repositories

import (
	"context"

	"github.com/chatori/chatori-backend/internal/domain/entities"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// Create creates a new user record
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID, favorites included
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// Update updates a user's profile fields
	Update(ctx context.Context, user *entities.User) error

	// AddFavorite records stallID as a favorite; a no-op when already
	// present
	AddFavorite(ctx context.Context, userID, stallID string) error

	// RemoveFavorite removes stallID from favorites; a no-op when absent
	RemoveFavorite(ctx context.Context, userID, stallID string) error

	// ListFavorites returns the user's favorite stall IDs in insertion
	// order
	ListFavorites(ctx context.Context, userID string) ([]string, error)
}
