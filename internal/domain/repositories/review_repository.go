package repositories

import (
	"context"

	"github.com/chatori/chatori-backend/internal/domain/entities"
)

// ReviewRepository defines the interface for review data operations.
type ReviewRepository interface {
	// CreateWithRatingUpdate inserts the review and folds its rating
	// into the stall's aggregate in a single atomic transaction,
	// returning the stall's post-update state.
	CreateWithRatingUpdate(ctx context.Context, review *entities.Review) (*entities.Stall, error)

	// GetByID retrieves a review by ID
	GetByID(ctx context.Context, id string) (*entities.Review, error)

	// ListByStall retrieves a stall's reviews, newest first
	ListByStall(ctx context.Context, stallID string) ([]*entities.Review, error)

	// ListByUser retrieves a user's reviews, newest first
	ListByUser(ctx context.Context, userID string) ([]*entities.Review, error)

	// GetByUserAndStall retrieves the review a user wrote for a stall,
	// if any
	GetByUserAndStall(ctx context.Context, userID, stallID string) (*entities.Review, error)
}
