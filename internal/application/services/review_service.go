package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chatori/chatori-backend/internal/domain/entities"
	"github.com/chatori/chatori-backend/internal/domain/repositories"
	apperrors "github.com/chatori/chatori-backend/pkg/errors"
)

// ReviewService handles business logic for reviews and keeps stall
// rating aggregates in step with new reviews.
type ReviewService struct {
	repo         repositories.ReviewRepository
	userRepo     repositories.UserRepository
	stallService *StallService
}

// NewReviewService creates a new review service
func NewReviewService(
	repo repositories.ReviewRepository,
	userRepo repositories.UserRepository,
	stallService *StallService,
) *ReviewService {
	return &ReviewService{
		repo:         repo,
		userRepo:     userRepo,
		stallService: stallService,
	}
}

// Create validates and persists a review. The stall's rating aggregate
// is updated in the same transaction as the insert, and the review
// carries write-time copies of the author's and stall's display fields.
func (s *ReviewService) Create(ctx context.Context, review *entities.Review) (*entities.Stall, error) {
	if review == nil {
		return nil, apperrors.NewValidationError("review is required")
	}
	if review.StallID == "" {
		return nil, apperrors.NewValidationError("stall id is required")
	}
	if review.UserID == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}
	if review.Rating <= 0 || review.Rating > 5 {
		return nil, apperrors.NewValidationError("rating must be greater than 0 and at most 5")
	}

	stall, err := s.stallService.GetByID(ctx, review.StallID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, review.UserID)
	if err != nil {
		return nil, err
	}

	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	review.CreatedAt = time.Now()
	review.UserName = user.Name
	review.UserProfileImageURL = user.ProfileImageURL
	review.StallName = stall.Name

	updatedStall, err := s.repo.CreateWithRatingUpdate(ctx, review)
	if err != nil {
		return nil, err
	}

	s.stallService.ApplyRatingUpdate(ctx, updatedStall)

	return updatedStall, nil
}

// GetByID retrieves a review by ID
func (s *ReviewService) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByStall retrieves a stall's reviews, newest first
func (s *ReviewService) ListByStall(ctx context.Context, stallID string) ([]*entities.Review, error) {
	return s.repo.ListByStall(ctx, stallID)
}

// ListByUser retrieves a user's reviews, newest first
func (s *ReviewService) ListByUser(ctx context.Context, userID string) ([]*entities.Review, error) {
	return s.repo.ListByUser(ctx, userID)
}

// GetByUserAndStall retrieves a user's most recent review of a stall,
// so clients can show "your review" on a stall page.
func (s *ReviewService) GetByUserAndStall(ctx context.Context, userID, stallID string) (*entities.Review, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}
	if stallID == "" {
		return nil, apperrors.NewValidationError("stall id is required")
	}
	return s.repo.GetByUserAndStall(ctx, userID, stallID)
}
