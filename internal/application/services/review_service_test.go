package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatori/chatori-backend/internal/application/services"
	"github.com/chatori/chatori-backend/internal/domain/entities"
	apperrors "github.com/chatori/chatori-backend/pkg/errors"
)

func reviewFixture() (*services.ReviewService, *fakeStallRepo, *fakeReviewRepo, *fakeEventBus) {
	stallRepo := newFakeStallRepo(
		&entities.Stall{ID: "stall-sharma", Name: "Sharma Chaat", DishType: "Chaat", Rating: 4.0, NumRatings: 2},
	)
	userRepo := newFakeUserRepo(
		&entities.User{ID: "user-asha", Name: "Asha Verma", ProfileImageURL: "https://img.example/asha.jpg"},
	)
	reviewRepo := &fakeReviewRepo{stallRepo: stallRepo}
	bus := &fakeEventBus{}
	search := &fakeSearchRepo{}

	stallService := services.NewStallService(stallRepo, search, services.NewDiscoveryService(), bus)
	return services.NewReviewService(reviewRepo, userRepo, stallService), stallRepo, reviewRepo, bus
}

func TestReviewService_CreateUpdatesRunningMean(t *testing.T) {
	svc, _, _, bus := reviewFixture()

	review := &entities.Review{StallID: "stall-sharma", UserID: "user-asha", Rating: 5, Comment: "Great tikki"}
	stall, err := svc.Create(context.Background(), review)
	require.NoError(t, err)

	// (4.0*2 + 5) / 3
	assert.InDelta(t, 13.0/3.0, stall.Rating, 1e-9)
	assert.Equal(t, 3, stall.NumRatings)

	events := bus.published()
	require.Len(t, events, 1)
	assert.Equal(t, entities.StallEventRatingUpdated, events[0].Type)
}

func TestReviewService_CreateDenormalizesDisplayFields(t *testing.T) {
	svc, _, reviewRepo, _ := reviewFixture()

	review := &entities.Review{StallID: "stall-sharma", UserID: "user-asha", Rating: 4}
	_, err := svc.Create(context.Background(), review)
	require.NoError(t, err)

	require.Len(t, reviewRepo.reviews, 1)
	stored := reviewRepo.reviews[0]
	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, "Asha Verma", stored.UserName)
	assert.Equal(t, "https://img.example/asha.jpg", stored.UserProfileImageURL)
	assert.Equal(t, "Sharma Chaat", stored.StallName)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestReviewService_CreateValidatesRatingBounds(t *testing.T) {
	svc, _, _, _ := reviewFixture()

	for _, rating := range []float64{0, -1, 5.1, 6} {
		review := &entities.Review{StallID: "stall-sharma", UserID: "user-asha", Rating: rating}
		_, err := svc.Create(context.Background(), review)
		require.Error(t, err, "rating %v must be rejected", rating)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	}

	// 5 is the inclusive upper bound
	review := &entities.Review{StallID: "stall-sharma", UserID: "user-asha", Rating: 5}
	_, err := svc.Create(context.Background(), review)
	assert.NoError(t, err)
}

func TestReviewService_CreateRequiresIdentifiers(t *testing.T) {
	svc, _, _, _ := reviewFixture()

	_, err := svc.Create(context.Background(), nil)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

	_, err = svc.Create(context.Background(), &entities.Review{UserID: "user-asha", Rating: 4})
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

	_, err = svc.Create(context.Background(), &entities.Review{StallID: "stall-sharma", Rating: 4})
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

func TestReviewService_CreateUnknownStallOrUser(t *testing.T) {
	svc, _, _, _ := reviewFixture()

	_, err := svc.Create(context.Background(), &entities.Review{StallID: "nope", UserID: "user-asha", Rating: 4})
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.Create(context.Background(), &entities.Review{StallID: "stall-sharma", UserID: "nope", Rating: 4})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestReviewService_SequentialReviewsEachCountOnce(t *testing.T) {
	svc, stallRepo, _, _ := reviewFixture()

	ratings := []float64{5, 3, 4}
	for _, r := range ratings {
		_, err := svc.Create(context.Background(), &entities.Review{
			StallID: "stall-sharma", UserID: "user-asha", Rating: r,
		})
		require.NoError(t, err)
	}

	stall, err := stallRepo.GetByID(context.Background(), "stall-sharma")
	require.NoError(t, err)
	assert.Equal(t, 5, stall.NumRatings)
	// (4.0*2 + 5 + 3 + 4) / 5
	assert.InDelta(t, 4.0, stall.Rating, 1e-9)
}

func TestReviewService_GetByUserAndStallReturnsLatest(t *testing.T) {
	svc, _, _, _ := reviewFixture()

	for _, comment := range []string{"decent", "even better now"} {
		_, err := svc.Create(context.Background(), &entities.Review{
			StallID: "stall-sharma", UserID: "user-asha", Rating: 4, Comment: comment,
		})
		require.NoError(t, err)
	}

	review, err := svc.GetByUserAndStall(context.Background(), "user-asha", "stall-sharma")
	require.NoError(t, err)
	assert.Equal(t, "even better now", review.Comment)
}

func TestReviewService_GetByUserAndStallValidatesIdentifiers(t *testing.T) {
	svc, _, _, _ := reviewFixture()

	_, err := svc.GetByUserAndStall(context.Background(), "", "stall-sharma")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

	_, err = svc.GetByUserAndStall(context.Background(), "user-asha", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

func TestReviewService_GetByUserAndStallNotFound(t *testing.T) {
	svc, _, _, _ := reviewFixture()

	_, err := svc.GetByUserAndStall(context.Background(), "user-asha", "stall-sharma")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestReviewService_ListByStallNewestFirst(t *testing.T) {
	svc, _, _, _ := reviewFixture()

	for _, comment := range []string{"first", "second", "third"} {
		_, err := svc.Create(context.Background(), &entities.Review{
			StallID: "stall-sharma", UserID: "user-asha", Rating: 4, Comment: comment,
		})
		require.NoError(t, err)
	}

	reviews, err := svc.ListByStall(context.Background(), "stall-sharma")
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	assert.Equal(t, "third", reviews[0].Comment)
	assert.Equal(t, "first", reviews[2].Comment)
}
