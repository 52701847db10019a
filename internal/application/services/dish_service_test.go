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

func dishFixture() (*services.DishService, *fakeDishRepo) {
	stallRepo := newFakeStallRepo(&entities.Stall{ID: "stall-sharma", Name: "Sharma Chaat"})
	dishRepo := newFakeDishRepo(
		&entities.Dish{ID: "dish-tikki", StallID: "stall-sharma", Name: "Aloo Tikki", Tags: []string{"spicy"}},
	)
	return services.NewDishService(dishRepo, stallRepo), dishRepo
}

func TestDishService_CreateValidates(t *testing.T) {
	svc, _ := dishFixture()

	err := svc.Create(context.Background(), &entities.Dish{StallID: "stall-sharma"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

	err = svc.Create(context.Background(), &entities.Dish{Name: "Golgappa"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

	err = svc.Create(context.Background(), &entities.Dish{Name: "Golgappa", StallID: "nope"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDishService_CreateAssignsDefaults(t *testing.T) {
	svc, _ := dishFixture()

	dish := &entities.Dish{Name: "Golgappa", StallID: "stall-sharma"}
	require.NoError(t, svc.Create(context.Background(), dish))

	assert.NotEmpty(t, dish.ID)
	assert.NotNil(t, dish.Tags)
	assert.False(t, dish.CreatedAt.IsZero())
}

func TestDishService_GetByName(t *testing.T) {
	svc, _ := dishFixture()

	dish, err := svc.GetByName(context.Background(), "Aloo Tikki")
	require.NoError(t, err)
	assert.Equal(t, "dish-tikki", dish.ID)

	_, err = svc.GetByName(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

	_, err = svc.GetByName(context.Background(), "Unknown Dish")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDishService_AddTag(t *testing.T) {
	svc, repo := dishFixture()

	dish, err := svc.AddTag(context.Background(), "dish-tikki", "vegetarian")
	require.NoError(t, err)
	assert.Equal(t, []string{"spicy", "vegetarian"}, dish.Tags)

	// Adding again is a no-op; tags behave as a set
	dish, err = svc.AddTag(context.Background(), "dish-tikki", "vegetarian")
	require.NoError(t, err)
	assert.Equal(t, []string{"spicy", "vegetarian"}, dish.Tags)

	stored, err := repo.GetByID(context.Background(), "dish-tikki")
	require.NoError(t, err)
	assert.Equal(t, []string{"spicy", "vegetarian"}, stored.Tags)
}

func TestDishService_RemoveTag(t *testing.T) {
	svc, repo := dishFixture()

	dish, err := svc.RemoveTag(context.Background(), "dish-tikki", "spicy")
	require.NoError(t, err)
	assert.Empty(t, dish.Tags)

	stored, err := repo.GetByID(context.Background(), "dish-tikki")
	require.NoError(t, err)
	assert.Empty(t, stored.Tags)

	// Removing an absent tag is a no-op
	_, err = svc.RemoveTag(context.Background(), "dish-tikki", "spicy")
	require.NoError(t, err)
}

func TestDishService_TagMutationsValidate(t *testing.T) {
	svc, _ := dishFixture()

	_, err := svc.AddTag(context.Background(), "dish-tikki", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

	_, err = svc.RemoveTag(context.Background(), "nope", "spicy")
	assert.True(t, apperrors.IsNotFound(err))
}
