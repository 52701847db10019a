package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chatori/chatori-backend/internal/domain/entities"
)

func TestStall_UpdateRating(t *testing.T) {
	stall := &entities.Stall{Rating: 4.0, NumRatings: 2}

	stall.UpdateRating(5.0)

	assert.InDelta(t, 13.0/3.0, stall.Rating, 1e-9)
	assert.Equal(t, 3, stall.NumRatings)
}

func TestStall_UpdateRatingFirstReview(t *testing.T) {
	stall := &entities.Stall{}

	stall.UpdateRating(4.5)

	assert.InDelta(t, 4.5, stall.Rating, 1e-9)
	assert.Equal(t, 1, stall.NumRatings)
}

func TestStall_ApplyDefaults(t *testing.T) {
	stall := &entities.Stall{}
	stall.ApplyDefaults()

	assert.Equal(t, entities.DefaultStallName, stall.Name)
	assert.Equal(t, entities.DefaultDishType, stall.DishType)
	assert.Equal(t, entities.DefaultArea, stall.Area)
	assert.Equal(t, entities.DefaultOpeningHours, stall.OpeningHours)
	assert.NotNil(t, stall.Images)
}

func TestStall_ApplyDefaultsNamesAfterID(t *testing.T) {
	stall := &entities.Stall{ID: "abc-123"}
	stall.ApplyDefaults()

	assert.Equal(t, "Stall abc-123", stall.Name)
}

func TestStall_ApplyDefaultsKeepsExistingValues(t *testing.T) {
	stall := &entities.Stall{
		ID:       "s1",
		Name:     "Sharma Chaat",
		DishType: "Chaat",
		Area:     "Karol Bagh",
		Images:   []string{"a.jpg"},
	}
	stall.ApplyDefaults()

	assert.Equal(t, "Sharma Chaat", stall.Name)
	assert.Equal(t, "Chaat", stall.DishType)
	assert.Equal(t, "Karol Bagh", stall.Area)
	assert.Equal(t, []string{"a.jpg"}, stall.Images)
}

func TestStall_ApplyDefaultsClampsNegativeAggregates(t *testing.T) {
	stall := &entities.Stall{Name: "X", Rating: -1, NumRatings: -3}
	stall.ApplyDefaults()

	assert.Equal(t, 0.0, stall.Rating)
	assert.Equal(t, 0, stall.NumRatings)
}

func TestStall_HasLocation(t *testing.T) {
	assert.False(t, (&entities.Stall{}).HasLocation())
	assert.True(t, (&entities.Stall{Location: entities.Location{Latitude: 28.65}}).HasLocation())
	assert.True(t, (&entities.Stall{Location: entities.Location{Longitude: 77.19}}).HasLocation())
}

func TestStall_AddImageKeepsOrder(t *testing.T) {
	stall := &entities.Stall{}
	stall.AddImage("first.jpg")
	stall.AddImage("second.jpg")

	assert.Equal(t, []string{"first.jpg", "second.jpg"}, stall.Images)
}
