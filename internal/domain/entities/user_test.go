package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chatori/chatori-backend/internal/domain/entities"
)

func TestUser_FavoritesBehaveAsASet(t *testing.T) {
	user := &entities.User{ID: "u1", Name: "Asha"}

	user.AddFavorite("s1")
	user.AddFavorite("s2")
	user.AddFavorite("s1")

	assert.Equal(t, []string{"s1", "s2"}, user.Favorites)
	assert.True(t, user.IsFavorite("s1"))
	assert.False(t, user.IsFavorite("s3"))
}

func TestUser_RemoveFavorite(t *testing.T) {
	user := &entities.User{Favorites: []string{"s1", "s2", "s3"}}

	user.RemoveFavorite("s2")
	assert.Equal(t, []string{"s1", "s3"}, user.Favorites)

	user.RemoveFavorite("missing")
	assert.Equal(t, []string{"s1", "s3"}, user.Favorites)
}
