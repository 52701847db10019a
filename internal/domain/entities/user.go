package entities

import "time"

// User represents an authenticated account. The ID equals the external
// identity provider's subject ID; this service never mints its own.
type User struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Email           string    `json:"email" db:"email"`
	ProfileImageURL string    `json:"profile_image_url,omitempty" db:"profile_image_url"`
	Bio             string    `json:"bio,omitempty" db:"bio"`
	Phone           string    `json:"phone,omitempty" db:"phone"`
	Favorites       []string  `json:"favorites" db:"-"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// IsFavorite reports whether stallID is in the user's favorites.
func (u *User) IsFavorite(stallID string) bool {
	for _, id := range u.Favorites {
		if id == stallID {
			return true
		}
	}
	return false
}

// AddFavorite appends stallID if absent. Favorites are a set; iteration
// order is insertion order.
func (u *User) AddFavorite(stallID string) {
	if !u.IsFavorite(stallID) {
		u.Favorites = append(u.Favorites, stallID)
	}
}

// RemoveFavorite removes stallID if present.
func (u *User) RemoveFavorite(stallID string) {
	for i, id := range u.Favorites {
		if id == stallID {
			u.Favorites = append(u.Favorites[:i], u.Favorites[i+1:]...)
			return
		}
	}
}
