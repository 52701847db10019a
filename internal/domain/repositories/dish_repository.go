package repositories

import (
	"context"

	"github.com/chatori/chatori-backend/internal/domain/entities"
)

// DishRepository defines the interface for dish data operations.
type DishRepository interface {
	// Create creates a new dish
	Create(ctx context.Context, dish *entities.Dish) error

	// GetByID retrieves a dish by ID
	GetByID(ctx context.Context, id string) (*entities.Dish, error)

	// GetByName retrieves a dish by exact name
	GetByName(ctx context.Context, name string) (*entities.Dish, error)

	// ListByStall retrieves a stall's dishes
	ListByStall(ctx context.Context, stallID string) ([]*entities.Dish, error)

	// UpdateTags replaces a dish's tag list
	UpdateTags(ctx context.Context, dishID string, tags []string) error
}
