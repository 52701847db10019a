package repositories

import (
	"context"

	"github.com/chatori/chatori-backend/internal/domain/entities"
)

// StallRepository defines the interface for stall data operations
type StallRepository interface {
	// Create creates a new stall
	Create(ctx context.Context, stall *entities.Stall) error

	// GetByID retrieves a stall by ID
	GetByID(ctx context.Context, id string) (*entities.Stall, error)

	// GetByIDs retrieves multiple stalls by their IDs
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Stall, error)

	// Update updates a stall's descriptive fields
	Update(ctx context.Context, stall *entities.Stall) error

	// List retrieves stalls with filters
	List(ctx context.Context, filter StallFilter) ([]*entities.Stall, error)

	// AddImage appends an image URL to the stall's image list
	AddImage(ctx context.Context, stallID, imageURL string) error

	// DistinctDishTypes returns every dish type present in the store
	DistinctDishTypes(ctx context.Context) ([]string, error)

	// DistinctAreas returns every area present in the store
	DistinctAreas(ctx context.Context) ([]string, error)
}

// StallSearchRepository defines the interface for stall search index
// operations (e.g. Typesense).
type StallSearchRepository interface {
	// Search searches indexed stalls
	Search(ctx context.Context, params SearchParams) ([]*entities.Stall, error)

	// Index upserts a stall into the index
	Index(ctx context.Context, stall *entities.Stall) error

	// Delete removes a stall from the index
	Delete(ctx context.Context, id string) error
}

// StallFilter defines filters for listing stalls
type StallFilter struct {
	DishType  string
	Area      string
	CreatedBy string
	Limit     int
	Offset    int
}

// SearchParams defines parameters for index-backed stall search
type SearchParams struct {
	Query     string
	Latitude  float64
	Longitude float64
	RadiusKm  float64
	Limit     int
	Offset    int
}
