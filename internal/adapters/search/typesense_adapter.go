package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/chatori/chatori-backend/internal/domain/entities"
	"github.com/chatori/chatori-backend/internal/domain/repositories"
	tsclient "github.com/chatori/chatori-backend/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter implements stall search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements StallSearchRepository
var _ repositories.StallSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the stalls collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	// Check if collection exists
	_, err := a.client.Client().Collection(tsclient.StallsCollection).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	schema := &api.CollectionSchema{
		Name: tsclient.StallsCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "dish_type", Type: "string", Facet: pointer.True()},
			{Name: "area", Type: "string", Facet: pointer.True()},
			{Name: "location", Type: "geopoint"},
			{Name: "rating", Type: "float"},
			{Name: "num_ratings", Type: "int32"},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// Index upserts a stall into the index
func (a *TypesenseAdapter) Index(ctx context.Context, stall *entities.Stall) error {
	document := map[string]interface{}{
		"id":          stall.ID,
		"name":        stall.Name,
		"dish_type":   stall.DishType,
		"area":        stall.Area,
		"location":    []float64{stall.Location.Latitude, stall.Location.Longitude},
		"rating":      stall.Rating,
		"num_ratings": stall.NumRatings,
		"created_at":  stall.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(tsclient.StallsCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index stall: %w", err)
	}

	return nil
}

// Delete removes a stall from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.StallsCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete stall from index: %w", err)
	}
	return nil
}

// Search searches indexed stalls by text and optional geo radius.
func (a *TypesenseAdapter) Search(ctx context.Context, params repositories.SearchParams) ([]*entities.Stall, error) {
	query := strings.TrimSpace(params.Query)
	if query == "" {
		query = "*"
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("name,dish_type,area"),
		Page:    pointer.Int(params.Offset/limit + 1),
		PerPage: pointer.Int(limit),
	}

	if params.RadiusKm > 0 {
		searchParams.FilterBy = pointer.String(fmt.Sprintf(
			"location:(%f, %f, %f km)",
			params.Latitude, params.Longitude, params.RadiusKm,
		))
	}

	result, err := a.client.Client().Collection(tsclient.StallsCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search stalls: %w", err)
	}

	stalls := []*entities.Stall{}
	if result.Hits == nil {
		return stalls, nil
	}

	for _, hit := range *result.Hits {
		doc := *hit.Document

		var lat, lon float64
		if loc, ok := doc["location"].([]interface{}); ok && len(loc) == 2 {
			lat, _ = loc[0].(float64)
			lon, _ = loc[1].(float64)
		}

		// Typesense holds a projection of the stall; callers hydrate
		// full records from the repository when they need them.
		stall := &entities.Stall{
			Location: entities.Location{
				Latitude:  lat,
				Longitude: lon,
			},
		}
		if val, ok := doc["id"].(string); ok {
			stall.ID = val
		}
		if val, ok := doc["name"].(string); ok {
			stall.Name = val
		}
		if val, ok := doc["dish_type"].(string); ok {
			stall.DishType = val
		}
		if val, ok := doc["area"].(string); ok {
			stall.Area = val
		}
		if val, ok := doc["rating"].(float64); ok {
			stall.Rating = val
		}
		if val, ok := doc["num_ratings"].(float64); ok {
			stall.NumRatings = int(val)
		}

		stalls = append(stalls, stall)
	}

	return stalls, nil
}
