package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/chatori/chatori-backend/internal/domain/entities"
	"github.com/chatori/chatori-backend/internal/domain/repositories"
	"github.com/chatori/chatori-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/chatori/chatori-backend/pkg/errors"
)

// StallAdapter implements the StallRepository interface
type StallAdapter struct {
	client *postgres.Client
}

// NewStallAdapter creates a new stall adapter
func NewStallAdapter(client *postgres.Client) repositories.StallRepository {
	return &StallAdapter{
		client: client,
	}
}

const stallColumns = `
	id, name, dish_type, area, latitude, longitude, images,
	description, opening_hours, phone, owner_name,
	rating, num_ratings, created_by, created_at, updated_at
`

func scanStall(scanner interface {
	Scan(dest ...interface{}) error
}) (*entities.Stall, error) {
	stall := &entities.Stall{}
	var images pq.StringArray
	err := scanner.Scan(
		&stall.ID,
		&stall.Name,
		&stall.DishType,
		&stall.Area,
		&stall.Location.Latitude,
		&stall.Location.Longitude,
		&images,
		&stall.Description,
		&stall.OpeningHours,
		&stall.Phone,
		&stall.OwnerName,
		&stall.Rating,
		&stall.NumRatings,
		&stall.CreatedBy,
		&stall.CreatedAt,
		&stall.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	stall.Images = []string(images)
	if stall.Images == nil {
		stall.Images = []string{}
	}
	return stall, nil
}

// Create creates a new stall
func (a *StallAdapter) Create(ctx context.Context, stall *entities.Stall) error {
	query := `
		INSERT INTO stalls (
			id, name, dish_type, area, latitude, longitude, images,
			description, opening_hours, phone, owner_name,
			rating, num_ratings, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := a.client.DB().ExecContext(ctx, query,
		stall.ID,
		stall.Name,
		stall.DishType,
		stall.Area,
		stall.Location.Latitude,
		stall.Location.Longitude,
		pq.Array(stall.Images),
		stall.Description,
		stall.OpeningHours,
		stall.Phone,
		stall.OwnerName,
		stall.Rating,
		stall.NumRatings,
		stall.CreatedBy,
		stall.CreatedAt,
		stall.UpdatedAt,
	)

	if err != nil {
		return apperrors.NewInternalError("failed to create stall", err)
	}

	return nil
}

// GetByID retrieves a stall by ID
func (a *StallAdapter) GetByID(ctx context.Context, id string) (*entities.Stall, error) {
	query := `SELECT ` + stallColumns + ` FROM stalls WHERE id = $1`

	stall, err := scanStall(a.client.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("stall with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get stall", err)
	}

	return stall, nil
}

// GetByIDs retrieves multiple stalls by their IDs
func (a *StallAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Stall, error) {
	if len(ids) == 0 {
		return []*entities.Stall{}, nil
	}

	query := `SELECT ` + stallColumns + ` FROM stalls WHERE id = ANY($1)`

	rows, err := a.client.DB().QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get stalls by ids", err)
	}
	defer rows.Close()

	byID := make(map[string]*entities.Stall, len(ids))
	for rows.Next() {
		stall, err := scanStall(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan stall", err)
		}
		byID[stall.ID] = stall
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating stalls", err)
	}

	// Preserve the caller's ID order; missing IDs are skipped.
	stalls := make([]*entities.Stall, 0, len(byID))
	for _, id := range ids {
		if stall, ok := byID[id]; ok {
			stalls = append(stalls, stall)
		}
	}

	return stalls, nil
}

// Update updates a stall's descriptive fields. The rating aggregate is
// owned by the review transaction and is never written here.
func (a *StallAdapter) Update(ctx context.Context, stall *entities.Stall) error {
	query := `
		UPDATE stalls SET
			name = $2, dish_type = $3, area = $4, latitude = $5, longitude = $6,
			images = $7, description = $8, opening_hours = $9, phone = $10,
			owner_name = $11, updated_at = $12
		WHERE id = $1
	`

	stall.UpdatedAt = time.Now()

	result, err := a.client.DB().ExecContext(ctx, query,
		stall.ID,
		stall.Name,
		stall.DishType,
		stall.Area,
		stall.Location.Latitude,
		stall.Location.Longitude,
		pq.Array(stall.Images),
		stall.Description,
		stall.OpeningHours,
		stall.Phone,
		stall.OwnerName,
		stall.UpdatedAt,
	)

	if err != nil {
		return apperrors.NewInternalError("failed to update stall", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("stall with id %s not found", stall.ID))
	}

	return nil
}

// List retrieves stalls with filters
func (a *StallAdapter) List(ctx context.Context, filter repositories.StallFilter) ([]*entities.Stall, error) {
	query := `SELECT ` + stallColumns + ` FROM stalls WHERE 1=1`

	args := []interface{}{}
	argCount := 1

	if filter.DishType != "" {
		query += fmt.Sprintf(" AND LOWER(dish_type) = LOWER($%d)", argCount)
		args = append(args, filter.DishType)
		argCount++
	}

	if filter.Area != "" {
		query += fmt.Sprintf(" AND LOWER(area) = LOWER($%d)", argCount)
		args = append(args, filter.Area)
		argCount++
	}

	if filter.CreatedBy != "" {
		query += fmt.Sprintf(" AND created_by = $%d", argCount)
		args = append(args, filter.CreatedBy)
		argCount++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filter.Limit)
		argCount++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filter.Offset)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list stalls", err)
	}
	defer rows.Close()

	stalls := []*entities.Stall{}
	for rows.Next() {
		stall, err := scanStall(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan stall", err)
		}
		stalls = append(stalls, stall)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating stalls", err)
	}

	return stalls, nil
}

// AddImage appends an image URL to the stall's image list
func (a *StallAdapter) AddImage(ctx context.Context, stallID, imageURL string) error {
	query := `
		UPDATE stalls
		SET images = array_append(images, $2), updated_at = $3
		WHERE id = $1
	`

	result, err := a.client.DB().ExecContext(ctx, query, stallID, imageURL, time.Now())
	if err != nil {
		return apperrors.NewInternalError("failed to add stall image", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("stall with id %s not found", stallID))
	}

	return nil
}

// DistinctDishTypes returns every dish type present in the store
func (a *StallAdapter) DistinctDishTypes(ctx context.Context) ([]string, error) {
	return a.distinctColumn(ctx, "dish_type")
}

// DistinctAreas returns every area present in the store
func (a *StallAdapter) DistinctAreas(ctx context.Context) ([]string, error) {
	return a.distinctColumn(ctx, "area")
}

func (a *StallAdapter) distinctColumn(ctx context.Context, column string) ([]string, error) {
	query := fmt.Sprintf(
		"SELECT DISTINCT %s FROM stalls WHERE %s <> '' ORDER BY %s",
		column, column, column,
	)

	rows, err := a.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("failed to list distinct %s values", column), err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, apperrors.NewInternalError("failed to scan value", err)
		}
		values = append(values, value)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating values", err)
	}

	return values, nil
}
