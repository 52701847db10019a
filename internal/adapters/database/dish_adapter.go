package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/chatori/chatori-backend/internal/domain/entities"
	"github.com/chatori/chatori-backend/internal/domain/repositories"
	"github.com/chatori/chatori-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/chatori/chatori-backend/pkg/errors"
)

// DishAdapter implements dish persistence in Postgres.
type DishAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDishAdapter creates a new dish adapter.
func NewDishAdapter(client *postgres.Client) repositories.DishRepository {
	return &DishAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func scanDish(scanner interface {
	Scan(dest ...interface{}) error
}) (*entities.Dish, error) {
	dish := &entities.Dish{}
	var tags pq.StringArray
	err := scanner.Scan(
		&dish.ID,
		&dish.StallID,
		&dish.Name,
		&tags,
		&dish.Price,
		&dish.ImageURL,
		&dish.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	dish.Tags = []string(tags)
	if dish.Tags == nil {
		dish.Tags = []string{}
	}
	return dish, nil
}

// Create creates a new dish
func (a *DishAdapter) Create(ctx context.Context, dish *entities.Dish) error {
	record := goqu.Record{
		"id":         dish.ID,
		"stall_id":   dish.StallID,
		"name":       dish.Name,
		"tags":       pq.Array(dish.Tags),
		"price":      dish.Price,
		"image_url":  dish.ImageURL,
		"created_at": dish.CreatedAt,
	}

	query, args, err := a.db.Insert("dishes").Rows(record).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build dish insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create dish", err)
	}

	return nil
}

// GetByID retrieves a dish by ID
func (a *DishAdapter) GetByID(ctx context.Context, id string) (*entities.Dish, error) {
	query := `
		SELECT id, stall_id, name, tags, price, image_url, created_at
		FROM dishes
		WHERE id = $1
	`

	dish, err := scanDish(a.client.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("dish with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get dish", err)
	}

	return dish, nil
}

// GetByName retrieves a dish by exact name
func (a *DishAdapter) GetByName(ctx context.Context, name string) (*entities.Dish, error) {
	query := `
		SELECT id, stall_id, name, tags, price, image_url, created_at
		FROM dishes
		WHERE name = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	dish, err := scanDish(a.client.DB().QueryRowContext(ctx, query, name))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("dish with name %s not found", name))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get dish", err)
	}

	return dish, nil
}

// UpdateTags replaces a dish's tag list
func (a *DishAdapter) UpdateTags(ctx context.Context, dishID string, tags []string) error {
	query, args, err := a.db.Update("dishes").
		Set(goqu.Record{"tags": pq.Array(tags)}).
		Where(goqu.C("id").Eq(dishID)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build dish tags update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update dish tags", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("dish with id %s not found", dishID))
	}

	return nil
}

// ListByStall retrieves a stall's dishes
func (a *DishAdapter) ListByStall(ctx context.Context, stallID string) ([]*entities.Dish, error) {
	query := `
		SELECT id, stall_id, name, tags, price, image_url, created_at
		FROM dishes
		WHERE stall_id = $1
		ORDER BY created_at ASC
	`

	rows, err := a.client.DB().QueryContext(ctx, query, stallID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list dishes", err)
	}
	defer rows.Close()

	dishes := []*entities.Dish{}
	for rows.Next() {
		dish, err := scanDish(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan dish", err)
		}
		dishes = append(dishes, dish)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating dishes", err)
	}

	return dishes, nil
}
