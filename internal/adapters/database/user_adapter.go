package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/chatori/chatori-backend/internal/domain/entities"
	"github.com/chatori/chatori-backend/internal/domain/repositories"
	"github.com/chatori/chatori-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/chatori/chatori-backend/pkg/errors"
)

// UserAdapter implements user persistence in Postgres. Favorites live
// in the user_favorites join table keyed by (user_id, stall_id).
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter.
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new user record
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	record := goqu.Record{
		"id":                user.ID,
		"name":              user.Name,
		"email":             user.Email,
		"profile_image_url": user.ProfileImageURL,
		"bio":               user.Bio,
		"phone":             user.Phone,
		"created_at":        user.CreatedAt,
		"updated_at":        user.UpdatedAt,
	}

	query, args, err := a.db.Insert("users").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build user insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create user", err)
	}

	return nil
}

// GetByID retrieves a user by ID, favorites included
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	query := `
		SELECT id, name, email, profile_image_url, bio, phone, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user := &entities.User{}
	err := a.client.DB().QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.ProfileImageURL,
		&user.Bio,
		&user.Phone,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}

	favorites, err := a.ListFavorites(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Favorites = favorites

	return user, nil
}

// Update updates a user's profile fields
func (a *UserAdapter) Update(ctx context.Context, user *entities.User) error {
	user.UpdatedAt = time.Now()

	record := goqu.Record{
		"name":              user.Name,
		"email":             user.Email,
		"profile_image_url": user.ProfileImageURL,
		"bio":               user.Bio,
		"phone":             user.Phone,
		"updated_at":        user.UpdatedAt,
	}

	query, args, err := a.db.Update("users").
		Set(record).
		Where(goqu.Ex{"id": user.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build user update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update user", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", user.ID))
	}

	return nil
}

// AddFavorite records stallID as a favorite; a no-op when already present
func (a *UserAdapter) AddFavorite(ctx context.Context, userID, stallID string) error {
	query := `
		INSERT INTO user_favorites (user_id, stall_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, stall_id) DO NOTHING
	`

	if _, err := a.client.DB().ExecContext(ctx, query, userID, stallID, time.Now()); err != nil {
		return apperrors.NewInternalError("failed to add favorite", err)
	}

	return nil
}

// RemoveFavorite removes stallID from favorites; a no-op when absent
func (a *UserAdapter) RemoveFavorite(ctx context.Context, userID, stallID string) error {
	query, args, err := a.db.Delete("user_favorites").
		Where(goqu.Ex{"user_id": userID, "stall_id": stallID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build favorite delete query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to remove favorite", err)
	}

	return nil
}

// ListFavorites returns the user's favorite stall IDs in insertion order
func (a *UserAdapter) ListFavorites(ctx context.Context, userID string) ([]string, error) {
	query, args, err := a.db.From("user_favorites").
		Select("stall_id").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build favorites query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list favorites", err)
	}
	defer rows.Close()

	favorites := []string{}
	for rows.Next() {
		var stallID string
		if err := rows.Scan(&stallID); err != nil {
			return nil, apperrors.NewInternalError("failed to scan favorite", err)
		}
		favorites = append(favorites, stallID)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating favorites", err)
	}

	return favorites, nil
}
