package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/chatori/chatori-backend/internal/domain/entities"
	"github.com/chatori/chatori-backend/internal/domain/repositories"
	"github.com/chatori/chatori-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/chatori/chatori-backend/pkg/errors"
)

// ReviewAdapter implements review persistence in Postgres.
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter.
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

const reviewColumns = `
	id, stall_id, user_id, rating, comment,
	user_name, user_profile_image_url, stall_name, created_at
`

func scanReview(scanner interface {
	Scan(dest ...interface{}) error
}) (*entities.Review, error) {
	review := &entities.Review{}
	err := scanner.Scan(
		&review.ID,
		&review.StallID,
		&review.UserID,
		&review.Rating,
		&review.Comment,
		&review.UserName,
		&review.UserProfileImageURL,
		&review.StallName,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return review, nil
}

// CreateWithRatingUpdate inserts the review and folds its rating into
// the stall's running mean inside one transaction. The stall row is
// locked for the duration so concurrent reviews serialize and every
// rating is counted exactly once.
func (a *ReviewAdapter) CreateWithRatingUpdate(ctx context.Context, review *entities.Review) (*entities.Stall, error) {
	if review == nil {
		return nil, apperrors.NewInternalError("review is nil", fmt.Errorf("review is nil"))
	}

	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	lockQuery := `
		SELECT rating, num_ratings FROM stalls
		WHERE id = $1
		FOR UPDATE
	`

	var rating float64
	var numRatings int
	err = tx.QueryRowContext(ctx, lockQuery, review.StallID).Scan(&rating, &numRatings)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("stall with id %s not found", review.StallID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to lock stall for rating update", err)
	}

	record := goqu.Record{
		"id":                     review.ID,
		"stall_id":               review.StallID,
		"user_id":                review.UserID,
		"rating":                 review.Rating,
		"comment":                review.Comment,
		"user_name":              review.UserName,
		"user_profile_image_url": review.UserProfileImageURL,
		"stall_name":             review.StallName,
		"created_at":             review.CreatedAt,
	}

	insertQuery, args, err := a.db.Insert("reviews").Rows(record).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build review insert query", err)
	}

	if _, err := tx.ExecContext(ctx, insertQuery, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to create review", err)
	}

	newRating := (rating*float64(numRatings) + review.Rating) / float64(numRatings+1)

	updateQuery := `
		UPDATE stalls
		SET rating = $2, num_ratings = $3, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := tx.ExecContext(ctx, updateQuery, review.StallID, newRating, numRatings+1); err != nil {
		return nil, apperrors.NewInternalError("failed to update stall rating", err)
	}

	stallQuery := `SELECT ` + stallColumns + ` FROM stalls WHERE id = $1`
	stall, err := scanStall(tx.QueryRowContext(ctx, stallQuery, review.StallID))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read updated stall", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.NewInternalError("failed to commit review transaction", err)
	}

	return stall, nil
}

// GetByID retrieves a review by ID
func (a *ReviewAdapter) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(a.client.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("review with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get review", err)
	}

	return review, nil
}

// ListByStall retrieves a stall's reviews, newest first
func (a *ReviewAdapter) ListByStall(ctx context.Context, stallID string) ([]*entities.Review, error) {
	return a.list(ctx, "stall_id", stallID)
}

// ListByUser retrieves a user's reviews, newest first
func (a *ReviewAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.Review, error) {
	return a.list(ctx, "user_id", userID)
}

func (a *ReviewAdapter) list(ctx context.Context, column, value string) ([]*entities.Review, error) {
	query, args, err := a.db.From("reviews").
		Select(
			"id", "stall_id", "user_id", "rating", "comment",
			"user_name", "user_profile_image_url", "stall_name", "created_at",
		).
		Where(goqu.Ex{column: value}).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build review list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}
	defer rows.Close()

	reviews := []*entities.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan review", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating reviews", err)
	}

	return reviews, nil
}

// GetByUserAndStall retrieves the review a user wrote for a stall, if any
func (a *ReviewAdapter) GetByUserAndStall(ctx context.Context, userID, stallID string) (*entities.Review, error) {
	query, args, err := a.db.From("reviews").
		Select(
			"id", "stall_id", "user_id", "rating", "comment",
			"user_name", "user_profile_image_url", "stall_name", "created_at",
		).
		Where(goqu.Ex{"user_id": userID, "stall_id": stallID}).
		Order(goqu.I("created_at").Desc()).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build review lookup query", err)
	}

	review, err := scanReview(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(
			fmt.Sprintf("review by user %s for stall %s not found", userID, stallID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get review", err)
	}

	return review, nil
}
