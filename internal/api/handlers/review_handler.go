package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/chatori/chatori-backend/internal/application/services"
	"github.com/chatori/chatori-backend/internal/domain/entities"
)

// ReviewHandler handles review-related HTTP requests
type ReviewHandler struct {
	reviewService *services.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// CreateReview handles POST /api/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var review entities.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stall, err := h.reviewService.Create(r.Context(), &review)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"review": review,
		"stall":  stall,
	})
}

// ListStallReviews handles GET /api/stalls/{id}/reviews
func (h *ReviewHandler) ListStallReviews(w http.ResponseWriter, r *http.Request) {
	stallID := r.PathValue("id")
	if stallID == "" {
		respondWithError(w, http.StatusBadRequest, "stall ID is required")
		return
	}

	reviews, err := h.reviewService.ListByStall(r.Context(), stallID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// ListUserReviews handles GET /api/reviews?userId=
// With stallId also set it returns the user's latest review of that
// stall instead of the full list.
func (h *ReviewHandler) ListUserReviews(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}

	if stallID := r.URL.Query().Get("stallId"); stallID != "" {
		review, err := h.reviewService.GetByUserAndStall(r.Context(), userID, stallID)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, review)
		return
	}

	reviews, err := h.reviewService.ListByUser(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reviews": reviews,
		"count":   len(reviews),
	})
}
