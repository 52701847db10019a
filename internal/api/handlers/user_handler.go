package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/chatori/chatori-backend/internal/application/services"
	"github.com/chatori/chatori-backend/internal/domain/entities"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user entities.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.userService.Create(r.Context(), &user); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, user)
}

// GetUser handles GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

// UpdateUser handles PATCH /api/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	// Decode onto the loaded record so omitted fields keep their values
	if err := json.NewDecoder(r.Body).Decode(user); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user.ID = userID

	if err := h.userService.Update(r.Context(), user); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

// ListFavorites handles GET /api/users/{id}/favorites
func (h *UserHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	stalls, err := h.userService.FavoriteStalls(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"stalls": stalls,
		"count":  len(stalls),
	})
}

// AddFavorite handles PUT /api/users/{id}/favorites/{stallId}
func (h *UserHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	stallID := r.PathValue("stallId")
	if userID == "" || stallID == "" {
		respondWithError(w, http.StatusBadRequest, "user ID and stall ID are required")
		return
	}

	if err := h.userService.AddFavorite(r.Context(), userID, stallID); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"favorited": true,
	})
}

// RemoveFavorite handles DELETE /api/users/{id}/favorites/{stallId}
func (h *UserHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	stallID := r.PathValue("stallId")
	if userID == "" || stallID == "" {
		respondWithError(w, http.StatusBadRequest, "user ID and stall ID are required")
		return
	}

	if err := h.userService.RemoveFavorite(r.Context(), userID, stallID); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"favorited": false,
	})
}

// ToggleFavorite handles POST /api/users/{id}/favorites/{stallId}/toggle
func (h *UserHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	stallID := r.PathValue("stallId")
	if userID == "" || stallID == "" {
		respondWithError(w, http.StatusBadRequest, "user ID and stall ID are required")
		return
	}

	favorited, err := h.userService.ToggleFavorite(r.Context(), userID, stallID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"favorited": favorited,
	})
}
