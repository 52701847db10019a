package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/chatori/chatori-backend/internal/application/services"
	"github.com/chatori/chatori-backend/internal/domain/entities"
)

// DishHandler handles dish-related HTTP requests
type DishHandler struct {
	dishService *services.DishService
}

// NewDishHandler creates a new dish handler
func NewDishHandler(dishService *services.DishService) *DishHandler {
	return &DishHandler{
		dishService: dishService,
	}
}

// CreateDish handles POST /api/dishes
func (h *DishHandler) CreateDish(w http.ResponseWriter, r *http.Request) {
	var dish entities.Dish
	if err := json.NewDecoder(r.Body).Decode(&dish); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.dishService.Create(r.Context(), &dish); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, dish)
}

// GetDish handles GET /api/dishes/{id}
func (h *DishHandler) GetDish(w http.ResponseWriter, r *http.Request) {
	dishID := r.PathValue("id")
	if dishID == "" {
		respondWithError(w, http.StatusBadRequest, "dish ID is required")
		return
	}

	dish, err := h.dishService.GetByID(r.Context(), dishID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, dish)
}

// LookupDish handles GET /api/dishes?name=
func (h *DishHandler) LookupDish(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	dish, err := h.dishService.GetByName(r.Context(), name)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, dish)
}

// AddDishTag handles PUT /api/dishes/{id}/tags/{tag}
func (h *DishHandler) AddDishTag(w http.ResponseWriter, r *http.Request) {
	dishID := r.PathValue("id")
	if dishID == "" {
		respondWithError(w, http.StatusBadRequest, "dish ID is required")
		return
	}

	dish, err := h.dishService.AddTag(r.Context(), dishID, r.PathValue("tag"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, dish)
}

// RemoveDishTag handles DELETE /api/dishes/{id}/tags/{tag}
func (h *DishHandler) RemoveDishTag(w http.ResponseWriter, r *http.Request) {
	dishID := r.PathValue("id")
	if dishID == "" {
		respondWithError(w, http.StatusBadRequest, "dish ID is required")
		return
	}

	dish, err := h.dishService.RemoveTag(r.Context(), dishID, r.PathValue("tag"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, dish)
}

// ListStallDishes handles GET /api/stalls/{id}/dishes
func (h *DishHandler) ListStallDishes(w http.ResponseWriter, r *http.Request) {
	stallID := r.PathValue("id")
	if stallID == "" {
		respondWithError(w, http.StatusBadRequest, "stall ID is required")
		return
	}

	dishes, err := h.dishService.ListByStall(r.Context(), stallID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"dishes": dishes,
		"count":  len(dishes),
	})
}
