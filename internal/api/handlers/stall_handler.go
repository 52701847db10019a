package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/chatori/chatori-backend/internal/application/services"
	"github.com/chatori/chatori-backend/internal/domain/entities"
	"github.com/chatori/chatori-backend/internal/domain/repositories"
)

const defaultListLimit = 30

// StallHandler handles stall-related HTTP requests
type StallHandler struct {
	stallService *services.StallService
}

// NewStallHandler creates a new stall handler
func NewStallHandler(stallService *services.StallService) *StallHandler {
	return &StallHandler{
		stallService: stallService,
	}
}

// CreateStall handles POST /api/stalls
func (h *StallHandler) CreateStall(w http.ResponseWriter, r *http.Request) {
	var stall entities.Stall
	if err := json.NewDecoder(r.Body).Decode(&stall); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.stallService.Create(r.Context(), &stall); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, stall)
}

// GetStall handles GET /api/stalls/{id}
func (h *StallHandler) GetStall(w http.ResponseWriter, r *http.Request) {
	stallID := r.PathValue("id")
	if stallID == "" {
		respondWithError(w, http.StatusBadRequest, "stall ID is required")
		return
	}

	stall, err := h.stallService.GetByID(r.Context(), stallID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stall)
}

// UpdateStall handles PATCH /api/stalls/{id}
func (h *StallHandler) UpdateStall(w http.ResponseWriter, r *http.Request) {
	stallID := r.PathValue("id")
	if stallID == "" {
		respondWithError(w, http.StatusBadRequest, "stall ID is required")
		return
	}

	stall, err := h.stallService.GetByID(r.Context(), stallID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	rating := stall.Rating
	numRatings := stall.NumRatings

	// Decode onto the loaded record so omitted fields keep their values
	if err := json.NewDecoder(r.Body).Decode(stall); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	stall.ID = stallID

	// The rating aggregate only moves through reviews; a PATCH body
	// cannot overwrite it.
	stall.Rating = rating
	stall.NumRatings = numRatings

	if err := h.stallService.Update(r.Context(), stall); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stall)
}

// ListStalls handles GET /api/stalls
func (h *StallHandler) ListStalls(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := repositories.StallFilter{
		DishType:  query.Get("dishType"),
		Area:      query.Get("area"),
		CreatedBy: query.Get("createdBy"),
		Limit:     parseIntParam(query.Get("limit"), defaultListLimit),
		Offset:    parseIntParam(query.Get("offset"), 0),
	}

	stalls, err := h.stallService.List(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"stalls": stalls,
		"count":  len(stalls),
	})
}

// DiscoverStalls handles GET /api/stalls/discover
func (h *StallHandler) DiscoverStalls(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := services.DiscoveryParams{
		Query:     query.Get("q"),
		DishType:  query.Get("dishType"),
		Area:      query.Get("area"),
		MinRating: parseFloatParam(query.Get("minRating"), 0),
		RadiusKm:  parseFloatParam(query.Get("radiusKm"), services.NoRadiusLimit),
		Sort:      query.Get("sort"),
	}

	latStr := query.Get("lat")
	lonStr := query.Get("lon")
	if latStr != "" && lonStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		if latErr != nil || lonErr != nil {
			respondWithError(w, http.StatusBadRequest, "invalid coordinates")
			return
		}
		params.UserLocation = &entities.Location{Latitude: lat, Longitude: lon}
	}

	results, err := h.stallService.Discover(r.Context(), params)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

// RecommendedStalls handles GET /api/stalls/recommended
func (h *StallHandler) RecommendedStalls(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r.URL.Query().Get("limit"), 10)

	stalls, err := h.stallService.Recommended(r.Context(), limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"stalls": stalls,
		"count":  len(stalls),
	})
}

// GetFilterOptions handles GET /api/stalls/filters
func (h *StallHandler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.stallService.FilterOptions(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, options)
}

// AddStallImage handles POST /api/stalls/{id}/images
func (h *StallHandler) AddStallImage(w http.ResponseWriter, r *http.Request) {
	stallID := r.PathValue("id")
	if stallID == "" {
		respondWithError(w, http.StatusBadRequest, "stall ID is required")
		return
	}

	var body struct {
		ImageURL string `json:"image_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stall, err := h.stallService.AddImage(r.Context(), stallID, body.ImageURL)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stall)
}

func parseIntParam(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}

func parseFloatParam(value string, fallback float64) float64 {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
