package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/chatori/chatori-backend/internal/domain/providers"
)

// GeolocationHandler handles geolocation endpoints.
type GeolocationHandler struct {
	provider providers.GeolocationProvider
}

// NewGeolocationHandler creates a new geolocation handler.
func NewGeolocationHandler(provider providers.GeolocationProvider) *GeolocationHandler {
	return &GeolocationHandler{provider: provider}
}

// Geocode handles GET /api/geocode?address=...
func (h *GeolocationHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		respondWithError(w, http.StatusBadRequest, "address parameter is required")
		return
	}

	coords, err := h.provider.Geocode(r.Context(), address)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "failed to geocode address")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"address": address,
		"lat":     coords.Latitude,
		"lon":     coords.Longitude,
	})
}

// ReverseGeocode handles GET /api/reverse-geocode?lat=...&lon=...
func (h *GeolocationHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseLatLon(w, r)
	if !ok {
		return
	}

	address, err := h.provider.ReverseGeocode(r.Context(), lat, lon)
	if err != nil {
		log.Printf("ReverseGeocode error: %v", err)
		respondWithError(w, http.StatusBadGateway, "failed to reverse geocode")
		return
	}

	respondWithJSON(w, http.StatusOK, address)
}

// Distance handles GET /api/distance?lat=&lon=&toLat=&toLon=
func (h *GeolocationHandler) Distance(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseLatLon(w, r)
	if !ok {
		return
	}

	toLatStr := strings.TrimSpace(r.URL.Query().Get("toLat"))
	toLonStr := strings.TrimSpace(r.URL.Query().Get("toLon"))
	if toLatStr == "" || toLonStr == "" {
		respondWithError(w, http.StatusBadRequest, "toLat and toLon parameters are required")
		return
	}

	toLat, err := strconv.ParseFloat(toLatStr, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid toLat parameter")
		return
	}
	toLon, err := strconv.ParseFloat(toLonStr, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid toLon parameter")
		return
	}

	distance, err := h.provider.CalculateDistance(r.Context(),
		providers.Coordinates{Latitude: lat, Longitude: lon},
		providers.Coordinates{Latitude: toLat, Longitude: toLon},
	)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to calculate distance")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"distance_km": distance,
	})
}

func parseLatLon(w http.ResponseWriter, r *http.Request) (float64, float64, bool) {
	latStr := strings.TrimSpace(r.URL.Query().Get("lat"))
	lonStr := strings.TrimSpace(r.URL.Query().Get("lon"))
	if latStr == "" || lonStr == "" {
		respondWithError(w, http.StatusBadRequest, "lat and lon parameters are required")
		return 0, 0, false
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid lat parameter")
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid lon parameter")
		return 0, 0, false
	}

	return lat, lon, true
}
