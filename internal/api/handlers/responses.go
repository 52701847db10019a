package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/chatori/chatori-backend/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithServiceError maps an application error to an HTTP status.
// Internal details never leak to the client.
func respondWithServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeConflict:
			respondWithError(w, http.StatusConflict, appErr.Message)
		case apperrors.ErrorTypeUnauthorized:
			respondWithError(w, http.StatusUnauthorized, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
