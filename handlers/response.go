package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"tutor/models"
)

func writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError maps core errors onto HTTP statuses. Unexpected failures
// are logged and reported without internal detail.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrSessionUnavailable):
		writeErrorResponse(w, http.StatusNotFound, "Session not found or not active")
	case errors.Is(err, models.ErrGeneration):
		writeErrorResponse(w, http.StatusBadGateway, "Failed to generate a response, please try again")
	default:
		log.Printf("[ERROR] %s: %v", fallback, err)
		writeErrorResponse(w, http.StatusInternalServerError, fallback)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
