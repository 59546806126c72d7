package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// RespondJSON writes payload as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// RespondError writes the standard error envelope {error, message}.
func RespondError(w http.ResponseWriter, status int, code, message string) {
	RespondJSON(w, status, map[string]string{"error": code, "message": message})
}

// RespondValidationError reports field-level validation failures.
func RespondValidationError(w http.ResponseWriter, details map[string]string) {
	RespondJSON(w, http.StatusBadRequest, map[string]any{
		"error":   "validation_error",
		"message": "invalid request body",
		"details": details,
	})
}
