// File: internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/iyunix/go-healchat/internal/middleware"
	"github.com/iyunix/go-healchat/internal/services"
)

const maxBodyBytes = 1 << 20

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[Handlers] Failed to encode response: %v", err)
	}
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service error types to HTTP statuses. Internal
// details never reach the client.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var se *services.ServiceError
	if !errors.As(err, &se) {
		log.Printf("[Handlers] Unexpected error: %v", err)
		writeError(w, fallback, http.StatusInternalServerError)
		return
	}

	switch se.Type {
	case services.ErrTypeValidation:
		writeError(w, se.Message, http.StatusBadRequest)
	case services.ErrTypeAuth:
		writeError(w, se.Message, http.StatusUnauthorized)
	case services.ErrTypeForbidden:
		writeError(w, se.Message, http.StatusForbidden)
	case services.ErrTypeNotFound:
		writeError(w, se.Message, http.StatusNotFound)
	case services.ErrTypeConflict:
		writeError(w, se.Message, http.StatusConflict)
	default:
		log.Printf("[Handlers] %v", err)
		writeError(w, fallback, http.StatusInternalServerError)
	}
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, "Request body is required", http.StatusBadRequest)
			return false
		}
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// currentUser returns the authenticated user ID or writes a 401.
func currentUser(w http.ResponseWriter, r *http.Request) (uint, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return 0, false
	}
	return userID, true
}
