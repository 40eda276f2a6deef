// File: internal/handlers/auth_handlers.go
package handlers

import (
	"net/http"

	"github.com/iyunix/go-healchat/internal/dtos"
	"github.com/iyunix/go-healchat/internal/services/user_services"
)

// AuthHandler holds the dependencies for authentication handlers.
type AuthHandler struct {
	UserService user_services.UserServiceInterface
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service user_services.UserServiceInterface) *AuthHandler {
	return &AuthHandler{UserService: service}
}

// Register handles new user registrations.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dtos.UserCreateRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.UserService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err, "Registration failed")
		return
	}
	writeJSON(w, http.StatusCreated, dtos.FromDomain(*u))
}

// Login exchanges credentials for a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dtos.UserLoginRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	u, token, err := h.UserService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err, "Login failed")
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewLoginResponse(*u, token))
}
