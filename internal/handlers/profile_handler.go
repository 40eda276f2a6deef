// File: internal/handlers/profile_handler.go
package handlers

import (
	"net/http"

	"github.com/iyunix/go-healchat/internal/services/user_services"
)

type ProfileHandler struct {
	UserService user_services.UserServiceInterface
}

func NewProfileHandler(service user_services.UserServiceInterface) *ProfileHandler {
	return &ProfileHandler{UserService: service}
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	profile, err := h.UserService.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Could not load profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req user_services.ProfileUpdate
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.UserService.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err, "Could not update profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
