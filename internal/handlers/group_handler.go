// File: internal/handlers/group_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/iyunix/go-healchat/internal/domain"
	"github.com/iyunix/go-healchat/internal/services"
)

type GroupHandler struct {
	GroupService *services.GroupService
}

func NewGroupHandler(gs *services.GroupService) *GroupHandler {
	return &GroupHandler{GroupService: gs}
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type contentRequest struct {
	Content string `json:"content"`
}

type groupMessageResponse struct {
	ID        uint   `json:"id"`
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req createGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	g, err := h.GroupService.CreateGroup(r.Context(), userID, req.Name, req.Description)
	if err != nil {
		writeServiceError(w, err, "Could not create group")
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	groups, err := h.GroupService.ListGroups(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Could not list groups")
		return
	}
	if groups == nil {
		groups = []domain.Group{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
}

func (h *GroupHandler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	g, err := h.GroupService.JoinGroup(r.Context(), userID, mux.Vars(r)["slug"])
	if err != nil {
		writeServiceError(w, err, "Could not join group")
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *GroupHandler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	slug := mux.Vars(r)["slug"]
	if err := h.GroupService.LeaveGroup(r.Context(), userID, slug); err != nil {
		writeServiceError(w, err, "Could not leave group")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"left": slug})
}

func (h *GroupHandler) GetGroupMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	msgs, err := h.GroupService.GroupMessages(r.Context(), userID, mux.Vars(r)["slug"])
	if err != nil {
		writeServiceError(w, err, "Could not load messages")
		return
	}

	out := make([]groupMessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, groupMessageResponse{
			ID:        m.ID,
			Sender:    m.Sender.Username,
			Content:   m.Content,
			CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": out})
}

func (h *GroupHandler) PostGroupMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req contentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.GroupService.PostGroupMessage(r.Context(), userID, mux.Vars(r)["slug"], req.Content)
	if err != nil {
		writeServiceError(w, err, "Could not post message")
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *GroupHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	msgs, err := h.GroupService.Conversation(r.Context(), userID, mux.Vars(r)["username"])
	if err != nil {
		writeServiceError(w, err, "Could not load conversation")
		return
	}
	if msgs == nil {
		msgs = []domain.DirectMessage{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": msgs})
}

func (h *GroupHandler) SendDirectMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req contentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.GroupService.SendDirectMessage(r.Context(), userID, mux.Vars(r)["username"], req.Content)
	if err != nil {
		writeServiceError(w, err, "Could not send message")
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
