// File: internal/handlers/chat_handler.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/iyunix/go-healchat/internal/domain"
	"github.com/iyunix/go-healchat/internal/services"
)

// ChatReplier is the chat surface of services.ChatService.
type ChatReplier interface {
	Reply(ctx context.Context, userID uint, text string) (*services.ChatReply, error)
	History(ctx context.Context, userID uint) ([]domain.ChatMessage, error)
}

type ChatHandler struct {
	ChatService ChatReplier
}

func NewChatHandler(cs ChatReplier) *ChatHandler {
	return &ChatHandler{ChatService: cs}
}

type chatRequest struct {
	Message string `json:"message"`
}

// PostMessage answers one chat message.
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reply, err := h.ChatService.Reply(r.Context(), userID, req.Message)
	if err != nil {
		if errors.Is(err, services.ErrEmptyMessage) {
			writeError(w, "Message cannot be empty", http.StatusBadRequest)
			return
		}
		writeServiceError(w, err, "Could not process message")
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// GetHistory returns the user's chat history, oldest first.
func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	messages, err := h.ChatService.History(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Could not retrieve chat history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}
