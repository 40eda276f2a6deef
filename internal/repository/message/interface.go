// File: internal/repository/message/interface.go
package message

import (
	"context"

	"github.com/iyunix/go-healchat/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error)
	FindByID(ctx context.Context, messageID uint) (*domain.ChatMessage, error)
	// FindRecentByUser returns at most limit messages, oldest first.
	FindRecentByUser(ctx context.Context, userID uint, limit int) ([]domain.ChatMessage, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}
