// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/iyunix/go-healchat/internal/domain"
)

var ErrMessageNotFound = errors.New("message not found")

const maxPageSize = 1000

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error) {
	if err := validateMessageInput(message); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		// Message text is never logged.
		log.Printf("[MessageRepository] Database error creating message for user %d: %v", message.UserID, err)
		return nil, errors.New("database error creating message")
	}
	return message, nil
}

func (r *gormMessageRepository) FindByID(ctx context.Context, messageID uint) (*domain.ChatMessage, error) {
	if messageID == 0 {
		return nil, errors.New("invalid message ID")
	}

	var message domain.ChatMessage
	err := r.db.WithContext(ctx).First(&message, messageID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		log.Printf("[MessageRepository] Database error in FindByID: %v", err)
		return nil, errors.New("database error fetching message")
	}
	return &message, nil
}

func (r *gormMessageRepository) FindRecentByUser(ctx context.Context, userID uint, limit int) ([]domain.ChatMessage, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}
	if limit <= 0 || limit > maxPageSize {
		return nil, fmt.Errorf("invalid limit: must be between 1 and %d", maxPageSize)
	}

	var messages []domain.ChatMessage
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error finding recent messages for user %d: %v", userID, err)
		return nil, errors.New("database error fetching messages")
	}

	reverse(messages)
	return messages, nil
}

func (r *gormMessageRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ChatMessage{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for user %d: %v", userID, err)
		return 0, errors.New("database error counting messages")
	}
	return count, nil
}

func validateMessageInput(message *domain.ChatMessage) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.UserID == 0 {
		return errors.New("user ID is required")
	}
	if strings.TrimSpace(message.Message) == "" {
		return errors.New("message text cannot be empty")
	}
	if message.Emotion != domain.EmotionPositive && message.Emotion != domain.EmotionNegative {
		return fmt.Errorf("invalid emotion %q", message.Emotion)
	}
	return nil
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
