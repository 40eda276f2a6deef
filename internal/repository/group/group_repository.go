// File: internal/repository/group/group_repository.go
package group

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iyunix/go-healchat/internal/domain"
)

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrDuplicateGroup = errors.New("group name or slug already taken")
)

const maxPageSize = 1000

type gormGroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &gormGroupRepository{db: db}
}

func (r *gormGroupRepository) Create(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	if err := validateGroupInput(group); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var taken int64
	if err := r.db.WithContext(ctx).Model(&domain.Group{}).
		Where("slug = ? OR name = ?", group.Slug, group.Name).
		Count(&taken).Error; err != nil {
		log.Printf("[GroupRepository] Database error checking group uniqueness: %v", err)
		return nil, errors.New("database error creating group")
	}
	if taken > 0 {
		return nil, ErrDuplicateGroup
	}

	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		log.Printf("[GroupRepository] Database error creating group %q: %v", group.Slug, err)
		return nil, errors.New("database error creating group")
	}
	log.Printf("[GroupRepository] Group created with ID: %d slug: %s", group.ID, group.Slug)
	return group, nil
}

func (r *gormGroupRepository) FindBySlug(ctx context.Context, slug string) (*domain.Group, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, errors.New("slug cannot be empty")
	}

	var group domain.Group
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		log.Printf("[GroupRepository] Database error finding group %q: %v", slug, err)
		return nil, errors.New("database error fetching group")
	}
	return &group, nil
}

func (r *gormGroupRepository) FindOrCreate(ctx context.Context, template *domain.Group) (*domain.Group, error) {
	if err := validateGroupInput(template); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	group := *template
	err := r.db.WithContext(ctx).
		Where(domain.Group{Slug: template.Slug}).
		Attrs(domain.Group{Name: template.Name, Description: template.Description, CreatedBy: template.CreatedBy}).
		FirstOrCreate(&group).Error
	if err != nil {
		log.Printf("[GroupRepository] Database error in FindOrCreate for %q: %v", template.Slug, err)
		return nil, errors.New("database error fetching group")
	}
	return &group, nil
}

func (r *gormGroupRepository) AddMember(ctx context.Context, groupID, userID uint) error {
	if groupID == 0 || userID == 0 {
		return errors.New("invalid group ID or user ID")
	}

	// Joining twice is a no-op.
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Table("group_members").
		Create(map[string]any{"group_id": groupID, "user_id": userID}).Error
	if err != nil {
		log.Printf("[GroupRepository] Database error adding user %d to group %d: %v", userID, groupID, err)
		return errors.New("database error joining group")
	}
	return nil
}

func (r *gormGroupRepository) RemoveMember(ctx context.Context, groupID, userID uint) error {
	if groupID == 0 || userID == 0 {
		return errors.New("invalid group ID or user ID")
	}

	err := r.db.WithContext(ctx).
		Exec("DELETE FROM group_members WHERE group_id = ? AND user_id = ?", groupID, userID).Error
	if err != nil {
		log.Printf("[GroupRepository] Database error removing user %d from group %d: %v", userID, groupID, err)
		return errors.New("database error leaving group")
	}
	return nil
}

func (r *gormGroupRepository) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("group_members").
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	if err != nil {
		log.Printf("[GroupRepository] Database error checking membership: %v", err)
		return false, errors.New("database error checking membership")
	}
	return count > 0, nil
}

func (r *gormGroupRepository) ListForUser(ctx context.Context, userID uint) ([]domain.Group, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var groups []domain.Group
	memberOf := r.db.Table("group_members").Select("group_id").Where("user_id = ?", userID)
	err := r.db.WithContext(ctx).
		Where("id IN (?)", memberOf).
		Order("name asc").
		Find(&groups).Error
	if err != nil {
		log.Printf("[GroupRepository] Database error listing groups for user %d: %v", userID, err)
		return nil, errors.New("database error listing groups")
	}
	return groups, nil
}

func (r *gormGroupRepository) CreateGroupMessage(ctx context.Context, message *domain.GroupMessage) (*domain.GroupMessage, error) {
	if message == nil || message.GroupID == 0 || message.SenderID == 0 {
		return nil, errors.New("validation failed: group and sender are required")
	}
	if strings.TrimSpace(message.Content) == "" {
		return nil, errors.New("validation failed: content cannot be empty")
	}

	if err := r.db.WithContext(ctx).Omit("Sender").Create(message).Error; err != nil {
		log.Printf("[GroupRepository] Database error creating message in group %d: %v", message.GroupID, err)
		return nil, errors.New("database error creating message")
	}
	return message, nil
}

func (r *gormGroupRepository) RecentGroupMessages(ctx context.Context, groupID uint, limit int) ([]domain.GroupMessage, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	var messages []domain.GroupMessage
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("group_id = ?", groupID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		log.Printf("[GroupRepository] Database error listing messages for group %d: %v", groupID, err)
		return nil, errors.New("database error fetching messages")
	}
	reverse(messages)
	return messages, nil
}

func (r *gormGroupRepository) RecentGroupTextsBySender(ctx context.Context, senderID uint, limit int) ([]string, error) {
	return r.recentTexts(ctx, &domain.GroupMessage{}, senderID, limit)
}

func (r *gormGroupRepository) CreateDirectMessage(ctx context.Context, message *domain.DirectMessage) (*domain.DirectMessage, error) {
	if message == nil || message.SenderID == 0 || message.ReceiverID == 0 {
		return nil, errors.New("validation failed: sender and receiver are required")
	}
	if strings.TrimSpace(message.Content) == "" {
		return nil, errors.New("validation failed: content cannot be empty")
	}

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		log.Printf("[GroupRepository] Database error creating direct message from %d: %v", message.SenderID, err)
		return nil, errors.New("database error creating message")
	}
	return message, nil
}

func (r *gormGroupRepository) Conversation(ctx context.Context, userA, userB uint, limit int) ([]domain.DirectMessage, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	var messages []domain.DirectMessage
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userA, userB, userB, userA).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		log.Printf("[GroupRepository] Database error loading conversation %d/%d: %v", userA, userB, err)
		return nil, errors.New("database error fetching messages")
	}
	reverse(messages)
	return messages, nil
}

func (r *gormGroupRepository) RecentDirectTextsBySender(ctx context.Context, senderID uint, limit int) ([]string, error) {
	return r.recentTexts(ctx, &domain.DirectMessage{}, senderID, limit)
}

// recentTexts returns the sender's latest contents, newest first.
func (r *gormGroupRepository) recentTexts(ctx context.Context, model any, senderID uint, limit int) ([]string, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	var texts []string
	err := r.db.WithContext(ctx).Model(model).
		Where("sender_id = ?", senderID).
		Order("created_at desc, id desc").
		Limit(limit).
		Pluck("content", &texts).Error
	if err != nil {
		log.Printf("[GroupRepository] Database error loading texts for sender %d: %v", senderID, err)
		return nil, errors.New("database error fetching messages")
	}
	return texts, nil
}

func validateGroupInput(group *domain.Group) error {
	if group == nil {
		return errors.New("group cannot be nil")
	}
	if strings.TrimSpace(group.Name) == "" {
		return errors.New("group name is required")
	}
	if strings.TrimSpace(group.Slug) == "" {
		return errors.New("group slug is required")
	}
	return nil
}

func validateLimit(limit int) error {
	if limit <= 0 || limit > maxPageSize {
		return fmt.Errorf("invalid limit: must be between 1 and %d", maxPageSize)
	}
	return nil
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
