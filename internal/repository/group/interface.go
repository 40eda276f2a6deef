// File: internal/repository/group/interface.go
package group

import (
	"context"

	"github.com/iyunix/go-healchat/internal/domain"
)

// GroupRepository covers groups, membership, group messages and direct messages.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) (*domain.Group, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Group, error)
	// FindOrCreate returns the group with the given slug, creating it from
	// the template when it does not exist yet.
	FindOrCreate(ctx context.Context, template *domain.Group) (*domain.Group, error)
	AddMember(ctx context.Context, groupID, userID uint) error
	// RemoveMember is a no-op when the user is not a member.
	RemoveMember(ctx context.Context, groupID, userID uint) error
	IsMember(ctx context.Context, groupID, userID uint) (bool, error)
	ListForUser(ctx context.Context, userID uint) ([]domain.Group, error)

	CreateGroupMessage(ctx context.Context, message *domain.GroupMessage) (*domain.GroupMessage, error)
	// RecentGroupMessages returns at most limit messages, oldest first.
	RecentGroupMessages(ctx context.Context, groupID uint, limit int) ([]domain.GroupMessage, error)
	RecentGroupTextsBySender(ctx context.Context, senderID uint, limit int) ([]string, error)

	CreateDirectMessage(ctx context.Context, message *domain.DirectMessage) (*domain.DirectMessage, error)
	// Conversation returns messages exchanged between two users, oldest first.
	Conversation(ctx context.Context, userA, userB uint, limit int) ([]domain.DirectMessage, error)
	RecentDirectTextsBySender(ctx context.Context, senderID uint, limit int) ([]string, error)
}
