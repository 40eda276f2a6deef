// File: internal/services/group_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/iyunix/go-healchat/internal/domain"
	"github.com/iyunix/go-healchat/internal/repository/group"
	"github.com/iyunix/go-healchat/internal/repository/user"
)

const (
	maxGroupNameLength   = 100
	maxMessageLength     = 2000
	messagePageSize      = 50
	communityGroupName   = "Community"
	communityDescription = "A shared space for everyone on HealChat."
)

// UserFinder resolves usernames for direct messages.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

type GroupService struct {
	groupRepo group.GroupRepository
	users     UserFinder
	logger    Logger
}

func NewGroupService(groupRepo group.GroupRepository, users UserFinder, logger Logger) *GroupService {
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &GroupService{groupRepo: groupRepo, users: users, logger: logger}
}

// CreateGroup creates a group named name; the creator becomes its first member.
func (s *GroupService) CreateGroup(ctx context.Context, creatorID uint, name, description string) (*domain.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("create_group", "group name cannot be empty")
	}
	if len(name) > maxGroupNameLength {
		return nil, NewValidationError("create_group", "group name is too long")
	}
	slug := Slugify(name)
	if slug == "" {
		return nil, NewValidationError("create_group", "group name must contain letters or digits")
	}

	g, err := s.groupRepo.Create(ctx, &domain.Group{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(description),
		CreatedBy:   &creatorID,
	})
	if err != nil {
		if errors.Is(err, group.ErrDuplicateGroup) {
			return nil, NewConflictError("create_group", "a group with this name already exists")
		}
		return nil, NewInternalError("create_group", "could not create group", err)
	}

	if err := s.groupRepo.AddMember(ctx, g.ID, creatorID); err != nil {
		return nil, NewInternalError("create_group", "could not join new group", err)
	}

	s.logger.Info("group created", "group_id", g.ID, "slug", g.Slug, "creator_id", creatorID)
	return g, nil
}

func (s *GroupService) JoinGroup(ctx context.Context, userID uint, slug string) (*domain.Group, error) {
	g, err := s.findGroup(ctx, "join_group", slug)
	if err != nil {
		return nil, err
	}
	if err := s.groupRepo.AddMember(ctx, g.ID, userID); err != nil {
		return nil, NewInternalError("join_group", "could not join group", err)
	}
	return g, nil
}

// LeaveGroup removes a member. Messages already posted stay in the group.
func (s *GroupService) LeaveGroup(ctx context.Context, userID uint, slug string) error {
	g, err := s.memberGroup(ctx, "leave_group", userID, slug)
	if err != nil {
		return err
	}
	if err := s.groupRepo.RemoveMember(ctx, g.ID, userID); err != nil {
		return NewInternalError("leave_group", "could not leave group", err)
	}
	s.logger.Info("group left", "group_id", g.ID, "user_id", userID)
	return nil
}

// JoinCommunity adds the user to the shared community group, creating the
// group the first time.
func (s *GroupService) JoinCommunity(ctx context.Context, userID uint) error {
	g, err := s.groupRepo.FindOrCreate(ctx, &domain.Group{
		Name:        communityGroupName,
		Slug:        domain.CommunityGroupSlug,
		Description: communityDescription,
	})
	if err != nil {
		return NewInternalError("join_community", "could not load community group", err)
	}
	if err := s.groupRepo.AddMember(ctx, g.ID, userID); err != nil {
		return NewInternalError("join_community", "could not join community group", err)
	}
	return nil
}

func (s *GroupService) ListGroups(ctx context.Context, userID uint) ([]domain.Group, error) {
	groups, err := s.groupRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, NewInternalError("list_groups", "could not list groups", err)
	}
	return groups, nil
}

func (s *GroupService) PostGroupMessage(ctx context.Context, userID uint, slug, content string) (*domain.GroupMessage, error) {
	content, err := validateContent("post_group_message", content)
	if err != nil {
		return nil, err
	}
	g, err := s.memberGroup(ctx, "post_group_message", userID, slug)
	if err != nil {
		return nil, err
	}

	msg, err := s.groupRepo.CreateGroupMessage(ctx, &domain.GroupMessage{GroupID: g.ID, SenderID: userID, Content: content})
	if err != nil {
		return nil, NewInternalError("post_group_message", "could not save message", err)
	}
	return msg, nil
}

// GroupMessages returns the latest messages of a group the user belongs to, oldest first.
func (s *GroupService) GroupMessages(ctx context.Context, userID uint, slug string) ([]domain.GroupMessage, error) {
	g, err := s.memberGroup(ctx, "group_messages", userID, slug)
	if err != nil {
		return nil, err
	}

	msgs, err := s.groupRepo.RecentGroupMessages(ctx, g.ID, messagePageSize)
	if err != nil {
		return nil, NewInternalError("group_messages", "could not load messages", err)
	}
	return msgs, nil
}

func (s *GroupService) SendDirectMessage(ctx context.Context, senderID uint, toUsername, content string) (*domain.DirectMessage, error) {
	content, err := validateContent("send_direct_message", content)
	if err != nil {
		return nil, err
	}
	receiver, err := s.peer(ctx, "send_direct_message", senderID, toUsername)
	if err != nil {
		return nil, err
	}

	msg, err := s.groupRepo.CreateDirectMessage(ctx, &domain.DirectMessage{SenderID: senderID, ReceiverID: receiver.ID, Content: content})
	if err != nil {
		return nil, NewInternalError("send_direct_message", "could not save message", err)
	}
	return msg, nil
}

// Conversation returns the latest direct messages between the user and another user, oldest first.
func (s *GroupService) Conversation(ctx context.Context, userID uint, withUsername string) ([]domain.DirectMessage, error) {
	other, err := s.peer(ctx, "conversation", userID, withUsername)
	if err != nil {
		return nil, err
	}

	msgs, err := s.groupRepo.Conversation(ctx, userID, other.ID, messagePageSize)
	if err != nil {
		return nil, NewInternalError("conversation", "could not load messages", err)
	}
	return msgs, nil
}

func (s *GroupService) findGroup(ctx context.Context, op, slug string) (*domain.Group, error) {
	g, err := s.groupRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, group.ErrGroupNotFound) {
			return nil, NewNotFoundError(op, "group not found")
		}
		return nil, NewInternalError(op, "could not load group", err)
	}
	return g, nil
}

func (s *GroupService) memberGroup(ctx context.Context, op string, userID uint, slug string) (*domain.Group, error) {
	g, err := s.findGroup(ctx, op, slug)
	if err != nil {
		return nil, err
	}
	ok, err := s.groupRepo.IsMember(ctx, g.ID, userID)
	if err != nil {
		return nil, NewInternalError(op, "could not check membership", err)
	}
	if !ok {
		return nil, NewForbiddenError(op, "you are not a member of this group")
	}
	return g, nil
}

func (s *GroupService) peer(ctx context.Context, op string, userID uint, username string) (*domain.User, error) {
	other, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, NewNotFoundError(op, "user not found")
		}
		return nil, NewInternalError(op, "could not load user", err)
	}
	if other.ID == userID {
		return nil, NewValidationError(op, "cannot message yourself")
	}
	return other, nil
}

func validateContent(op, content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", NewValidationError(op, "message cannot be empty")
	}
	if len(content) > maxMessageLength {
		return "", NewValidationError(op, "message is too long")
	}
	return content, nil
}

// Slugify lowercases name and joins its letter/digit runs with hyphens.
func Slugify(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
