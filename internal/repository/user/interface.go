// File: internal/repository/user/interface.go
package user

import (
	"context"

	"github.com/iyunix/go-healchat/internal/domain"
)

// UserRepository handles user and profile data operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error

	FindProfile(ctx context.Context, userID uint) (*domain.Profile, error)
	SaveProfile(ctx context.Context, profile *domain.Profile) error
}
