// File: internal/services/user_services/user_service.go
package user_services

import (
	"context"
	"time"

	"github.com/iyunix/go-healchat/internal/domain"
	"github.com/iyunix/go-healchat/internal/repository/user"
)

// UserService is the main service that composes other user-related services
type UserService struct {
	*AuthService
	*ProfileService
}

func NewUserService(userRepo user.UserRepository, community CommunityJoiner, jwtSecret string, tokenTTL time.Duration, logger Logger) *UserService {
	return &UserService{
		AuthService:    NewAuthService(userRepo, community, jwtSecret, tokenTTL, logger),
		ProfileService: NewProfileService(userRepo, logger),
	}
}

// UserServiceInterface defines the complete interface for user operations
type UserServiceInterface interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
	ValidateJWTToken(tokenString string) (uint, error)

	GetProfile(ctx context.Context, userID uint) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*domain.Profile, error)
}

var _ UserServiceInterface = (*UserService)(nil)
