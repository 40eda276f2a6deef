// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iyunix/go-healchat/internal/auth"
	"github.com/iyunix/go-healchat/internal/domain"
	"github.com/iyunix/go-healchat/internal/repository/user"
	"github.com/iyunix/go-healchat/internal/services"
)

// ErrInvalidCredentials hides which half of the login was wrong.
var ErrInvalidCredentials = services.NewAuthError("login", "invalid credentials")

type AuthService struct {
	userRepo     user.UserRepository
	community    CommunityJoiner
	jwtSecretKey []byte
	tokenTTL     time.Duration
	logger       Logger
}

func NewAuthService(userRepo user.UserRepository, community CommunityJoiner, jwtSecretKey string, tokenTTL time.Duration, logger Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = auth.DefaultTokenTTL
	}
	return &AuthService{
		userRepo:     userRepo,
		community:    community,
		jwtSecretKey: []byte(jwtSecretKey),
		tokenTTL:     tokenTTL,
		logger:       logger,
	}
}

// Register creates the account, an empty profile and the community membership.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	newUser := &domain.User{
		Username: strings.TrimSpace(username),
		Email:    strings.ToLower(strings.TrimSpace(email)),
	}
	if err := newUser.IsValid(); err != nil {
		s.logger.Warn("registration validation failed", "username", mask(newUser.Username), "error", err.Error())
		return nil, services.NewValidationError("register", err.Error())
	}
	if err := newUser.HashPassword(password); err != nil {
		return nil, services.NewValidationError("register", err.Error())
	}

	existing, err := s.userRepo.FindByUsernameOrEmail(ctx, newUser.Username, newUser.Email)
	if err == nil && existing != nil {
		s.logger.Warn("registration failed - user already exists",
			"username", mask(newUser.Username),
			"existing_user_id", existing.ID)
		return nil, services.NewConflictError("register", "username or email already taken")
	}
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return nil, services.NewInternalError("register", "could not check existing users", err)
	}

	created, err := s.userRepo.Create(ctx, newUser)
	if errors.Is(err, user.ErrDuplicateUser) {
		return nil, services.NewConflictError("register", "username or email already taken")
	}
	if err != nil {
		s.logger.Error("user creation failed", "username", mask(newUser.Username), "error", err)
		return nil, services.NewInternalError("register", "failed to create user", err)
	}

	if err := s.userRepo.SaveProfile(ctx, &domain.Profile{UserID: created.ID}); err != nil {
		s.logger.Error("profile creation failed", "user_id", created.ID, "error", err)
	}
	if s.community != nil {
		if err := s.community.JoinCommunity(ctx, created.ID); err != nil {
			s.logger.Error("community join failed", "user_id", created.ID, "error", err)
		}
	}

	s.logger.Info("user registered successfully", "username", mask(created.Username), "user_id", created.ID)
	return created, nil
}

// Login checks the password and issues a signed token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	if username == "" || password == "" {
		s.logger.Warn("login attempt with empty credentials",
			"has_username", username != "",
			"has_password", password != "")
		return nil, "", services.NewValidationError("login", "username and password are required")
	}

	found, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			return nil, "", services.NewInternalError("login", "could not load user", err)
		}
		s.logger.Warn("login failed - user not found", "username", mask(username))
		return nil, "", ErrInvalidCredentials
	}

	if err := found.ValidatePassword(password); err != nil {
		s.logger.Warn("login failed - invalid password", "username", mask(username), "user_id", found.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(found.ID, s.jwtSecretKey, s.tokenTTL)
	if err != nil {
		s.logger.Error("JWT token generation failed", "user_id", found.ID, "error", err)
		return nil, "", services.NewInternalError("login", "failed to generate token", err)
	}

	s.logger.Info("login successful", "username", mask(username), "user_id", found.ID)
	return found, token, nil
}

// ValidateJWTToken returns the user ID carried by a token.
func (s *AuthService) ValidateJWTToken(tokenString string) (uint, error) {
	if tokenString == "" {
		return 0, errors.New("empty token")
	}
	return auth.ValidateToken(tokenString, s.jwtSecretKey)
}
