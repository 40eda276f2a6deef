// File: internal/dtos/user.go
package dtos

import (
	"time"

	"github.com/iyunix/go-healchat/internal/domain"
)

// UserResponseDTO defines what fields to expose in user API responses.
// The password hash is never included.
type UserResponseDTO struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// UserCreateRequestDTO represents the expected payload to create a new user.
type UserCreateRequestDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserLoginRequestDTO represents the login payload. Username may also hold
// the account email.
type UserLoginRequestDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserLoginResponseDTO represents the login response.
type UserLoginResponseDTO struct {
	User      UserResponseDTO `json:"user"`
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
}

// FromDomain maps a domain.User to UserResponseDTO for public API responses.
func FromDomain(user domain.User) UserResponseDTO {
	return UserResponseDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// NewLoginResponse wraps a user and bearer token.
func NewLoginResponse(user domain.User, token string) UserLoginResponseDTO {
	return UserLoginResponseDTO{
		User:      FromDomain(user),
		Token:     token,
		TokenType: "Bearer",
	}
}
