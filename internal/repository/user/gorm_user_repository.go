// File: internal/repository/user/gorm_user_repository.go
package user

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
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrDuplicateUser   = errors.New("username or email already taken")
)

type gormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.validateUserInput(user); err != nil {
		log.Printf("[UserRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			log.Printf("[UserRepository] Duplicate username or email for %q", user.Username)
			return nil, ErrDuplicateUser
		}
		log.Printf("[UserRepository] Database error during user creation: %v", err)
		return nil, errors.New("database error creating user")
	}

	log.Printf("[UserRepository] User created successfully with ID: %d", user.ID)
	return user, nil
}

func (r *gormUserRepository) Update(ctx context.Context, user *domain.User) error {
	if user.ID == 0 {
		return errors.New("invalid user ID")
	}
	if err := r.validateUserInput(user); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	result := r.db.WithContext(ctx).Save(user)
	if result.Error != nil {
		log.Printf("[UserRepository] Database error during user update for ID %d: %v", user.ID, result.Error)
		return errors.New("database error updating user")
	}
	return nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if id == 0 {
		return nil, errors.New("invalid user ID")
	}

	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	return handleFindError(err, &user, ErrUserNotFound)
}

func (r *gormUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}

	var user domain.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return handleFindError(err, &user, ErrUserNotFound)
}

func (r *gormUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", strings.TrimSpace(username), strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	return handleFindError(err, &user, ErrUserNotFound)
}

func (r *gormUserRepository) FindProfile(ctx context.Context, userID uint) (*domain.Profile, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var profile domain.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	return handleFindError(err, &profile, ErrProfileNotFound)
}

// SaveProfile inserts the profile or overwrites the editable fields of the
// existing row for the same user.
func (r *gormUserRepository) SaveProfile(ctx context.Context, profile *domain.Profile) error {
	if profile == nil || profile.UserID == 0 {
		return errors.New("profile must reference a user")
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"bio", "emergency_name", "emergency_phone", "updated_at"}),
	}).Create(profile).Error
	if err != nil {
		log.Printf("[UserRepository] Database error saving profile for user %d: %v", profile.UserID, err)
		return errors.New("database error saving profile")
	}
	return nil
}

func (r *gormUserRepository) validateUserInput(user *domain.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}
	if err := user.IsValid(); err != nil {
		return err
	}
	if user.Password == "" {
		return errors.New("password hash is required")
	}
	return nil
}

func handleFindError[T any](err error, record *T, notFound error) (*T, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		log.Printf("[UserRepository] Database error: %v", err)
		return nil, errors.New("database error")
	}
	return record, nil
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
