// File: internal/services/user_services/profile_service.go
package user_services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/iyunix/go-healchat/internal/domain"
	"github.com/iyunix/go-healchat/internal/repository/user"
	"github.com/iyunix/go-healchat/internal/services"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

const (
	maxBioLength  = 500
	maxNameLength = 100
)

type ProfileService struct {
	userRepo user.UserRepository
	logger   Logger
}

func NewProfileService(userRepo user.UserRepository, logger Logger) *ProfileService {
	return &ProfileService{userRepo: userRepo, logger: logger}
}

// GetProfile returns the stored profile, or an empty one for users who never saved it.
func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*domain.Profile, error) {
	profile, err := s.userRepo.FindProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrProfileNotFound) {
			return &domain.Profile{UserID: userID}, nil
		}
		return nil, services.NewInternalError("get_profile", "could not load profile", err)
	}
	return profile, nil
}

// UpdateProfile replaces the editable fields. Blank contact fields clear the contact.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*domain.Profile, error) {
	profile := &domain.Profile{
		UserID:         userID,
		Bio:            strings.TrimSpace(update.Bio),
		EmergencyName:  strings.TrimSpace(update.EmergencyName),
		EmergencyPhone: strings.ReplaceAll(strings.TrimSpace(update.EmergencyPhone), " ", ""),
	}

	if len(profile.Bio) > maxBioLength {
		return nil, services.NewValidationError("update_profile", "bio is too long")
	}
	if len(profile.EmergencyName) > maxNameLength {
		return nil, services.NewValidationError("update_profile", "emergency contact name is too long")
	}
	if profile.EmergencyPhone != "" && !phonePattern.MatchString(profile.EmergencyPhone) {
		return nil, services.NewValidationError("update_profile", "invalid emergency contact phone number")
	}

	if err := s.userRepo.SaveProfile(ctx, profile); err != nil {
		return nil, services.NewInternalError("update_profile", "could not save profile", err)
	}

	s.logger.Info("profile updated",
		"user_id", userID,
		"has_emergency_contact", profile.EmergencyContact() != nil)
	return s.GetProfile(ctx, userID)
}
