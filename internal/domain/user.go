// File: internal/domain/user.go
package domain

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

type User struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null;size:20"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password  string    `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HashPassword securely hashes the user's password.
func (u *User) HashPassword(password string) error {
	if len(password) < MinPasswordLength {
		return errors.New("password must be at least 8 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// ValidatePassword compares a plain-text password with the user's hashed password.
func (u *User) ValidatePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

// IsValid checks the username and email. A display-name form such as
// "Bob <bob@example.com>" is reduced to the bare address.
func (u *User) IsValid() error {
	if !usernamePattern.MatchString(u.Username) {
		return errors.New("username must be 3-20 letters, digits or underscores")
	}
	if strings.TrimSpace(u.Email) == "" {
		return errors.New("email is required")
	}
	addr, err := mail.ParseAddress(u.Email)
	if err != nil {
		return errors.New("email is invalid")
	}
	u.Email = strings.ToLower(addr.Address)
	return nil
}

// Profile holds the optional personal details of a user, including the
// emergency contact shown when a chat message looks like a crisis.
type Profile struct {
	ID             uint      `json:"-" gorm:"primarykey"`
	UserID         uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Bio            string    `json:"bio" gorm:"size:500"`
	EmergencyName  string    `json:"emergency_contact_name" gorm:"size:100"`
	EmergencyPhone string    `json:"emergency_contact_phone" gorm:"size:20"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type EmergencyContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// EmergencyContact returns nil unless both name and phone are set.
func (p *Profile) EmergencyContact() *EmergencyContact {
	if p == nil {
		return nil
	}
	name := strings.TrimSpace(p.EmergencyName)
	phone := strings.TrimSpace(p.EmergencyPhone)
	if name == "" || phone == "" {
		return nil
	}
	return &EmergencyContact{Name: name, Phone: phone}
}
