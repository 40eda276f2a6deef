// File: internal/services/user_services/types.go
package user_services

import "context"

// Logger interface for all user services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// CommunityJoiner puts new users into the shared group.
type CommunityJoiner interface {
	JoinCommunity(ctx context.Context, userID uint) error
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Bio            string `json:"bio"`
	EmergencyName  string `json:"emergency_contact_name"`
	EmergencyPhone string `json:"emergency_contact_phone"`
}

// mask keeps the first four characters for log lines.
func mask(s string) string {
	return s[:min(4, len(s))] + "****"
}
