// File: internal/domain/group.go
package domain

import "time"

// CommunityGroupSlug is the group every new user joins.
const CommunityGroupSlug = "community"

type Group struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null;size:100"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null;size:100"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedBy   *uint     `json:"created_by,omitempty"`
	Members     []User    `json:"-" gorm:"many2many:group_members"`
	CreatedAt   time.Time `json:"created_at"`
}

type GroupMessage struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	GroupID   uint      `json:"group_id" gorm:"index;not null"`
	SenderID  uint      `json:"sender_id" gorm:"index;not null"`
	Sender    User      `json:"-" gorm:"foreignKey:SenderID"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

type DirectMessage struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	SenderID   uint      `json:"sender_id" gorm:"index;not null"`
	ReceiverID uint      `json:"receiver_id" gorm:"index;not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}
