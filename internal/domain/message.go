// File: internal/domain/message.go
package domain

import "time"

type Emotion string

const (
	EmotionPositive Emotion = "Positive"
	EmotionNegative Emotion = "Negative"
)

// EmotionFor labels a polarity. Zero counts as positive.
func EmotionFor(polarity float64) Emotion {
	if polarity < 0 {
		return EmotionNegative
	}
	return EmotionPositive
}

// ChatMessage is one exchange with the AI companion. Message is the user's
// original text, never the prompt sent to the model.
type ChatMessage struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	Response  string    `json:"response" gorm:"type:text;not null"`
	Emotion   Emotion   `json:"emotion" gorm:"size:10;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
