// File: internal/services/chat_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iyunix/go-healchat/internal/analysis/mood"
	"github.com/iyunix/go-healchat/internal/domain"
	"github.com/iyunix/go-healchat/internal/metrics"
	"github.com/iyunix/go-healchat/internal/repository/message"
	"github.com/iyunix/go-healchat/internal/services/ai"
)

const (
	// CrisisMarker is prepended to the text sent to the model when the
	// message polarity is below the alarm threshold.
	CrisisMarker = "[CRITICAL: User seems in crisis or very depressed. Prioritize safety and suggest seeking professional help.] User says: "

	// FallbackReply is returned whenever the completion provider fails.
	FallbackReply = "I'm having trouble connecting right now, but I'm here with you. Please try again in a moment."

	DefaultPersona = "You are HealChat, a warm and supportive mental health companion. " +
		"Listen carefully, respond with empathy in a few sentences, and never diagnose. " +
		"If the user may be in danger, encourage them to contact a trusted person or local emergency services."
)

type ChatConfig struct {
	Persona string
	// HistoryTurns is how many stored exchanges are sent as context.
	HistoryTurns int
	// HistoryLimit caps History results.
	HistoryLimit int
	AITimeout    time.Duration
}

func (c *ChatConfig) Validate() error {
	if strings.TrimSpace(c.Persona) == "" {
		return fmt.Errorf("persona is required")
	}
	if c.HistoryTurns < 0 {
		return fmt.Errorf("history turns cannot be negative")
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history limit must be positive")
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}
	return nil
}

func DefaultChatConfig() *ChatConfig {
	return &ChatConfig{
		Persona:      DefaultPersona,
		HistoryTurns: 3,
		HistoryLimit: 50,
		AITimeout:    10 * time.Second,
	}
}

// ProfileFinder loads the profile holding a user's emergency contact.
type ProfileFinder interface {
	FindProfile(ctx context.Context, userID uint) (*domain.Profile, error)
}

// ChatReply is the outcome of one chat turn.
type ChatReply struct {
	Message            string                   `json:"message"`
	Response           string                   `json:"response"`
	Emotion            domain.Emotion           `json:"emotion"`
	Polarity           float64                  `json:"polarity"`
	EmergencyTriggered bool                     `json:"emergency_trigger"`
	EmergencyContact   *domain.EmergencyContact `json:"emergency_contact"`
	// FromFallback is set when the provider failed and FallbackReply was used.
	FromFallback bool `json:"-"`
}

type ChatService struct {
	config      *ChatConfig
	messageRepo message.MessageRepository
	profiles    ProfileFinder
	provider    ai.CompletionProvider
	policy      *mood.Policy
	metrics     *metrics.Collector
	logger      Logger
}

func NewChatService(
	config *ChatConfig,
	messageRepo message.MessageRepository,
	profiles ProfileFinder,
	provider ai.CompletionProvider,
	policy *mood.Policy,
	collector *metrics.Collector,
	logger Logger,
) (*ChatService, error) {
	if messageRepo == nil {
		return nil, NewValidationError("constructor", "message repository is required")
	}
	if profiles == nil {
		return nil, NewValidationError("constructor", "profile finder is required")
	}
	if provider == nil {
		return nil, NewValidationError("constructor", "completion provider is required")
	}
	if policy == nil {
		return nil, NewValidationError("constructor", "scoring policy is required")
	}
	if config == nil {
		config = DefaultChatConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, NewValidationError("config", err.Error())
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}

	return &ChatService{
		config:      config,
		messageRepo: messageRepo,
		profiles:    profiles,
		provider:    provider,
		policy:      policy,
		metrics:     collector,
		logger:      logger,
	}, nil
}

// Reply scores the message, asks the provider for an answer and stores the
// exchange. Provider and storage failures never surface as errors; the only
// error is ErrEmptyMessage.
func (s *ChatService) Reply(ctx context.Context, userID uint, text string) (*ChatReply, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	polarity := s.policy.Scorer.Score(text)
	reply := &ChatReply{
		Message:  text,
		Emotion:  domain.EmotionFor(polarity),
		Polarity: polarity,
	}

	prompt := text
	if s.policy.IsAlarming(polarity) {
		reply.EmergencyTriggered = true
		reply.EmergencyContact = s.emergencyContact(ctx, userID)
		prompt = CrisisMarker + text
		s.metrics.RecordEmergency()
		s.logger.Warn("emergency triggered",
			"user_id", userID,
			"polarity", polarity,
			"has_contact", reply.EmergencyContact != nil)
	}

	turns := append(s.historyTurns(ctx, userID), ai.Turn{Role: ai.RoleUser, Text: prompt})

	callCtx, cancel := context.WithTimeout(ctx, s.config.AITimeout)
	resp, err := s.provider.Complete(callCtx, ai.CompletionRequest{
		SystemPersona: s.config.Persona,
		Turns:         turns,
	})
	cancel()

	if err != nil || strings.TrimSpace(resp.ReplyText) == "" {
		if err == nil {
			err = errors.New("empty reply text")
		}
		s.logger.Error("completion failed, using fallback reply", "user_id", userID, "error", err)
		reply.Response = FallbackReply
		reply.FromFallback = true
		s.metrics.RecordReply(metrics.OutcomeFallback)
	} else {
		reply.Response = resp.ReplyText
		s.metrics.RecordReply(metrics.OutcomeAI)
	}

	_, err = s.messageRepo.Create(ctx, &domain.ChatMessage{
		UserID:   userID,
		Message:  text,
		Response: reply.Response,
		Emotion:  reply.Emotion,
	})
	if err != nil {
		s.logger.Error("failed to persist chat message", "user_id", userID, "error", err)
	}

	return reply, nil
}

// History returns the user's stored exchanges, oldest first.
func (s *ChatService) History(ctx context.Context, userID uint) ([]domain.ChatMessage, error) {
	messages, err := s.messageRepo.FindRecentByUser(ctx, userID, s.config.HistoryLimit)
	if err != nil {
		return nil, NewInternalError("history", "could not load chat history", err)
	}
	return messages, nil
}

func (s *ChatService) emergencyContact(ctx context.Context, userID uint) *domain.EmergencyContact {
	profile, err := s.profiles.FindProfile(ctx, userID)
	if err != nil {
		s.logger.Warn("emergency contact lookup failed", "user_id", userID, "error", err)
		return nil
	}
	return profile.EmergencyContact()
}

// historyTurns returns prior exchanges as alternating user/assistant turns.
// A load failure yields no context rather than an error.
func (s *ChatService) historyTurns(ctx context.Context, userID uint) []ai.Turn {
	if s.config.HistoryTurns == 0 {
		return nil
	}

	past, err := s.messageRepo.FindRecentByUser(ctx, userID, s.config.HistoryTurns)
	if err != nil {
		s.logger.Warn("failed to load chat context", "user_id", userID, "error", err)
		return nil
	}

	turns := make([]ai.Turn, 0, 2*len(past)+1)
	for _, m := range past {
		turns = append(turns,
			ai.Turn{Role: ai.RoleUser, Text: m.Message},
			ai.Turn{Role: ai.RoleAssistant, Text: m.Response},
		)
	}
	return turns
}
