package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-healchat/internal/analysis/mood"
	"github.com/iyunix/go-healchat/internal/domain"
	"github.com/iyunix/go-healchat/internal/metrics"
	"github.com/iyunix/go-healchat/internal/repository"
	"github.com/iyunix/go-healchat/internal/repository/message"
	"github.com/iyunix/go-healchat/internal/repository/user"
	"github.com/iyunix/go-healchat/internal/services/ai"
)

type recordingProvider struct {
	calls    []ai.CompletionRequest
	reply    string
	err      error
	blocking bool
}

func (p *recordingProvider) Complete(ctx context.Context, req ai.CompletionRequest) (ai.CompletionResponse, error) {
	p.calls = append(p.calls, req)
	if p.blocking {
		<-ctx.Done()
		return ai.CompletionResponse{}, ctx.Err()
	}
	if p.err != nil {
		return ai.CompletionResponse{}, p.err
	}
	return ai.CompletionResponse{ReplyText: p.reply}, nil
}

type chatFixture struct {
	messages message.MessageRepository
	users    user.UserRepository
	provider *recordingProvider
	metrics  *metrics.Collector
	service  *ChatService
	userID   uint
}

func newChatFixture(t *testing.T, cfg *ChatConfig) *chatFixture {
	t.Helper()
	db, err := repository.Open(repository.InMemory)
	require.NoError(t, err)

	f := &chatFixture{
		messages: message.NewMessageRepository(db),
		users:    user.NewGormUserRepository(db),
		provider: &recordingProvider{reply: "I'm listening."},
		metrics:  metrics.New(),
	}

	u := &domain.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, u.HashPassword("password123"))
	_, err = f.users.Create(context.Background(), u)
	require.NoError(t, err)
	f.userID = u.ID

	f.service, err = NewChatService(cfg, f.messages, f.users, f.provider, mood.DefaultPolicy(), f.metrics, &NoOpLogger{})
	require.NoError(t, err)
	return f
}

func (f *chatFixture) stored(t *testing.T) []domain.ChatMessage {
	t.Helper()
	msgs, err := f.messages.FindRecentByUser(context.Background(), f.userID, 100)
	require.NoError(t, err)
	return msgs
}

func TestReplyPersistsExchange(t *testing.T) {
	f := newChatFixture(t, nil)

	reply, err := f.service.Reply(context.Background(), f.userID, "I had a great day")
	require.NoError(t, err)
	assert.Equal(t, "I'm listening.", reply.Response)
	assert.Equal(t, domain.EmotionPositive, reply.Emotion)
	assert.False(t, reply.EmergencyTriggered)
	assert.Nil(t, reply.EmergencyContact)
	assert.False(t, reply.FromFallback)

	require.Len(t, f.provider.calls, 1)
	call := f.provider.calls[0]
	assert.Equal(t, DefaultPersona, call.SystemPersona)
	assert.Equal(t, []ai.Turn{{Role: ai.RoleUser, Text: "I had a great day"}}, call.Turns)

	stored := f.stored(t)
	require.Len(t, stored, 1)
	assert.Equal(t, "I had a great day", stored[0].Message)
	assert.Equal(t, "I'm listening.", stored[0].Response)
	assert.Equal(t, domain.EmotionPositive, stored[0].Emotion)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ChatReplies.WithLabelValues(metrics.OutcomeAI)))
}

func TestReplyRejectsEmptyMessage(t *testing.T) {
	f := newChatFixture(t, nil)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := f.service.Reply(context.Background(), f.userID, text)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
	assert.Empty(t, f.provider.calls)
	assert.Empty(t, f.stored(t))
}

func TestReplyFallsBackOnProviderError(t *testing.T) {
	f := newChatFixture(t, nil)
	f.provider.err = ai.NewProviderError("completion", "boom", errors.New("status 500"))

	reply, err := f.service.Reply(context.Background(), f.userID, "hello there")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, reply.Response)
	assert.True(t, reply.FromFallback)

	stored := f.stored(t)
	require.Len(t, stored, 1)
	assert.Equal(t, FallbackReply, stored[0].Response)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ChatReplies.WithLabelValues(metrics.OutcomeFallback)))
}

func TestReplyFallsBackOnEmptyReply(t *testing.T) {
	f := newChatFixture(t, nil)
	f.provider.reply = "  "

	reply, err := f.service.Reply(context.Background(), f.userID, "hello there")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, reply.Response)
}

func TestReplyFallsBackOnTimeout(t *testing.T) {
	cfg := DefaultChatConfig()
	cfg.AITimeout = 20 * time.Millisecond
	f := newChatFixture(t, cfg)
	f.provider.blocking = true

	start := time.Now()
	reply, err := f.service.Reply(context.Background(), f.userID, "hello there")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, reply.Response)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestReplyEmergencyWithContact(t *testing.T) {
	f := newChatFixture(t, nil)
	require.NoError(t, f.users.SaveProfile(context.Background(), &domain.Profile{
		UserID:         f.userID,
		EmergencyName:  "Mum",
		EmergencyPhone: "+15550100",
	}))

	reply, err := f.service.Reply(context.Background(), f.userID, "I feel so hopeless")
	require.NoError(t, err)
	assert.True(t, reply.EmergencyTriggered)
	assert.Equal(t, &domain.EmergencyContact{Name: "Mum", Phone: "+15550100"}, reply.EmergencyContact)
	assert.Equal(t, domain.EmotionNegative, reply.Emotion)

	require.Len(t, f.provider.calls, 1)
	turns := f.provider.calls[0].Turns
	assert.Equal(t, CrisisMarker+"I feel so hopeless", turns[len(turns)-1].Text)

	stored := f.stored(t)
	require.Len(t, stored, 1)
	assert.Equal(t, "I feel so hopeless", stored[0].Message)
	assert.Equal(t, domain.EmotionNegative, stored[0].Emotion)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.EmergencyTriggers))
}

func TestReplyEmergencyWithoutCompleteContact(t *testing.T) {
	f := newChatFixture(t, nil)
	require.NoError(t, f.users.SaveProfile(context.Background(), &domain.Profile{UserID: f.userID, EmergencyName: "Mum"}))

	reply, err := f.service.Reply(context.Background(), f.userID, "I am suicidal")
	require.NoError(t, err)
	assert.True(t, reply.EmergencyTriggered)
	assert.Nil(t, reply.EmergencyContact)
}

func TestReplyEmergencyWithoutProfile(t *testing.T) {
	f := newChatFixture(t, nil)

	reply, err := f.service.Reply(context.Background(), f.userID, "I am suicidal")
	require.NoError(t, err)
	assert.True(t, reply.EmergencyTriggered)
	assert.Nil(t, reply.EmergencyContact)
}

func TestReplyAtAlarmThresholdIsNotEmergency(t *testing.T) {
	f := newChatFixture(t, nil)
	require.NoError(t, f.users.SaveProfile(context.Background(), &domain.Profile{
		UserID:         f.userID,
		EmergencyName:  "Mum",
		EmergencyPhone: "+15550100",
	}))

	// "angry" scores exactly -0.5.
	reply, err := f.service.Reply(context.Background(), f.userID, "a bit angry")
	require.NoError(t, err)
	assert.False(t, reply.EmergencyTriggered)
	assert.Nil(t, reply.EmergencyContact)
	assert.Equal(t, domain.EmotionNegative, reply.Emotion)
	assert.Equal(t, "a bit angry", f.provider.calls[0].Turns[0].Text)
}

func TestReplySendsLastThreeExchangesOldestFirst(t *testing.T) {
	f := newChatFixture(t, nil)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		_, err := f.messages.Create(ctx, &domain.ChatMessage{
			UserID:   f.userID,
			Message:  fmt.Sprintf("q%d", i),
			Response: fmt.Sprintf("a%d", i),
			Emotion:  domain.EmotionPositive,
		})
		require.NoError(t, err)
	}

	_, err := f.service.Reply(ctx, f.userID, "and now?")
	require.NoError(t, err)

	assert.Equal(t, []ai.Turn{
		{Role: ai.RoleUser, Text: "q2"},
		{Role: ai.RoleAssistant, Text: "a2"},
		{Role: ai.RoleUser, Text: "q3"},
		{Role: ai.RoleAssistant, Text: "a3"},
		{Role: ai.RoleUser, Text: "q4"},
		{Role: ai.RoleAssistant, Text: "a4"},
		{Role: ai.RoleUser, Text: "and now?"},
	}, f.provider.calls[0].Turns)
}

type failingMessageRepo struct {
	message.MessageRepository
}

func (failingMessageRepo) Create(context.Context, *domain.ChatMessage) (*domain.ChatMessage, error) {
	return nil, errors.New("disk full")
}

func (failingMessageRepo) FindRecentByUser(context.Context, uint, int) ([]domain.ChatMessage, error) {
	return nil, errors.New("disk full")
}

func TestReplySurvivesStorageFailure(t *testing.T) {
	f := newChatFixture(t, nil)
	svc, err := NewChatService(nil, failingMessageRepo{}, f.users, f.provider, mood.DefaultPolicy(), nil, &NoOpLogger{})
	require.NoError(t, err)

	reply, err := svc.Reply(context.Background(), f.userID, "hello")
	require.NoError(t, err)
	assert.Equal(t, "I'm listening.", reply.Response)

	_, err = svc.History(context.Background(), f.userID)
	assert.Equal(t, ErrTypeInternal, TypeOf(err))
}

func TestHistory(t *testing.T) {
	f := newChatFixture(t, nil)
	ctx := context.Background()

	for _, text := range []string{"one", "two"} {
		_, err := f.service.Reply(ctx, f.userID, text)
		require.NoError(t, err)
	}

	history, err := f.service.History(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "one", history[0].Message)
	assert.Equal(t, "two", history[1].Message)
}

func TestNewChatServiceValidation(t *testing.T) {
	f := newChatFixture(t, nil)

	_, err := NewChatService(nil, nil, f.users, f.provider, mood.DefaultPolicy(), nil, nil)
	assert.Error(t, err)

	cfg := DefaultChatConfig()
	cfg.AITimeout = 0
	_, err = NewChatService(cfg, f.messages, f.users, f.provider, mood.DefaultPolicy(), nil, nil)
	assert.Equal(t, ErrTypeValidation, TypeOf(err))
}
