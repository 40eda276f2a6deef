package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-healchat/internal/analysis/mood"
	"github.com/iyunix/go-healchat/internal/metrics"
	"github.com/iyunix/go-healchat/internal/ratelimit"
	"github.com/iyunix/go-healchat/internal/repository"
	"github.com/iyunix/go-healchat/internal/repository/group"
	"github.com/iyunix/go-healchat/internal/repository/message"
	"github.com/iyunix/go-healchat/internal/repository/report"
	"github.com/iyunix/go-healchat/internal/repository/user"
	"github.com/iyunix/go-healchat/internal/services"
	"github.com/iyunix/go-healchat/internal/services/ai"
	"github.com/iyunix/go-healchat/internal/services/user_services"
)

type testServer struct {
	handler http.Handler
	prompts []ai.CompletionRequest
}

func newTestServer(t *testing.T, chatLimiter *ratelimit.KeyedLimiter) *testServer {
	t.Helper()
	db, err := repository.Open(repository.InMemory)
	require.NoError(t, err)

	ts := &testServer{}
	provider := ai.CompletionFunc(func(ctx context.Context, req ai.CompletionRequest) (ai.CompletionResponse, error) {
		ts.prompts = append(ts.prompts, req)
		return ai.CompletionResponse{ReplyText: "I'm here for you."}, nil
	})

	logger := &services.NoOpLogger{}
	collector := metrics.New()
	policy := mood.DefaultPolicy()

	users := user.NewGormUserRepository(db)
	groups := group.NewGroupRepository(db)
	messages := message.NewMessageRepository(db)
	reports := report.NewReportRepository(db)

	groupService := services.NewGroupService(groups, users, logger)
	userService := user_services.NewUserService(users, groupService, "handler-secret", time.Hour, logger)
	chatService, err := services.NewChatService(nil, messages, users, provider, policy, collector, logger)
	require.NoError(t, err)
	reportService, err := services.NewReportService(nil, reports, messages, groups, policy, collector, logger)
	require.NoError(t, err)

	ts.handler = NewRouter(RouterDeps{
		Auth:        NewAuthHandler(userService),
		Chat:        NewChatHandler(chatService),
		Reports:     NewReportHandler(reportService),
		Profile:     NewProfileHandler(userService),
		Groups:      NewGroupHandler(groupService),
		Tokens:      userService,
		Logger:      logger,
		Metrics:     collector,
		ChatLimiter: chatLimiter,
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

// signup registers a user and returns a bearer token.
func (ts *testServer) signup(t *testing.T, username string) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t, nil)

	for _, path := range []string{"/api/chat", "/api/reports", "/api/profile", "/api/groups"} {
		rec := ts.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := ts.do(t, http.MethodPost, "/api/chat", "not-a-token", map[string]string{"message": "hi"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterConflictAndBadLogin(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.signup(t, "alice")

	rec := ts.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": "a",
		"email":    "short@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/login", "", map[string]string{
		"username": "alice",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password123")
}

func TestChatEmptyMessageIsBadRequest(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.signup(t, "alice")

	rec := ts.do(t, http.MethodPost, "/api/chat", token, map[string]string{"message": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, ts.prompts)

	rec = ts.do(t, http.MethodPost, "/api/chat", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatReplyAndHistory(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.signup(t, "alice")

	rec := ts.do(t, http.MethodPost, "/api/chat", token, map[string]string{"message": "I feel good today"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var reply struct {
		Message          string      `json:"message"`
		Response         string      `json:"response"`
		EmergencyTrigger bool        `json:"emergency_trigger"`
		EmergencyContact interface{} `json:"emergency_contact"`
	}
	decode(t, rec, &reply)
	assert.Equal(t, "I feel good today", reply.Message)
	assert.Equal(t, "I'm here for you.", reply.Response)
	assert.False(t, reply.EmergencyTrigger)
	assert.Nil(t, reply.EmergencyContact)

	rec = ts.do(t, http.MethodGet, "/api/chat", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		Messages []struct {
			Message  string `json:"message"`
			Response string `json:"response"`
		} `json:"messages"`
	}
	decode(t, rec, &history)
	require.Len(t, history.Messages, 1)
	assert.Equal(t, "I feel good today", history.Messages[0].Message)
}

func TestChatEmergencyReturnsContact(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.signup(t, "alice")

	rec := ts.do(t, http.MethodPut, "/api/profile", token, map[string]string{
		"emergency_contact_name":  "Sam",
		"emergency_contact_phone": "+15551234567",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/api/chat", token, map[string]string{"message": "I feel hopeless"})
	require.Equal(t, http.StatusOK, rec.Code)

	var reply struct {
		EmergencyTrigger bool `json:"emergency_trigger"`
		EmergencyContact struct {
			Name  string `json:"name"`
			Phone string `json:"phone"`
		} `json:"emergency_contact"`
	}
	decode(t, rec, &reply)
	assert.True(t, reply.EmergencyTrigger)
	assert.Equal(t, "Sam", reply.EmergencyContact.Name)
	assert.Equal(t, "+15551234567", reply.EmergencyContact.Phone)

	require.Len(t, ts.prompts, 1)
	turns := ts.prompts[0].Turns
	assert.Equal(t, services.CrisisMarker+"I feel hopeless", turns[len(turns)-1].Text)
}

func TestProfileValidation(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.signup(t, "alice")

	rec := ts.do(t, http.MethodPut, "/api/profile", token, map[string]string{"emergency_contact_phone": "call me"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReportsNeedEnoughMessages(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.signup(t, "alice")

	rec := ts.do(t, http.MethodGet, "/api/reports", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var empty struct {
		Reports []interface{} `json:"reports"`
	}
	decode(t, rec, &empty)
	assert.Empty(t, empty.Reports)

	for _, m := range []string{"sad", "lonely", "stressed", "anxious", "terrible"} {
		rec = ts.do(t, http.MethodPost, "/api/chat", token, map[string]string{"message": "I am " + m})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/api/reports", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Reports []struct {
			RiskLevel string `json:"risk_level"`
		} `json:"reports"`
		Latest struct {
			RiskLevel string `json:"risk_level"`
		} `json:"latest"`
	}
	decode(t, rec, &resp)
	require.Len(t, resp.Reports, 1)
	assert.Equal(t, "High", resp.Latest.RiskLevel)
}

func TestGroupFlow(t *testing.T) {
	ts := newTestServer(t, nil)
	alice := ts.signup(t, "alice")
	bob := ts.signup(t, "bob")

	rec := ts.do(t, http.MethodPost, "/api/groups", alice, map[string]string{"name": "Night Owls"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var g struct {
		Slug string `json:"slug"`
	}
	decode(t, rec, &g)
	require.Equal(t, "night-owls", g.Slug)

	rec = ts.do(t, http.MethodPost, "/api/groups", bob, map[string]string{"name": "Night Owls"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/groups/night-owls/messages", bob, map[string]string{"content": "hello"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/groups/night-owls/join", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/groups/night-owls/messages", bob, map[string]string{"content": "hello"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/groups/night-owls/messages", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var msgs struct {
		Messages []struct {
			Sender  string `json:"sender"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	decode(t, rec, &msgs)
	require.Len(t, msgs.Messages, 1)
	assert.Equal(t, "bob", msgs.Messages[0].Sender)

	rec = ts.do(t, http.MethodGet, "/api/groups", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Groups []struct {
			Slug string `json:"slug"`
		} `json:"groups"`
	}
	decode(t, rec, &list)
	assert.Len(t, list.Groups, 2)

	rec = ts.do(t, http.MethodGet, "/api/groups/missing/messages", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/groups/night-owls/leave", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/groups/night-owls/messages", bob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/groups/night-owls/leave", bob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDirectMessages(t *testing.T) {
	ts := newTestServer(t, nil)
	alice := ts.signup(t, "alice")
	bob := ts.signup(t, "bob")

	rec := ts.do(t, http.MethodPost, "/api/direct/bob", alice, map[string]string{"content": "hey bob"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/direct/alice", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var conv struct {
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	decode(t, rec, &conv)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, "hey bob", conv.Messages[0].Content)

	rec = ts.do(t, http.MethodPost, "/api/direct/nobody", alice, map[string]string{"content": "hi"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/direct/alice", alice, map[string]string{"content": "me"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatRateLimit(t *testing.T) {
	limiter := ratelimit.NewKeyedLimiter(&ratelimit.Config{
		RequestsPerMinute: 1,
		Burst:             1,
		CleanupPeriod:     time.Minute,
		IdleTTL:           time.Minute,
	})
	t.Cleanup(limiter.Stop)

	ts := newTestServer(t, limiter)
	token := ts.signup(t, "alice")

	rec := ts.do(t, http.MethodPost, "/api/chat", token, map[string]string{"message": "hi"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/chat", token, map[string]string{"message": "hi again"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	rec = ts.do(t, http.MethodGet, "/api/chat", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
