// File: internal/handlers/router.go
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iyunix/go-healchat/internal/metrics"
	"github.com/iyunix/go-healchat/internal/middleware"
	"github.com/iyunix/go-healchat/internal/ratelimit"
	"github.com/iyunix/go-healchat/internal/services"
)

// RouterDeps collects everything the HTTP surface needs. Limiters and
// Metrics are optional.
type RouterDeps struct {
	Auth    *AuthHandler
	Chat    *ChatHandler
	Reports *ReportHandler
	Profile *ProfileHandler
	Groups  *GroupHandler

	Tokens      middleware.TokenValidator
	Logger      services.Logger
	Metrics     *metrics.Collector
	ChatLimiter *ratelimit.KeyedLimiter
	AuthLimiter *ratelimit.KeyedLimiter
	// ClientIP resolves auth limiter keys; nil keys on the peer address.
	ClientIP    *ratelimit.ClientIPResolver
}

// NewRouter wires public and protected routes.
func NewRouter(d RouterDeps) *mux.Router {
	if d.Logger == nil {
		d.Logger = &services.NoOpLogger{}
	}
	r := mux.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.CORS)
	r.Use(middleware.RecoverPanic(d.Logger))
	r.Use(middleware.LoggingMiddleware(d.Logger, d.Metrics))

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler()).Methods(http.MethodGet)
	}

	register := http.Handler(http.HandlerFunc(d.Auth.Register))
	login := http.Handler(http.HandlerFunc(d.Auth.Login))
	if d.AuthLimiter != nil {
		limit := middleware.RateLimitMiddleware(d.AuthLimiter, "auth", middleware.ByClientIP(d.ClientIP))
		register, login = limit(register), limit(login)
	}
	r.Handle("/register", register).Methods(http.MethodPost)
	r.Handle("/login", login).Methods(http.MethodPost)

	// --- Protected Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.NewJWTMiddleware(d.Tokens))

	postChat := http.Handler(http.HandlerFunc(d.Chat.PostMessage))
	if d.ChatLimiter != nil {
		postChat = middleware.RateLimitMiddleware(d.ChatLimiter, "chat", middleware.ByUser)(postChat)
	}
	api.Handle("/chat", postChat).Methods(http.MethodPost)
	api.HandleFunc("/chat", d.Chat.GetHistory).Methods(http.MethodGet)

	api.HandleFunc("/reports", d.Reports.GetReports).Methods(http.MethodGet)

	api.HandleFunc("/profile", d.Profile.GetProfile).Methods(http.MethodGet)
	api.HandleFunc("/profile", d.Profile.UpdateProfile).Methods(http.MethodPut)

	api.HandleFunc("/groups", d.Groups.ListGroups).Methods(http.MethodGet)
	api.HandleFunc("/groups", d.Groups.CreateGroup).Methods(http.MethodPost)
	api.HandleFunc("/groups/{slug}/join", d.Groups.JoinGroup).Methods(http.MethodPost)
	api.HandleFunc("/groups/{slug}/leave", d.Groups.LeaveGroup).Methods(http.MethodPost)
	api.HandleFunc("/groups/{slug}/messages", d.Groups.GetGroupMessages).Methods(http.MethodGet)
	api.HandleFunc("/groups/{slug}/messages", d.Groups.PostGroupMessage).Methods(http.MethodPost)

	api.HandleFunc("/direct/{username}", d.Groups.GetConversation).Methods(http.MethodGet)
	api.HandleFunc("/direct/{username}", d.Groups.SendDirectMessage).Methods(http.MethodPost)

	return r
}
