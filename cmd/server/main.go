// File: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/iyunix/go-healchat/internal/config"
	"github.com/iyunix/go-healchat/internal/handlers"
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

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config Error: %v", err)
	}

	base, err := services.NewBaseLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Logger Error: %v", err)
	}
	defer func() { _ = base.Sync() }()
	logger := services.NewZapLogger(base, "healchat")

	db, err := repository.Open(cfg.DatabasePath)
	if err != nil {
		base.Fatal("database unavailable", zap.String("path", cfg.DatabasePath), zap.Error(err))
	}

	policy, err := cfg.BuildPolicy()
	if err != nil {
		base.Fatal("invalid scoring policy", zap.Error(err))
	}
	logger.Info("scoring policy loaded",
		"version", policy.Version,
		"lexicon_terms", policy.Scorer.Lexicon().Len(),
		"alarm_polarity", policy.AlarmPolarity)

	collector := metrics.New()

	// --- Repositories ---
	userRepo := user.NewGormUserRepository(db)
	groupRepo := group.NewGroupRepository(db)
	messageRepo := message.NewMessageRepository(db)
	reportRepo := report.NewReportRepository(db)

	// --- Services ---
	provider := newCompletionProvider(cfg, logger)

	groupService := services.NewGroupService(groupRepo, userRepo, services.NewZapLogger(base, "groups"))
	userService := user_services.NewUserService(userRepo, groupService, cfg.JWTSecretKey, cfg.TokenTTL, services.NewZapLogger(base, "users"))

	chatConfig := services.DefaultChatConfig()
	chatConfig.AITimeout = cfg.AITimeout
	chatService, err := services.NewChatService(chatConfig, messageRepo, userRepo, provider, policy, collector, services.NewZapLogger(base, "chat"))
	if err != nil {
		base.Fatal("failed to initialize chat service", zap.Error(err))
	}

	reportConfig := services.DefaultReportConfig()
	reportConfig.Cooldown = cfg.ReportCooldown
	reportConfig.MinTexts = cfg.ReportMinTexts
	reportService, err := services.NewReportService(reportConfig, reportRepo, messageRepo, groupRepo, policy, collector, services.NewZapLogger(base, "reports"))
	if err != nil {
		base.Fatal("failed to initialize report service", zap.Error(err))
	}

	chatLimiter := ratelimit.NewKeyedLimiter(limiterConfig(ratelimit.DefaultChatConfig(), cfg.ChatRatePerMinute, cfg.ChatRateBurst))
	authLimiter := ratelimit.NewKeyedLimiter(limiterConfig(ratelimit.DefaultAuthConfig(), cfg.AuthRatePerMinute, cfg.AuthRateBurst))

	clientIP, err := ratelimit.NewClientIPResolver(cfg.TrustedProxies)
	if err != nil {
		base.Fatal("invalid TRUSTED_PROXIES", zap.Error(err))
	}

	// --- Router Setup ---
	r := handlers.NewRouter(handlers.RouterDeps{
		Auth:        handlers.NewAuthHandler(userService),
		Chat:        handlers.NewChatHandler(chatService),
		Reports:     handlers.NewReportHandler(reportService),
		Profile:     handlers.NewProfileHandler(userService),
		Groups:      handlers.NewGroupHandler(groupService),
		Tokens:      userService,
		Logger:      services.NewZapLogger(base, "http"),
		Metrics:     collector,
		ChatLimiter: chatLimiter,
		AuthLimiter: authLimiter,
		ClientIP:    clientIP,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.AITimeout + 20*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			base.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	chatLimiter.Stop()
	authLimiter.Stop()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server exited")
}

// newCompletionProvider falls back to a provider that always fails when no
// API key is configured, so chat still answers with the fallback reply.
func newCompletionProvider(cfg *config.Config, logger services.Logger) ai.CompletionProvider {
	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.AIAPIKey
	aiConfig.BaseURL = cfg.AIBaseURL
	aiConfig.Model = cfg.AIModel
	aiConfig.Timeout = cfg.AITimeout
	aiConfig.MaxTokens = cfg.AIMaxTokens

	provider, err := ai.NewOpenAIProvider(aiConfig)
	if err != nil {
		logger.Warn("completion provider disabled, replies will use the fallback", "error", err)
		return ai.CompletionFunc(func(ctx context.Context, req ai.CompletionRequest) (ai.CompletionResponse, error) {
			return ai.CompletionResponse{}, err
		})
	}
	logger.Info("completion provider ready", "model", provider.Model(), "base_url", aiConfig.BaseURL)
	return provider
}

func limiterConfig(defaults *ratelimit.Config, perMinute, burst int) *ratelimit.Config {
	defaults.RequestsPerMinute = perMinute
	if burst > 0 {
		defaults.Burst = burst
	}
	return defaults
}
