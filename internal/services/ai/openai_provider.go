// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint.
type OpenAIProvider struct {
	config *Config
	client *openai.Client
}

func NewOpenAIProvider(config *Config) (*OpenAIProvider, error) {
	if config == nil {
		return nil, NewConfigError("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}

	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	if len(req.Turns) == 0 {
		return CompletionResponse{}, &AIError{Type: ErrTypeConfig, Operation: "completion", Message: "no turns to answer"}
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Turns)+1)
	if req.SystemPersona != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPersona,
		})
	}
	for _, turn := range req.Turns {
		role := openai.ChatMessageRoleUser
		if turn.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Text})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.config.Model,
		Messages:    messages,
		Temperature: p.config.Temperature,
		TopP:        p.config.TopP,
		MaxTokens:   p.config.MaxTokens,
	})
	if err != nil {
		return CompletionResponse{}, p.classify(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return CompletionResponse{}, &AIError{
			Type:      ErrTypeEmpty,
			Operation: "completion",
			Model:     p.config.Model,
			Message:   "empty completion response",
		}
	}

	return CompletionResponse{ReplyText: strings.TrimSpace(resp.Choices[0].Message.Content)}, nil
}

// Model returns the configured model name.
func (p *OpenAIProvider) Model() string {
	return p.config.Model
}

func (p *OpenAIProvider) classify(err error) *AIError {
	e := &AIError{
		Type:      ErrTypeProvider,
		Operation: "completion",
		Model:     p.config.Model,
		Message:   "failed to create completion",
		Cause:     err,
	}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		e.Type = ErrTypeTimeout
		e.Message = "completion timed out"
	case errors.As(err, &apiErr):
		e.Code = apiErr.HTTPStatusCode
		e.Message = apiErr.Message
	case errors.As(err, &reqErr):
		e.Code = reqErr.HTTPStatusCode
	case errors.As(err, &netErr):
		e.Type = ErrTypeNetwork
		if netErr.Timeout() {
			e.Type = ErrTypeTimeout
		}
	}

	switch e.Code {
	case http.StatusTooManyRequests:
		e.Type = ErrTypeRateLimit
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Type = ErrTypeAuth
	}
	return e
}
