// File: internal/services/ai/interface.go
package ai

import "context"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one prior utterance in the conversation.
type Turn struct {
	Role Role
	Text string
}

type CompletionRequest struct {
	SystemPersona string
	// Turns are oldest first; the last one is the message to answer.
	Turns []Turn
}

type CompletionResponse struct {
	ReplyText string
}

// CompletionProvider produces one assistant reply for a conversation.
type CompletionProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}

// CompletionFunc adapts a function to CompletionProvider.
type CompletionFunc func(ctx context.Context, req CompletionRequest) (CompletionResponse, error)

func (f CompletionFunc) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	return f(ctx, req)
}
