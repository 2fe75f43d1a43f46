package chat

import (
	"context"

	"github.com/crobro234/wuebuddy/internal/domain/search"
	"github.com/crobro234/wuebuddy/internal/infra/llm/chatgpt"
	"github.com/crobro234/wuebuddy/pkg/metrics"
)

// Config holds runtime knobs for the chat responder.
type Config struct {
	Model               string
	Temperature         float32
	Prompt              string
	ContextSize         int
	ContextTokenBudget  int
	SimilarityThreshold float64
}

// Request captures the inbound chat payload.
type Request struct {
	Message string `json:"message"`
}

// Response carries the provider answer plus the grounding context used, so
// callers can display provenance.
type Response struct {
	Answer     string              `json:"answer"`
	Context    []search.Match      `json:"context"`
	TokenUsage *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}

// ChatClient is the slice of the provider client the responder needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}
