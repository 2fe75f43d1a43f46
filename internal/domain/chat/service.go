package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/crobro234/wuebuddy/internal/domain/search"
	"github.com/crobro234/wuebuddy/internal/infra/llm/chatgpt"
	apperrors "github.com/crobro234/wuebuddy/pkg/errors"
	"github.com/crobro234/wuebuddy/pkg/metrics"
)

// Service answers free-form questions, grounded with locally stored Q&A.
type Service interface {
	Respond(ctx context.Context, req Request) (Response, error)
}

type service struct {
	cfg       Config
	retriever search.Service
	client    ChatClient
	counter   *tokenCounter
	logger    *slog.Logger
}

// NewService wires the chat responder.
func NewService(cfg Config, retriever search.Service, client ChatClient, logger *slog.Logger) Service {
	return &service{
		cfg:       cfg,
		retriever: retriever,
		client:    client,
		counter:   newTokenCounter(cfg.Model),
		logger:    logger.With("component", "chat.service"),
	}
}

func (s *service) Respond(ctx context.Context, req Request) (Response, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return Response{}, apperrors.Wrap("invalid_input", "message cannot be empty", nil)
	}

	// Grounding is best-effort: a store without embeddings just means an
	// ungrounded answer, any other retrieval failure aborts.
	matches, err := s.retriever.Retrieve(ctx, message, s.cfg.ContextSize, s.cfg.SimilarityThreshold)
	if err != nil {
		if !apperrors.IsCode(err, "no_embeddings") {
			return Response{}, err
		}
		matches = nil
	}

	messages := []chatgpt.Message{
		{Role: "system", Content: s.systemPrompt(matches)},
		{Role: "user", Content: message},
	}
	resp, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return Response{}, apperrors.Wrap("llm_error", "chat provider request failed", err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, apperrors.Wrap("llm_error", "chat provider returned no choices", errors.New("empty choices"))
	}
	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return Response{}, apperrors.Wrap("llm_error", "chat provider response empty", nil)
	}

	if matches == nil {
		matches = []search.Match{}
	}
	out := Response{Answer: answer, Context: matches}
	if usage := toTokenUsage(resp.Usage); !usage.IsZero() {
		out.TokenUsage = &usage
	}
	return out, nil
}

// systemPrompt appends the serialized grounding context to the configured
// instruction, capped to the context token budget.
func (s *service) systemPrompt(matches []search.Match) string {
	prompt := strings.TrimSpace(s.cfg.Prompt)
	if len(matches) == 0 {
		return prompt
	}

	var builder strings.Builder
	builder.WriteString(prompt)
	builder.WriteString("\n\nLocal knowledge base entries:\n")
	budget := s.cfg.ContextTokenBudget
	for i, match := range matches {
		block := fmt.Sprintf("%d. Q: %s\n   A: %s\n", i+1, match.Question, match.Answer)
		if budget > 0 {
			tokens := s.counter.Count(block)
			if tokens > budget && i > 0 {
				s.logger.Debug("context token budget reached", "included", i)
				break
			}
			budget -= tokens
		}
		builder.WriteString(block)
	}
	return builder.String()
}

func toTokenUsage(usage chatgpt.Usage) metrics.TokenUsage {
	return metrics.TokenUsage{
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      usage.TotalTokens,
	}
}
