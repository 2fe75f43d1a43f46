package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crobro234/wuebuddy/internal/domain/search"
	"github.com/crobro234/wuebuddy/internal/infra/llm/chatgpt"
	apperrors "github.com/crobro234/wuebuddy/pkg/errors"
)

func TestRespond_EmptyMessageIsRejected(t *testing.T) {
	svc := newChatUnderTest(t, &stubRetriever{}, &stubChatClient{})

	_, err := svc.Respond(context.Background(), Request{Message: "   "})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestRespond_GroundsPromptWithRetrievedContext(t *testing.T) {
	retriever := &stubRetriever{matches: []search.Match{
		{QuestionID: 1, Question: "How do I apply for a visa?", Answer: "Book an embassy appointment.", Score: 0.91},
		{QuestionID: 2, Question: "Where do I register my address?", Answer: "At the city registration office.", Score: 0.74},
	}}
	client := &stubChatClient{response: completionWithAnswer(t, "You book an appointment first.")}
	svc := newChatUnderTest(t, retriever, client)

	resp, err := svc.Respond(context.Background(), Request{Message: "  visa help?  "})
	require.NoError(t, err)
	require.Equal(t, "You book an appointment first.", resp.Answer)
	require.Len(t, resp.Context, 2)

	// Retrieval is trimmed and limited to the configured context size.
	require.Equal(t, "visa help?", retriever.lastQuery)
	require.Equal(t, 3, retriever.lastTopK)

	require.Len(t, client.requests, 1)
	messages := client.requests[0].Messages
	require.Len(t, messages, 2)
	require.Equal(t, "system", messages[0].Role)
	require.Contains(t, messages[0].Content, "Local knowledge base entries:")
	require.Contains(t, messages[0].Content, "1. Q: How do I apply for a visa?")
	require.Contains(t, messages[0].Content, "A: Book an embassy appointment.")
	require.Contains(t, messages[0].Content, "2. Q: Where do I register my address?")
	require.Equal(t, "user", messages[1].Role)
	require.Equal(t, "visa help?", messages[1].Content)
}

func TestRespond_NoEmbeddingsDegradesToUngrounded(t *testing.T) {
	retriever := &stubRetriever{err: apperrors.Wrap("no_embeddings", "embeddings have not been built yet", nil)}
	client := &stubChatClient{response: completionWithAnswer(t, "General advice.")}
	svc := newChatUnderTest(t, retriever, client)

	resp, err := svc.Respond(context.Background(), Request{Message: "anything"})
	require.NoError(t, err)
	require.Equal(t, "General advice.", resp.Answer)
	require.NotNil(t, resp.Context)
	require.Empty(t, resp.Context)

	require.Len(t, client.requests, 1)
	require.NotContains(t, client.requests[0].Messages[0].Content, "Local knowledge base entries:")
}

func TestRespond_RetrievalFailureAborts(t *testing.T) {
	retriever := &stubRetriever{err: apperrors.Wrap("embedding_error", "embedding provider failed", errors.New("boom"))}
	svc := newChatUnderTest(t, retriever, &stubChatClient{})

	_, err := svc.Respond(context.Background(), Request{Message: "anything"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "embedding_error"))
}

func TestRespond_ProviderFailure(t *testing.T) {
	client := &stubChatClient{err: errors.New("upstream 500")}
	svc := newChatUnderTest(t, &stubRetriever{}, client)

	_, err := svc.Respond(context.Background(), Request{Message: "hello"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "llm_error"))
}

func TestRespond_EmptyChoices(t *testing.T) {
	client := &stubChatClient{response: chatgpt.ChatCompletionResponse{}}
	svc := newChatUnderTest(t, &stubRetriever{}, client)

	_, err := svc.Respond(context.Background(), Request{Message: "hello"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "llm_error"))
}

func TestRespond_BlankAnswerIsAnError(t *testing.T) {
	client := &stubChatClient{response: completionWithAnswer(t, "   ")}
	svc := newChatUnderTest(t, &stubRetriever{}, client)

	_, err := svc.Respond(context.Background(), Request{Message: "hello"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "llm_error"))
}

func TestRespond_ReportsTokenUsage(t *testing.T) {
	response := completionWithAnswer(t, "ok")
	response.Usage = chatgpt.Usage{PromptTokens: 12, CompletionTokens: 3, TotalTokens: 15}
	client := &stubChatClient{response: response}
	svc := newChatUnderTest(t, &stubRetriever{}, client)

	resp, err := svc.Respond(context.Background(), Request{Message: "hello"})
	require.NoError(t, err)
	require.NotNil(t, resp.TokenUsage)
	require.Equal(t, 15, resp.TokenUsage.TotalTokens)
}

func TestSystemPrompt_RespectsTokenBudget(t *testing.T) {
	long := strings.Repeat("lorem ipsum dolor sit amet ", 200)
	retriever := &stubRetriever{matches: []search.Match{
		{Question: "first", Answer: long, Score: 0.9},
		{Question: "second", Answer: long, Score: 0.8},
	}}
	client := &stubChatClient{response: completionWithAnswer(t, "ok")}
	svc := NewService(Config{
		Model:              "gpt-4o-mini",
		Prompt:             "You help exchange students.",
		ContextSize:        3,
		ContextTokenBudget: 600,
	}, retriever, client, newTestLogger())

	_, err := svc.Respond(context.Background(), Request{Message: "hello"})
	require.NoError(t, err)

	prompt := client.requests[0].Messages[0].Content
	require.Contains(t, prompt, "Q: first")
	// The first block always fits; the second exceeds the budget.
	require.NotContains(t, prompt, "Q: second")
}

func newChatUnderTest(t *testing.T, retriever search.Service, client ChatClient) Service {
	t.Helper()
	cfg := Config{
		Model:               "gpt-4o-mini",
		Prompt:              "You help exchange students in Würzburg.",
		ContextSize:         3,
		ContextTokenBudget:  1500,
		SimilarityThreshold: 0.3,
	}
	return NewService(cfg, retriever, client, newTestLogger())
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func completionWithAnswer(t *testing.T, answer string) chatgpt.ChatCompletionResponse {
	t.Helper()
	encoded, err := json.Marshal(answer)
	require.NoError(t, err)
	payload := fmt.Sprintf(`{"choices":[{"message":{"role":"assistant","content":%s}}]}`, encoded)
	var resp chatgpt.ChatCompletionResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))
	return resp
}

type stubRetriever struct {
	matches   []search.Match
	err       error
	lastQuery string
	lastTopK  int
}

func (s *stubRetriever) Search(context.Context, string, int) ([]search.Match, error) {
	return nil, nil
}

func (s *stubRetriever) Retrieve(_ context.Context, query string, topK int, _ float64) ([]search.Match, error) {
	s.lastQuery = query
	s.lastTopK = topK
	if s.err != nil {
		return nil, s.err
	}
	return s.matches, nil
}

func (s *stubRetriever) Rebuild(context.Context) (int, error) {
	return 0, nil
}

func (s *stubRetriever) Trending(context.Context) ([]search.TrendingQuery, error) {
	return nil, nil
}

type stubChatClient struct {
	response chatgpt.ChatCompletionResponse
	err      error
	requests []chatgpt.ChatCompletionRequest
}

func (s *stubChatClient) CreateChatCompletion(_ context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return chatgpt.ChatCompletionResponse{}, s.err
	}
	return s.response, nil
}
