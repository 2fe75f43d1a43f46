package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crobro234/wuebuddy/internal/domain/auth"
	"github.com/crobro234/wuebuddy/internal/domain/board"
	"github.com/crobro234/wuebuddy/internal/domain/chat"
	"github.com/crobro234/wuebuddy/internal/domain/faq"
	"github.com/crobro234/wuebuddy/internal/domain/search"
	"github.com/crobro234/wuebuddy/internal/infra/boardrepo"
	"github.com/crobro234/wuebuddy/internal/infra/config"
	"github.com/crobro234/wuebuddy/internal/infra/faqrepo"
	"github.com/crobro234/wuebuddy/internal/infra/llm/chatgpt"
	"github.com/crobro234/wuebuddy/internal/infra/storage"
	"github.com/crobro234/wuebuddy/internal/infra/trendstore"
	"github.com/crobro234/wuebuddy/internal/infra/userrepo"
)

func TestRouter_ListCategories(t *testing.T) {
	server := newServerUnderTest(t)

	rec := performGet(t, server, "/api/v1/categories")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Categories []faq.Category `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Categories, 2)
	require.Equal(t, "Visa", body.Categories[0].Name)
}

func TestRouter_ListQuestions(t *testing.T) {
	server := newServerUnderTest(t)

	rec := performGet(t, server, "/api/v1/questions/1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Questions []faq.QuestionSummary `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Questions, 2)
}

func TestRouter_ListQuestionsUnknownCategoryIsEmpty(t *testing.T) {
	server := newServerUnderTest(t)

	rec := performGet(t, server, "/api/v1/questions/999")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"questions":[]`)
}

func TestRouter_GetAnswer(t *testing.T) {
	server := newServerUnderTest(t)

	rec := performGet(t, server, "/api/v1/answer/1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Termin")
}

func TestRouter_GetAnswerUnknownQuestionIs404(t *testing.T) {
	server := newServerUnderTest(t)

	rec := performGet(t, server, "/api/v1/answer/999")
	require.Equal(t, http.StatusNotFound, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "not_found", errBody["error"]["code"])
}

func TestRouter_SearchBeforeRebuildIs404(t *testing.T) {
	server := newServerUnderTest(t)

	rec := performGet(t, server, "/api/v1/search?query=visa")
	require.Equal(t, http.StatusNotFound, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "no_embeddings", errBody["error"]["code"])
}

func TestRouter_SearchEmptyQueryIs400(t *testing.T) {
	server := newServerUnderTest(t)

	rec := performGet(t, server, "/api/v1/search?query=")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_RebuildThenSearch(t *testing.T) {
	server := newServerUnderTest(t)

	rec := performPost(t, server, "/api/v1/embed/rebuild", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"count":3`)

	rec = performGet(t, server, "/api/v1/search?query=visa+interview")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results []search.Match `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	require.Equal(t, "How do I book a visa interview?", body.Results[0].Question)
	require.NotEmpty(t, body.Results[0].Answer)
	require.Greater(t, body.Results[0].Score, 0.3)

	rec = performGet(t, server, "/api/v1/search/trending")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "visa interview")
}

func TestRouter_Chat(t *testing.T) {
	server := newServerUnderTest(t)

	rec := performPost(t, server, "/api/v1/chat", `{"message":"How do I get a visa interview?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body chat.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Here is what I found.", body.Answer)
	require.NotNil(t, body.Context)
}

func TestRouter_ChatEmptyMessageIs400(t *testing.T) {
	server := newServerUnderTest(t)

	rec := performPost(t, server, "/api/v1/chat", `{"message":"  "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_RegisterAndLogin(t *testing.T) {
	server := newServerUnderTest(t)

	rec := performPost(t, server, "/api/v1/register", `{"username":"anna_k","email":"anna@example.com","password":"supersecret"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created auth.UserView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "anna_k", created.Username)

	rec = performPost(t, server, "/api/v1/register", `{"username":"anna_k","email":"other@example.com","password":"supersecret"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "conflict", errBody["error"]["code"])

	rec = performPost(t, server, "/api/v1/login", `{"username":"anna_k","password":"supersecret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var login auth.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)
	require.NotEmpty(t, login.RefreshToken)

	rec = performPost(t, server, "/api/v1/login", `{"username":"anna_k","password":"wrongpassword"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_MeRequiresToken(t *testing.T) {
	server := newServerUnderTest(t)

	rec := performGet(t, server, "/api/v1/me")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	bad := httptest.NewRecorder()
	server.Handler.ServeHTTP(bad, req)
	require.Equal(t, http.StatusUnauthorized, bad.Code)
}

func TestRouter_MeReturnsProfile(t *testing.T) {
	server := newServerUnderTest(t)

	performPost(t, server, "/api/v1/register", `{"username":"anna_k","email":"anna@example.com","password":"supersecret"}`)
	rec := performPost(t, server, "/api/v1/login", `{"username":"anna_k","password":"supersecret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var login auth.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	me := httptest.NewRecorder()
	server.Handler.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)
	require.Contains(t, me.Body.String(), "anna_k")
}

func TestRouter_RefreshToken(t *testing.T) {
	server := newServerUnderTest(t)

	performPost(t, server, "/api/v1/register", `{"username":"anna_k","email":"anna@example.com","password":"supersecret"}`)
	rec := performPost(t, server, "/api/v1/login", `{"username":"anna_k","password":"supersecret"}`)
	var login auth.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	rec = performPost(t, server, "/api/v1/auth/refresh", fmt.Sprintf(`{"refreshToken":%q}`, login.RefreshToken))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performPost(t, server, "/api/v1/auth/refresh", `{"refreshToken":"garbage"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_BoardPostsAndAttachments(t *testing.T) {
	server := newServerUnderTest(t)

	rec := performPost(t, server, "/api/v1/posts/new", `{"title":"Selling a bike","content":"50 euro, good condition"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var post board.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	require.NotZero(t, post.ID)

	rec = performGet(t, server, "/api/v1/posts")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Selling a bike")

	uploadBody := &bytes.Buffer{}
	writer := multipart.NewWriter(uploadBody)
	part, err := writer.CreateFormFile("file", "bike.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/attachments", post.ID), uploadBody)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	upload := httptest.NewRecorder()
	server.Handler.ServeHTTP(upload, req)
	require.Equal(t, http.StatusCreated, upload.Code)

	var attachment board.Attachment
	require.NoError(t, json.Unmarshal(upload.Body.Bytes(), &attachment))
	require.Equal(t, "bike.jpg", attachment.FileName)

	rec = performGet(t, server, fmt.Sprintf("/api/v1/attachments/%s", attachment.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "jpeg-bytes", rec.Body.String())
}

func TestRouter_CreatePostBlankTitleIs400(t *testing.T) {
	server := newServerUnderTest(t)

	rec := performPost(t, server, "/api/v1/posts/new", `{"title":"  ","content":"body"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func performGet(t *testing.T, server *http.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func performPost(t *testing.T, server *http.Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newServerUnderTest(t *testing.T) *http.Server {
	t.Helper()
	logger := newTestLogger()

	catalog := faqrepo.NewMemoryCatalog()
	catalog.Seed()
	embeddings := faqrepo.NewMemoryEmbeddings()
	trending := trendstore.NewMemoryStore()

	faqSvc := faq.NewService(catalog, logger)
	searchSvc := search.NewService(search.Config{
		DefaultTopK:         5,
		SimilarityThreshold: 0.3,
		TrendingLimit:       10,
	}, catalog, embeddings, keywordEmbedder{}, trending, logger)
	chatSvc := chat.NewService(chat.Config{
		Model:               "gpt-4o-mini",
		Prompt:              "You help exchange students.",
		ContextSize:         3,
		ContextTokenBudget:  1500,
		SimilarityThreshold: 0.3,
	}, searchSvc, &cannedChatClient{answer: "Here is what I found."}, logger)
	authSvc := auth.NewService(auth.Config{
		Secret:          "test-secret",
		TokenTTL:        time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}, userrepo.NewMemoryRepository(), logger)
	boardSvc := board.NewService(boardrepo.NewMemoryRepository(), storage.NewMemoryStorage(), logger)

	handler := NewHandler(faqSvc, searchSvc, chatSvc, authSvc, boardSvc, logger)
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler, authSvc)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

// keywordEmbedder maps text onto a fixed keyword vocabulary so ranking is
// deterministic without a provider.
type keywordEmbedder struct{}

var vocabulary = []string{"visa", "interview", "residence", "permit", "phone", "sim", "number", "german"}

func (keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		lowered := strings.ToLower(text)
		vector := make([]float32, len(vocabulary))
		for j, word := range vocabulary {
			if strings.Contains(lowered, word) {
				vector[j] = 1
			}
		}
		out[i] = vector
	}
	return out, nil
}

type cannedChatClient struct {
	answer string
}

func (c *cannedChatClient) CreateChatCompletion(_ context.Context, _ chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	payload := fmt.Sprintf(`{"choices":[{"message":{"role":"assistant","content":%q}}]}`, c.answer)
	var resp chatgpt.ChatCompletionResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return chatgpt.ChatCompletionResponse{}, err
	}
	return resp, nil
}
