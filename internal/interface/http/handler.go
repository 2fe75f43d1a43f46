package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/crobro234/wuebuddy/internal/domain/auth"
	"github.com/crobro234/wuebuddy/internal/domain/board"
	"github.com/crobro234/wuebuddy/internal/domain/chat"
	"github.com/crobro234/wuebuddy/internal/domain/faq"
	"github.com/crobro234/wuebuddy/internal/domain/search"
	apperrors "github.com/crobro234/wuebuddy/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	faqSvc    faq.Service
	searchSvc search.Service
	chatSvc   chat.Service
	authSvc   auth.Service
	boardSvc  board.Service
	logger    *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(faqSvc faq.Service, searchSvc search.Service, chatSvc chat.Service, authSvc auth.Service, boardSvc board.Service, logger *slog.Logger) *Handler {
	return &Handler{
		faqSvc:    faqSvc,
		searchSvc: searchSvc,
		chatSvc:   chatSvc,
		authSvc:   authSvc,
		boardSvc:  boardSvc,
		logger:    logger.With("component", "http.handler"),
	}
}

// ListCategories returns every FAQ category.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.faqSvc.Categories(c.Request.Context())
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "catalog_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// ListQuestions returns the questions filed under a category. An unknown
// category yields an empty list, not an error.
func (h *Handler) ListQuestions(c *gin.Context) {
	categoryID, err := strconv.ParseInt(c.Param("category_id"), 10, 64)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid category id", err))
		return
	}
	questions, err := h.faqSvc.Questions(c.Request.Context(), categoryID)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "catalog_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// GetAnswer returns the stored answer for a question.
func (h *Handler) GetAnswer(c *gin.Context) {
	questionID, err := strconv.ParseInt(c.Param("question_id"), 10, 64)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid question id", err))
		return
	}
	answer, err := h.faqSvc.Answer(c.Request.Context(), questionID)
	if err != nil {
		status := http.StatusInternalServerError
		code := "catalog_failed"
		if apperrors.IsCode(err, "not_found") {
			status = http.StatusNotFound
			code = "not_found"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, answer)
}

// Search ranks stored questions against the query by embedding similarity.
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("query")
	topK := 0
	if raw := c.Query("top_k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid top_k", err))
			return
		}
		topK = parsed
	}
	results, err := h.searchSvc.Search(c.Request.Context(), query, topK)
	if err != nil {
		status := http.StatusInternalServerError
		code := "search_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "no_embeddings"):
			status = http.StatusNotFound
			code = "no_embeddings"
		case apperrors.IsCode(err, "embedding_error"):
			status = http.StatusBadGateway
			code = "embedding_error"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// TrendingQueries returns the most searched queries.
func (h *Handler) TrendingQueries(c *gin.Context) {
	queries, err := h.searchSvc.Trending(c.Request.Context())
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "search_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"queries": queries})
}

// RebuildEmbeddings recomputes every stored question embedding.
func (h *Handler) RebuildEmbeddings(c *gin.Context) {
	count, err := h.searchSvc.Rebuild(c.Request.Context())
	if err != nil {
		status := http.StatusInternalServerError
		code := "rebuild_failed"
		if apperrors.IsCode(err, "embedding_error") {
			status = http.StatusBadGateway
			code = "embedding_error"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// Chat answers a free-form message grounded in the FAQ corpus.
func (h *Handler) Chat(c *gin.Context) {
	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.chatSvc.Respond(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "chat_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "llm_error"):
			status = http.StatusBadGateway
			code = "llm_error"
		case apperrors.IsCode(err, "embedding_error"):
			status = http.StatusBadGateway
			code = "embedding_error"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Register creates a new account.
func (h *Handler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	user, err := h.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "register_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "conflict"):
			status = http.StatusBadRequest
			code = "conflict"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login exchanges credentials for a token pair.
func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "login_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "invalid_credentials"):
			status = http.StatusUnauthorized
			code = "invalid_credentials"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh exchanges a refresh token for a new pair.
func (h *Handler) Refresh(c *gin.Context) {
	var req auth.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		status := http.StatusInternalServerError
		code := "refresh_failed"
		if apperrors.IsCode(err, "invalid_token") {
			status = http.StatusUnauthorized
			code = "invalid_token"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GoogleAuth redirects the browser to Google's consent screen.
func (h *Handler) GoogleAuth(c *gin.Context) {
	state, codeVerifier, codeChallenge, err := auth.NewOAuthState()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "oauth_failed", errMessage(err), err))
		return
	}
	url, err := h.authSvc.GoogleAuthURL(c.Request.Context(), state, codeChallenge)
	if err != nil {
		status := http.StatusInternalServerError
		code := "oauth_failed"
		if apperrors.IsCode(err, "auth_not_configured") {
			status = http.StatusServiceUnavailable
			code = "auth_not_configured"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}
	setOAuthStateCookie(c, state, codeVerifier)
	c.Redirect(http.StatusFound, url)
}

// GoogleCallback completes the OAuth code exchange and signs the user in.
func (h *Handler) GoogleCallback(c *gin.Context) {
	cookie, ok := readOAuthStateCookie(c)
	clearOAuthStateCookie(c)
	if !ok || c.Query("state") != cookie.State {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "oauth state mismatch", nil))
		return
	}
	code := c.Query("code")
	if code == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "missing authorization code", nil))
		return
	}
	resp, err := h.authSvc.GoogleCallback(c.Request.Context(), code, cookie.CodeVerifier)
	if err != nil {
		status := http.StatusInternalServerError
		errCode := "oauth_failed"
		switch {
		case apperrors.IsCode(err, "invalid_request"):
			status = http.StatusBadRequest
			errCode = "invalid_request"
		case apperrors.IsCode(err, "oauth_exchange_failed"):
			status = http.StatusBadGateway
			errCode = "oauth_exchange_failed"
		case apperrors.IsCode(err, "invalid_token"), apperrors.IsCode(err, "invalid_credentials"):
			status = http.StatusUnauthorized
			errCode = "invalid_credentials"
		case apperrors.IsCode(err, "auth_not_configured"):
			status = http.StatusServiceUnavailable
			errCode = "auth_not_configured"
		}
		abortWithError(c, NewHTTPError(status, errCode, errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the profile behind the bearer token.
func (h *Handler) Me(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return
	}
	user, err := h.authSvc.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		status := http.StatusInternalServerError
		code := "profile_failed"
		if apperrors.IsCode(err, "not_found") {
			status = http.StatusNotFound
			code = "not_found"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout revokes any stored provider tokens for the user.
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return
	}
	if err := h.authSvc.Logout(c.Request.Context(), claims.UserID); err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "logout_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
