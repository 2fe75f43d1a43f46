package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/crobro234/wuebuddy/internal/domain/auth"
	"github.com/crobro234/wuebuddy/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, authSvc auth.Service) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/categories", handler.ListCategories)
		api.GET("/questions/:category_id", handler.ListQuestions)
		api.GET("/answer/:question_id", handler.GetAnswer)

		api.GET("/search", handler.Search)
		api.GET("/search/trending", handler.TrendingQueries)
		api.POST("/embed/rebuild", handler.RebuildEmbeddings)
		api.POST("/chat", handler.Chat)

		api.POST("/register", handler.Register)
		api.POST("/login", handler.Login)
		api.POST("/auth/refresh", handler.Refresh)
		api.GET("/auth/google", handler.GoogleAuth)
		api.GET("/auth/google/callback", handler.GoogleCallback)

		api.GET("/posts", handler.ListPosts)
		api.POST("/posts/new", handler.CreatePost)
		api.POST("/posts/:post_id/attachments", handler.UploadAttachment)
		api.GET("/posts/:post_id/attachments", handler.ListAttachments)
		api.GET("/attachments/:attachment_id", handler.DownloadAttachment)

		protected := api.Group("")
		protected.Use(authMiddleware(authSvc))
		{
			protected.GET("/me", handler.Me)
			protected.POST("/logout", handler.Logout)
		}
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-Id", id)
		c.Set("request_id", id)
		c.Next()
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"request_id", c.GetString("request_id"),
		)
	}
}
