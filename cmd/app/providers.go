package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/crobro234/wuebuddy/internal/domain/auth"
	"github.com/crobro234/wuebuddy/internal/domain/board"
	"github.com/crobro234/wuebuddy/internal/domain/chat"
	"github.com/crobro234/wuebuddy/internal/domain/faq"
	"github.com/crobro234/wuebuddy/internal/domain/search"
	"github.com/crobro234/wuebuddy/internal/infra/boardrepo"
	"github.com/crobro234/wuebuddy/internal/infra/config"
	"github.com/crobro234/wuebuddy/internal/infra/faqrepo"
	"github.com/crobro234/wuebuddy/internal/infra/llm/chatgpt"
	"github.com/crobro234/wuebuddy/internal/infra/postgres"
	"github.com/crobro234/wuebuddy/internal/infra/storage"
	"github.com/crobro234/wuebuddy/internal/infra/trendstore"
	"github.com/crobro234/wuebuddy/internal/infra/userrepo"
)

func provideSearchConfig(cfg *config.Config) search.Config {
	return search.Config{
		DefaultTopK:         cfg.Search.DefaultTopK,
		SimilarityThreshold: cfg.Search.SimilarityThreshold,
		TrendingLimit:       cfg.Search.TrendingLimit,
	}
}

func provideChatConfig(cfg *config.Config) chat.Config {
	return chat.Config{
		Model:               cfg.LLM.Model,
		Temperature:         cfg.LLM.Temperature,
		Prompt:              cfg.Chat.Prompt,
		ContextSize:         cfg.Chat.ContextSize,
		ContextTokenBudget:  cfg.Chat.ContextTokenBudget,
		SimilarityThreshold: cfg.Search.SimilarityThreshold,
	}
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:          cfg.Auth.Secret,
		TokenTTL:        cfg.Auth.TokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
		Google: auth.GoogleConfig{
			ClientID:             cfg.Auth.Google.ClientID,
			ClientSecret:         cfg.Auth.Google.ClientSecret,
			RedirectURL:          cfg.Auth.Google.RedirectURL,
			TokenEncryptionKey:   cfg.Auth.Google.TokenEncryptionKey,
			PostLoginRedirectURL: cfg.Auth.Google.PostLoginRedirectURL,
		},
	}
}

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout)
}

func provideEmbedder(client *chatgpt.Client, cfg *config.Config) search.Embedder {
	return chatgpt.NewEmbedder(client, cfg.LLM.EmbeddingModel)
}

// providePool returns a ready postgres pool, or nil when the DSN is unset or
// the database is unreachable. Repositories fall back to memory in that case.
func providePool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Error("postgres unavailable, using memory repositories", "error", err)
		return nil
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		logger.Error("schema bootstrap failed, using memory repositories", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres repositories enabled")
	return pool
}

func provideCatalogRepository(pool *pgxpool.Pool, logger *slog.Logger) faq.CatalogRepository {
	if pool == nil {
		repo := faqrepo.NewMemoryCatalog()
		repo.Seed()
		return repo
	}
	return faqrepo.NewPostgresCatalog(pool)
}

func provideEmbeddingRepository(pool *pgxpool.Pool) search.EmbeddingRepository {
	if pool == nil {
		return faqrepo.NewMemoryEmbeddings()
	}
	return faqrepo.NewPostgresEmbeddings(pool)
}

func provideAuthRepository(pool *pgxpool.Pool) auth.Repository {
	if pool == nil {
		return userrepo.NewMemoryRepository()
	}
	return userrepo.NewPostgresRepository(pool)
}

func provideBoardRepository(pool *pgxpool.Pool) board.Repository {
	if pool == nil {
		return boardrepo.NewMemoryRepository()
	}
	return boardrepo.NewPostgresRepository(pool)
}

func provideTrendingStore(cfg *config.Config, logger *slog.Logger) search.TrendingStore {
	if cfg.Trending.ValkeyEnabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return trendstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return trendstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("valkey trending store enabled", "addr", cfg.Trending.ValkeyAddr)
			return trendstore.NewValkeyStore(client, "search")
		}
	}
	return trendstore.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Trending.ValkeyAddr, "://") {
		opt, err = valkey.ParseURL(cfg.Trending.ValkeyAddr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Trending.ValkeyAddr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideObjectStorage(cfg *config.Config, logger *slog.Logger) board.ObjectStorage {
	if !cfg.Storage.Enabled {
		return storage.NewMemoryStorage()
	}
	store, err := storage.NewMinioStorage(
		cfg.Storage.Endpoint,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.Bucket,
		cfg.Storage.Region,
		logger,
	)
	if err != nil {
		logger.Error("object storage unavailable, falling back to memory storage", "error", err)
		return storage.NewMemoryStorage()
	}
	logger.Info("object storage enabled", "bucket", cfg.Storage.Bucket)
	return store
}
