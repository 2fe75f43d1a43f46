//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/crobro234/wuebuddy/internal/bootstrap"
	"github.com/crobro234/wuebuddy/internal/domain/auth"
	"github.com/crobro234/wuebuddy/internal/domain/board"
	"github.com/crobro234/wuebuddy/internal/domain/chat"
	"github.com/crobro234/wuebuddy/internal/domain/faq"
	"github.com/crobro234/wuebuddy/internal/domain/search"
	"github.com/crobro234/wuebuddy/internal/infra/config"
	"github.com/crobro234/wuebuddy/internal/infra/llm/chatgpt"
	httpiface "github.com/crobro234/wuebuddy/internal/interface/http"
	"github.com/crobro234/wuebuddy/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideSearchConfig,
		provideChatConfig,
		provideAuthConfig,
		provideChatGPTClient,
		provideEmbedder,
		providePool,
		provideCatalogRepository,
		provideEmbeddingRepository,
		provideAuthRepository,
		provideBoardRepository,
		provideTrendingStore,
		provideObjectStorage,
		faq.NewService,
		search.NewService,
		chat.NewService,
		auth.NewService,
		board.NewService,
		wire.Bind(new(chat.ChatClient), new(*chatgpt.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
