package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/TrainingBot/internal/cache"
	"github.com/akolanti/TrainingBot/internal/config"
	"github.com/akolanti/TrainingBot/internal/mcpserver"
	"github.com/akolanti/TrainingBot/internal/rag"
	"github.com/akolanti/TrainingBot/internal/rag/embedding"
	"github.com/akolanti/TrainingBot/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/TrainingBot/internal/rag/embedding/hfEmbedding"
	"github.com/akolanti/TrainingBot/internal/rag/llm"
	"github.com/akolanti/TrainingBot/internal/rag/llm/gemini"
	"github.com/akolanti/TrainingBot/internal/rag/llm/hfChat"
	"github.com/akolanti/TrainingBot/internal/rag/vectorindex/memoryindex"
	"github.com/akolanti/TrainingBot/pkg/logger_i"
)

func main() {
	logger_i.Init()
	logger := logger_i.NewLogger("mcp-main")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var embeddingService embedding.Embedder
	var llmProvider llm.Provider
	if config.ModelBackend == "google" {
		embeddingService = googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, config.GoogleAPIKey)
		llmProvider = gemini.GetGeminiClient(ctx, config.GoogleAPIKey)
	} else {
		embeddingService = hfEmbedding.GetHFEmbeddingClient(config.EmbeddingModel, config.HFAPIKey)
		llmProvider = hfChat.GetHFChatClient(config.HFAPIKey)
	}
	if embeddingService == nil || llmProvider == nil {
		logger.Error("External services failed to initialize. Shutting down.")
		os.Exit(1)
	}

	responseCache := cache.New(config.ResponseCacheFile)
	ragService := rag.NewService(memoryindex.NewStore(), llmProvider, embeddingService, responseCache)

	srv := mcpserver.NewServer(ragService)
	if err := srv.Run(ctx); err != nil {
		logger.Error("MCP server stopped", "error", err)
		os.Exit(1)
	}
}
