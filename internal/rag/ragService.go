package rag

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/akolanti/TrainingBot/internal/cache"
	"github.com/akolanti/TrainingBot/internal/config"
	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
	"github.com/akolanti/TrainingBot/internal/metrics"
	"github.com/akolanti/TrainingBot/internal/rag/embedding"
	"github.com/akolanti/TrainingBot/internal/rag/ingest"
	"github.com/akolanti/TrainingBot/internal/rag/llm"
	"github.com/akolanti/TrainingBot/internal/rag/vectorindex"
	"github.com/akolanti/TrainingBot/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------

1. Service (Interface):
  - The PUBLIC contract the worker and the MCP server call.
  - Callers never see the index, the embedder or the LLM client.

2. service (Private Struct):
  - Holds the state (vector index, LLM provider, embedder, cache).
  - Lowercase so external packages cannot reach the dependencies.

3. Dependency Injection (NewService):
  - Lets tests swap every dependency for a mock without touching
    the callers.
*/

// Service is the whole question answering pipeline behind one boundary.
// Answer and Summarize never return an error: every failure is folded
// into the returned string so the caller can hand it straight to the
// user, exactly like a successful response.
type Service interface {
	Ingest(ctx context.Context, filePath, docName string) (string, error)
	Answer(ctx context.Context, query string, lang commonModels.Language) string
	Summarize(ctx context.Context, lang commonModels.Language) string
	ClearCache() error
}

type service struct {
	index    vectorindex.Index
	provider llm.Provider
	embedder embedding.Embedder
	cache    *cache.ResponseCache
	logger   *logger_i.Logger
}

func NewService(index vectorindex.Index, provider llm.Provider, em embedding.Embedder, responseCache *cache.ResponseCache) Service {
	return &service{
		index:    index,
		provider: provider,
		embedder: em,
		cache:    responseCache,
		logger:   logger_i.NewLogger("RAG Service"),
	}
}

// Ingest rebuilds the index from one document and consumes the file:
// filePath is an uploaded temp file and is removed once the index is
// rebuilt. The response cache is deliberately left alone: cached
// answers for recurring questions stay valid across re-uploads of the
// same document, and DELETE /cache is the escape hatch when the
// document actually changed.
func (s *service) Ingest(ctx context.Context, filePath, docName string) (string, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "doc", docName)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	ingestCtx, cancel := context.WithTimeout(ctx, config.PipelineCallTimeout)
	defer cancel()

	text, err := ingest.ExtractText(filePath)
	if err != nil {
		log.Error("Text extraction failed", "error", err)
		return "", err
	}

	chunks, err := ingest.PrepareChunks(text, commonModels.Document{
		Name:                docName,
		LastIngestTimestamp: time.Now(),
	})
	if err != nil {
		log.Error("Chunking failed", "error", err)
		return "", err
	}
	log.Info("Document split", "chunks", len(chunks))

	vectors, err := s.executeBatchEmbeddingStep(ingestCtx, chunks)
	if err != nil {
		log.Error("Batch embedding failed", "error", err)
		return "", err
	}

	if err := s.index.Build(ingestCtx, chunks, vectors); err != nil {
		log.Error("Index build failed", "error", err)
		return "", err
	}

	if err := os.Remove(filePath); err != nil {
		log.Warn("Could not remove uploaded file", "path", filePath, "error", err)
	}

	log.Info("Knowledge base rebuilt", "chunks", len(chunks))
	return "Knowledge base updated successfully.", nil
}

func (s *service) Answer(ctx context.Context, query string, lang commonModels.Language) string {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if !s.index.Ready() {
		return config.NoDocumentAnswerMessage
	}

	key := cache.AnswerKey(query, lang)
	if cached, found := s.executeCacheCheckStep(key); found {
		log.Debug("Cache hit", "query", query)
		return cached
	}

	answerCtx, cancel := context.WithTimeout(ctx, config.PipelineCallTimeout)
	defer cancel()

	docContext, err := s.retrieveContext(answerCtx, query, config.AnswerTopK)
	if err != nil {
		return s.answerFailure(log, err)
	}

	messages := []llm.Message{
		{Role: commonModels.RoleSystem, Content: answerSystemPrompt(lang)},
		{Role: commonModels.RoleUser, Content: answerUserPrompt(docContext, query, lang)},
	}
	result, err := s.executeGenerationStep(answerCtx, messages, llm.Options{
		Models:      []string{config.PrimaryModel, config.FallbackModel},
		MaxTokens:   config.AnswerMaxTokens,
		Temperature: config.AnswerTemperature,
	})
	if err != nil {
		return s.answerFailure(log, err)
	}

	if err := s.cache.Put(key, result); err != nil {
		log.Error("Failed to persist answer to cache", "error", err)
	}
	return result
}

func (s *service) Summarize(ctx context.Context, lang commonModels.Language) string {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if !s.index.Ready() {
		return config.NoDocumentSummaryMessage
	}

	key := cache.SummaryKey(lang)
	if cached, found := s.executeCacheCheckStep(key); found {
		log.Debug("Cache hit for summary", "language", lang)
		return cached
	}

	summaryCtx, cancel := context.WithTimeout(ctx, config.PipelineCallTimeout)
	defer cancel()

	docContext, err := s.retrieveContext(summaryCtx, config.SummaryQuery, config.SummaryTopK)
	if err != nil {
		return s.summaryFailure(log, err)
	}

	messages := []llm.Message{
		{Role: commonModels.RoleSystem, Content: summarySystemPrompt(lang)},
		{Role: commonModels.RoleUser, Content: summaryUserPrompt(docContext, lang)},
	}
	result, err := s.executeGenerationStep(summaryCtx, messages, llm.Options{
		Models:      []string{config.PrimaryModel, config.FallbackModel},
		MaxTokens:   config.SummaryMaxTokens,
		Temperature: config.SummaryTemperature,
	})
	if err != nil {
		return s.summaryFailure(log, err)
	}

	if err := s.cache.Put(key, result); err != nil {
		log.Error("Failed to persist summary to cache", "error", err)
	}
	return result
}

func (s *service) ClearCache() error {
	return s.cache.Clear()
}

// retrieveContext embeds the query, searches the index and joins the
// matched chunk texts with newlines in similarity order.
func (s *service) retrieveContext(ctx context.Context, query string, topK int) (string, error) {
	vector, err := s.executeEmbeddingStep(ctx, query)
	if err != nil {
		return "", err
	}

	hits, err := s.executeSearchStep(ctx, vector, topK)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(hits))
	for _, hit := range hits {
		parts = append(parts, hit.Chunk.Chunk)
	}
	return strings.Join(parts, "\n"), nil
}

func (s *service) answerFailure(log *logger_i.Logger, err error) string {
	if errors.Is(err, llm.ErrModelLoading) {
		log.Warn("Model still loading")
		return config.ModelLoadingMessage
	}
	log.Error("Answer generation failed", "error", err)
	return config.ErrorPrefix + " Error generating answer: " + err.Error()
}

func (s *service) summaryFailure(log *logger_i.Logger, err error) string {
	if errors.Is(err, llm.ErrModelLoading) {
		log.Warn("Model still loading")
		return config.ModelLoadingMessage
	}
	log.Error("Summary generation failed", "error", err)
	return config.ErrorPrefix + " Error generating summary: " + err.Error()
}
