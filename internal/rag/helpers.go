package rag

import (
	"context"
	"time"

	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
	"github.com/akolanti/TrainingBot/internal/metrics"
	"github.com/akolanti/TrainingBot/internal/rag/llm"
)

func (s *service) executeEmbeddingStep(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.embedder.GetEmbedding(ctx, text)
}

func (s *service) executeBatchEmbeddingStep(ctx context.Context, chunks []commonModels.DocChunk) ([][]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("batch_embedding", time.Since(start)) }()

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Chunk
	}
	return s.embedder.BatchEmbedding(ctx, texts)
}

func (s *service) executeCacheCheckStep(key string) (string, bool) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	answer, found := s.cache.Get(key)
	metrics.CaptureCacheLookup(found)
	return answer, found
}

func (s *service) executeSearchStep(ctx context.Context, vector []float32, topK int) ([]commonModels.SearchHit, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	return s.index.Search(ctx, vector, topK)
}

func (s *service) executeGenerationStep(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.provider.Complete(ctx, messages, opts)
}
