package rag_test

import (
	"context"

	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
	"github.com/akolanti/TrainingBot/internal/rag/llm"
)

// MockIndex implements vectorindex.Index
type MockIndex struct {
	// Control fields to simulate different behaviors
	OnBuild  func(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error
	OnSearch func(ctx context.Context, vector []float32, topK int) ([]commonModels.SearchHit, error)
	IsReady  bool

	BuildCalls  int
	SearchCalls int
}

func (m *MockIndex) Build(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error {
	m.BuildCalls++
	if m.OnBuild != nil {
		return m.OnBuild(ctx, chunks, vectors)
	}
	m.IsReady = true
	return nil
}

func (m *MockIndex) Search(ctx context.Context, vector []float32, topK int) ([]commonModels.SearchHit, error) {
	m.SearchCalls++
	if m.OnSearch != nil {
		return m.OnSearch(ctx, vector, topK)
	}
	return []commonModels.SearchHit{
		{Chunk: commonModels.DocChunk{Chunk: "default context"}, Score: 0.9},
	}, nil
}

func (m *MockIndex) Ready() bool {
	return m.IsReady
}

// MockEmbedder implements embedding.Embedder
type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, texts []string) ([][]float32, error)

	EmbedCalls int
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	m.EmbedCalls++
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, text)
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{0.1, 0.2, 0.3}
	}
	return vectors, nil
}

// MockProvider implements llm.Provider
type MockProvider struct {
	OnComplete func(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error)

	CompleteCalls int
}

func (m *MockProvider) Complete(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	m.CompleteCalls++
	if m.OnComplete != nil {
		return m.OnComplete(ctx, messages, opts)
	}
	return "mocked llm response", nil
}
