package hfEmbedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/akolanti/TrainingBot/internal/config"
	"github.com/akolanti/TrainingBot/internal/rag/embedding"
	"github.com/akolanti/TrainingBot/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client

type client struct {
	api   openai.Client
	model string
}

// GetHFEmbeddingClient returns the embedder backed by the Hugging Face
// router's OpenAI-compatible embeddings endpoint. Returns nil when no
// credential is configured.
func GetHFEmbeddingClient(modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("hf_embedding")
		newHFEmbedder(modelName, apikey)
	})

	if embeddingClient == nil {
		return nil
	}
	return embeddingClient
}

func newHFEmbedder(modelName string, apikey string) {
	if apikey == "" {
		logger.Error("No HF API key configured, embedding client unavailable")
		return
	}
	embeddingClient = &client{
		api: openai.NewClient(
			option.WithAPIKey(apikey),
			option.WithBaseURL(config.HFRouterBaseURL),
		),
		model: modelName,
	}
	logger.Info("HF embedding client created", "model", modelName)
}

func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	res, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: c.model,
	})
	if err != nil {
		classified := classify(err)
		logger.Error("Embedding request failed", "error", err, "inputs", len(texts))
		return nil, classified
	}

	if len(res.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d inputs", embedding.ErrServiceUnavailable, len(res.Data), len(texts))
	}

	// The endpoint tags each vector with its input index; reassemble in
	// input order rather than trusting response order.
	vectors := make([][]float32, len(texts))
	for _, d := range res.Data {
		vectors[d.Index] = toFloat32(d.Embedding)
	}
	return vectors, nil
}

func classify(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", embedding.ErrAuthentication, err)
		}
	}
	return fmt.Errorf("%w: %v", embedding.ErrServiceUnavailable, err)
}

func toFloat32(vals []float64) []float32 {
	out := make([]float32, len(vals))
	for i, v := range vals {
		out[i] = float32(v)
	}
	return out
}
