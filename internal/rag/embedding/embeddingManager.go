package embedding

import (
	"context"
	"errors"
)

var (
	// ErrAuthentication means no valid credential is configured for the
	// remote embedding endpoint.
	ErrAuthentication = errors.New("embedding: authentication failed")

	// ErrServiceUnavailable means the endpoint was unreachable or rejected
	// the request transiently. No retry happens here; an ingestion that
	// hits this aborts whole.
	ErrServiceUnavailable = errors.New("embedding: service unavailable")
)

// Embedder converts text into fixed-dimension vectors. BatchEmbedding is
// order-preserving: one vector per input, same order.
type Embedder interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
	BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}
