package vectorindex

import (
	"context"
	"errors"

	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
)

// ErrNotReady means Search was called before any successful Build.
var ErrNotReady = errors.New("vectorindex: no document indexed")

// Index holds (chunk, vector) pairs for one session's document. Build
// replaces the whole index; partial state is never visible to Search.
type Index interface {
	Build(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error
	Search(ctx context.Context, vector []float32, topK int) ([]commonModels.SearchHit, error)
	Ready() bool
}
