package memoryindex

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
	"github.com/akolanti/TrainingBot/internal/rag/vectorindex"
)

// Store is a brute-force cosine-similarity index held entirely in memory.
// Build swaps in a fresh snapshot under the lock, so a rebuild replaces the
// previous document wholesale and readers never see a half-built index.
type Store struct {
	mu       sync.RWMutex
	snapshot *snapshot
}

type snapshot struct {
	dimension int
	chunks    []commonModels.DocChunk
	vectors   [][]float32
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Build(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("memoryindex: %d chunks but %d vectors", len(chunks), len(vectors))
	}

	snap := &snapshot{
		chunks:  chunks,
		vectors: make([][]float32, len(vectors)),
	}
	for i, v := range vectors {
		if i == 0 {
			snap.dimension = len(v)
		} else if len(v) != snap.dimension {
			return fmt.Errorf("memoryindex: vector %d has dimension %d, want %d", i, len(v), snap.dimension)
		}
		snap.vectors[i] = normalize(v)
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
	return nil
}

func (s *Store) Search(ctx context.Context, vector []float32, topK int) ([]commonModels.SearchHit, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()

	if snap == nil {
		return nil, vectorindex.ErrNotReady
	}
	if topK <= 0 {
		return nil, nil
	}
	if len(snap.vectors) > 0 && len(vector) != snap.dimension {
		return nil, fmt.Errorf("memoryindex: query has dimension %d, index has %d", len(vector), snap.dimension)
	}

	query := normalize(vector)
	hits := make([]commonModels.SearchHit, 0, len(snap.vectors))
	for i, v := range snap.vectors {
		hits = append(hits, commonModels.SearchHit{
			Chunk: snap.chunks[i],
			Score: dot(v, query),
		})
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })

	if topK > len(hits) {
		topK = len(hits)
	}
	return hits[:topK], nil
}

func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot != nil
}

// dot assumes equal dimensions; Build and Search both enforce it.
func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	inv := float32(1 / math.Sqrt(sum))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x * inv
	}
	return out
}
