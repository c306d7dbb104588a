package qdrantIndex

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/qdrant/go-client/qdrant"

	"github.com/akolanti/TrainingBot/internal/config"
	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
	"github.com/akolanti/TrainingBot/internal/rag/vectorindex"
	"github.com/akolanti/TrainingBot/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once
var instance *Store

// Store backs the vector index with a Qdrant collection. Build drops and
// recreates the collection so the replacement is wholesale, matching the
// in-memory backend's semantics.
type Store struct {
	client *qdrant.Client
	mu     sync.RWMutex
	ready  bool
}

func GetQdrantIndex(ctx context.Context) *Store {
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		c := newClient()
		if c != nil {
			instance = &Store{client: c}
			go closeOnDone(ctx, c)
		}
	})
	return instance
}

func newClient() *qdrant.Client {
	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))
	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}
	return client
}

func closeOnDone(ctx context.Context, c *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := c.Close(); err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
}

func (s *Store) Build(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("qdrantIndex: %d chunks but %d vectors", len(chunks), len(vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.recreateCollection(ctx); err != nil {
		return err
	}

	if len(chunks) > 0 {
		points := make([]*qdrant.PointStruct, len(chunks))
		for i, chunk := range chunks {
			points[i] = &qdrant.PointStruct{
				Id:      qdrant.NewID(chunk.ChunkId),
				Vectors: qdrant.NewVectors(vectors[i]...),
				Payload: qdrant.NewValueMap(map[string]any{
					"content":       chunk.Chunk,
					"offset":        chunk.Offset,
					"source_doc_id": chunk.Doc.Id,
					"doc_name":      chunk.Doc.Name,
					"chunk_order":   chunk.ChunkOrder,
					"chunk_id":      chunk.ChunkId,
					"ingested_at":   chunk.Doc.LastIngestTimestamp.Unix(),
				}),
			}
		}

		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: config.QdrantCollectionName,
			Points:         points,
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil {
			return fmt.Errorf("qdrant upsert failed: %w", err)
		}
	}

	s.ready = true
	return nil
}

func (s *Store) Search(ctx context.Context, vector []float32, topK int) ([]commonModels.SearchHit, error) {
	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()
	if !ready {
		return nil, vectorindex.ErrNotReady
	}

	result, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: config.QdrantCollectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		logger.Error("Error querying Qdrant: ", "error:", err)
		return nil, err
	}

	hits := make([]commonModels.SearchHit, 0, len(result))
	for _, hit := range result {
		hits = append(hits, commonModels.SearchHit{
			Chunk: commonModels.DocChunk{
				ChunkId: hit.Payload["chunk_id"].GetStringValue(),
				Chunk:   hit.Payload["content"].GetStringValue(),
				Offset:  int(hit.Payload["offset"].GetIntegerValue()),
				Doc: commonModels.Document{
					Id:   hit.Payload["source_doc_id"].GetStringValue(),
					Name: hit.Payload["doc_name"].GetStringValue(),
				},
			},
			Score: hit.Score,
		})
	}
	return hits, nil
}

func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *Store) recreateCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, config.QdrantCollectionName)
	if err != nil {
		return err
	}
	if exists {
		if err := s.client.DeleteCollection(ctx, config.QdrantCollectionName); err != nil {
			return err
		}
	}

	return s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: config.QdrantCollectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(config.EmbeddingDimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
}
