package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/philippgille/chromem-go"
)

// reserved metadata keys used to round-trip chunk fields through chromem
// document metadata.
const (
	metaSourceURL   = "source_url"
	metaSourceTitle = "source_title"
	metaCreatedAt   = "created_at"
)

// ChromemStore persists chunks in an embedded chromem-go collection.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	name       string
}

// NewChromemStore opens (or creates) a persistent collection at path. An
// empty path keeps everything in memory, which is what the tests use.
func NewChromemStore(path, collection string) (*ChromemStore, error) {
	var (
		db  *chromem.DB
		err error
	)
	if path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("failed to open chromem DB: %w", err)
		}
	}

	coll, err := db.GetOrCreateCollection(collection, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get/create collection %s: %w", collection, err)
	}

	return &ChromemStore{db: db, collection: coll, name: collection}, nil
}

func (s *ChromemStore) Upsert(ctx context.Context, chunk DocumentChunk) error {
	if chunk.ID == "" {
		return errors.New("chunk ID is required")
	}
	if len(chunk.Embedding) == 0 {
		return errors.New("chunk embedding is required")
	}

	createdAt := chunk.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	metadata := map[string]string{
		metaSourceURL:   chunk.SourceURL,
		metaSourceTitle: chunk.SourceTitle,
		metaCreatedAt:   createdAt.Format(time.RFC3339),
	}
	for k, v := range chunk.Metadata {
		metadata[k] = v
	}

	doc := chromem.Document{
		ID:        chunk.ID,
		Metadata:  metadata,
		Embedding: chunk.Embedding,
		Content:   chunk.Content,
	}
	if err := s.collection.AddDocuments(ctx, []chromem.Document{doc}, 1); err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}
	return nil
}

func (s *ChromemStore) QueryByEmbedding(ctx context.Context, embedding []float32, k int, filters map[string]string) ([]ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}
	// chromem rejects nResults greater than the collection size.
	if count := s.collection.Count(); k > count {
		if count == 0 {
			return nil, nil
		}
		k = count
	}

	results, err := s.collection.QueryEmbedding(ctx, embedding, k, filters, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	chunks := make([]ScoredChunk, 0, len(results))
	for _, res := range results {
		chunks = append(chunks, ScoredChunk{
			Chunk: documentToChunk(res.ID, res.Content, res.Embedding, res.Metadata),
			Score: res.Similarity,
		})
	}
	return chunks, nil
}

func (s *ChromemStore) HasSourceURL(ctx context.Context, url string) (bool, error) {
	_, err := s.collection.GetByID(ctx, ChunkIDForURL(url))
	if err != nil {
		// chromem reports a missing ID as a plain error.
		return false, nil
	}
	return true, nil
}

func (s *ChromemStore) Stats(ctx context.Context) (map[string]any, error) {
	return map[string]any{
		"provider":     "chromem",
		"collection":   s.name,
		"total_chunks": s.collection.Count(),
	}, nil
}

func (s *ChromemStore) Close() error {
	return nil
}

func documentToChunk(id, content string, embedding []float32, metadata map[string]string) DocumentChunk {
	chunk := DocumentChunk{
		ID:        id,
		Content:   content,
		Embedding: embedding,
		Metadata:  make(map[string]string),
	}
	for k, v := range metadata {
		switch k {
		case metaSourceURL:
			chunk.SourceURL = v
		case metaSourceTitle:
			chunk.SourceTitle = v
		case metaCreatedAt:
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				chunk.CreatedAt = t
			}
		default:
			chunk.Metadata[k] = v
		}
	}
	return chunk
}
