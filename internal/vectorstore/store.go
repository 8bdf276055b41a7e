// Package vectorstore abstracts the vector index consumed by the semantic
// search layer. Chunks are owned by the store and never mutated in place;
// an update is modeled as a delete plus insert under the same ID.
package vectorstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// ErrNotFound is returned when a chunk lookup misses.
var ErrNotFound = errors.New("chunk not found")

// DocumentChunk is a unit of stored text with its embedding vector.
type DocumentChunk struct {
	ID          string
	Content     string
	SourceURL   string
	SourceTitle string
	Metadata    map[string]string
	Embedding   []float32
	CreatedAt   time.Time
}

// ScoredChunk pairs a chunk with its similarity score for a query.
type ScoredChunk struct {
	Chunk DocumentChunk
	Score float32
}

// Store is the capability a vector index backend implements.
type Store interface {
	// Upsert writes a chunk. The write either fully succeeds or the chunk
	// is not stored.
	Upsert(ctx context.Context, chunk DocumentChunk) error
	// QueryByEmbedding returns up to k chunks nearest to the embedding,
	// best first, restricted to chunks whose metadata matches filters.
	QueryByEmbedding(ctx context.Context, embedding []float32, k int, filters map[string]string) ([]ScoredChunk, error)
	// HasSourceURL reports whether a chunk for the URL is already stored.
	HasSourceURL(ctx context.Context, url string) (bool, error)
	// Stats returns backend-reported figures (total chunks, collection
	// name, ...). Pass-through, not computed locally.
	Stats(ctx context.Context) (map[string]any, error)
	Close() error
}

// ChunkIDForURL derives the deterministic chunk ID used for web-origin
// documents, making upserts per URL idempotent.
func ChunkIDForURL(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:16])
}
