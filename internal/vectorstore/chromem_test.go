package vectorstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T) *ChromemStore {
	t.Helper()
	store, err := NewChromemStore("", "test")
	require.NoError(t, err)
	return store
}

func testChunk(id string, embedding []float32) DocumentChunk {
	return DocumentChunk{
		ID:          id,
		Content:     "content for " + id,
		SourceURL:   "https://example.com/" + id,
		SourceTitle: "title " + id,
		Metadata:    map[string]string{"topic": "go"},
		Embedding:   embedding,
	}
}

func TestChromemUpsertValidation(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	err := store.Upsert(ctx, DocumentChunk{Content: "no id", Embedding: []float32{1}})
	assert.Error(t, err)

	err = store.Upsert(ctx, DocumentChunk{ID: "x", Content: "no embedding"})
	assert.Error(t, err)
}

func TestChromemUpsertAndQuery(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, testChunk("a", []float32{1, 0, 0})))
	require.NoError(t, store.Upsert(ctx, testChunk("b", []float32{0, 1, 0})))

	hits, err := store.QueryByEmbedding(ctx, []float32{1, 0, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	best := hits[0]
	assert.Equal(t, "a", best.Chunk.ID, "nearest chunk first")
	assert.Greater(t, best.Score, hits[1].Score)
	assert.Equal(t, "https://example.com/a", best.Chunk.SourceURL)
	assert.Equal(t, "title a", best.Chunk.SourceTitle)
	assert.Equal(t, map[string]string{"topic": "go"}, best.Chunk.Metadata, "reserved keys are not leaked back")
	assert.False(t, best.Chunk.CreatedAt.IsZero(), "timestamp round-trips through metadata")
}

func TestChromemQueryClampsK(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	hits, err := store.QueryByEmbedding(ctx, []float32{1, 0, 0}, 5, nil)
	require.NoError(t, err)
	assert.Empty(t, hits, "empty collection yields no results, not an error")

	require.NoError(t, store.Upsert(ctx, testChunk("only", []float32{1, 0, 0})))

	hits, err = store.QueryByEmbedding(ctx, []float32{1, 0, 0}, 5, nil)
	require.NoError(t, err)
	assert.Len(t, hits, 1, "k larger than the collection is clamped")
}

func TestChromemQueryFilters(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	goChunk := testChunk("go-doc", []float32{1, 0, 0})
	rustChunk := testChunk("rust-doc", []float32{0.9, 0.1, 0})
	rustChunk.Metadata = map[string]string{"topic": "rust"}
	require.NoError(t, store.Upsert(ctx, goChunk))
	require.NoError(t, store.Upsert(ctx, rustChunk))

	hits, err := store.QueryByEmbedding(ctx, []float32{1, 0, 0}, 1, map[string]string{"topic": "rust"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "rust-doc", hits[0].Chunk.ID)
}

func TestChromemUpsertReplacesByID(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	chunk := testChunk("a", []float32{1, 0, 0})
	require.NoError(t, store.Upsert(ctx, chunk))

	chunk.Content = "updated content"
	require.NoError(t, store.Upsert(ctx, chunk))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats["total_chunks"])

	hits, err := store.QueryByEmbedding(ctx, []float32{1, 0, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "updated content", hits[0].Chunk.Content)
}

func TestChromemHasSourceURL(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	url := "https://example.com/page"
	exists, err := store.HasSourceURL(ctx, url)
	require.NoError(t, err)
	assert.False(t, exists)

	chunk := DocumentChunk{
		ID:        ChunkIDForURL(url),
		Content:   "page text",
		SourceURL: url,
		Embedding: []float32{1, 0, 0},
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.Upsert(ctx, chunk))

	exists, err = store.HasSourceURL(ctx, url)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestChromemStats(t *testing.T) {
	store := newMemoryStore(t)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "chromem", stats["provider"])
	assert.Equal(t, "test", stats["collection"])
	assert.Equal(t, 0, stats["total_chunks"])
}

func TestChunkIDForURLDeterministic(t *testing.T) {
	a := ChunkIDForURL("https://example.com/page")
	b := ChunkIDForURL("https://example.com/page")
	c := ChunkIDForURL("https://example.com/other")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)
}
