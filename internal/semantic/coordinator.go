// Package semantic coordinates a local vector index with live web search.
// Queries are answered from the index when it holds enough relevant chunks;
// otherwise a web search fills the gap and, optionally, its hits are folded
// back into the index for next time.
package semantic

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/pltanton/wizsearch/internal/embedding"
	"github.com/pltanton/wizsearch/internal/search"
	"github.com/pltanton/wizsearch/internal/vectorstore"
)

var (
	// ErrStoreRequired is returned when a vector store is not provided.
	ErrStoreRequired = errors.New("vector store required")

	// ErrEmbedderRequired is returned when an embedding provider is not
	// provided.
	ErrEmbedderRequired = errors.New("embedding provider required")
)

// WebSearcher is the live web search capability the coordinator falls back
// to. *search.Orchestrator satisfies it; so does any single adapter behind
// a small shim.
type WebSearcher interface {
	Search(ctx context.Context, query string, opts search.Options) (*search.MergedResult, error)
}

// Config tunes the coordinator.
type Config struct {
	// LocalSearchLimit is the default result limit when a caller passes
	// none.
	LocalSearchLimit int
	// WebSearchLimit caps how many web results are folded in on fallback.
	WebSearchLimit int
	// FallbackThreshold is the minimum number of local chunks below which
	// a live web search is triggered.
	FallbackThreshold int
	// EnableCaching toggles the query-result cache.
	EnableCaching bool
	// CacheTTL is how long a cached result stays live.
	CacheTTL time.Duration
	// CacheSize bounds the number of cached entries.
	CacheSize int
	// AutoStoreWebResults persists unseen web hits back into the store.
	AutoStoreWebResults bool
	// WebResultScore is assigned to web chunks whose engine reported no
	// score of its own. Nil means the default; an explicit zero is honored.
	WebResultScore *float32
}

const defaultWebResultScore float32 = 0.5

// DefaultConfig returns the coordinator defaults.
func DefaultConfig() Config {
	score := defaultWebResultScore
	return Config{
		LocalSearchLimit:    10,
		WebSearchLimit:      5,
		FallbackThreshold:   3,
		EnableCaching:       true,
		CacheTTL:            24 * time.Hour,
		CacheSize:           256,
		AutoStoreWebResults: true,
		WebResultScore:      &score,
	}
}

func (c *Config) normalize() {
	def := DefaultConfig()
	if c.LocalSearchLimit <= 0 {
		c.LocalSearchLimit = def.LocalSearchLimit
	}
	if c.WebSearchLimit <= 0 {
		c.WebSearchLimit = def.WebSearchLimit
	}
	if c.FallbackThreshold < 0 {
		c.FallbackThreshold = def.FallbackThreshold
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = def.CacheTTL
	}
	if c.CacheSize <= 0 {
		c.CacheSize = def.CacheSize
	}
	if c.WebResultScore == nil {
		score := defaultWebResultScore
		c.WebResultScore = &score
	}
}

// Coordinator owns the vector store connection and the query-result cache.
// It starts disconnected; every query/store operation fails with
// ErrNotConnected until Connect succeeds.
type Coordinator struct {
	cfg      Config
	store    vectorstore.Store
	embedder embedding.Provider
	web      WebSearcher
	logger   *zap.Logger
	cache    *expirable.LRU[string, *Result]

	mu        sync.RWMutex
	connected bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets a custom logger. Default is a nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithWebSearcher injects the live web search capability. Without one the
// coordinator answers from the local store only.
func WithWebSearcher(web WebSearcher) Option {
	return func(c *Coordinator) {
		c.web = web
	}
}

// NewCoordinator creates a disconnected coordinator.
func NewCoordinator(store vectorstore.Store, embedder embedding.Provider, cfg Config, opts ...Option) (*Coordinator, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	cfg.normalize()

	c := &Coordinator{
		cfg:      cfg,
		store:    store,
		embedder: embedder,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if cfg.EnableCaching {
		c.cache = expirable.NewLRU[string, *Result](cfg.CacheSize, nil, cfg.CacheTTL)
	}
	return c, nil
}

// Connect probes the backing vector store and moves the coordinator into
// the connected state.
func (c *Coordinator) Connect(ctx context.Context) error {
	if _, err := c.store.Stats(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()
	return nil
}

// Close tears the coordinator down. The vector store is closed and every
// subsequent operation fails with ErrNotConnected.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()
	return c.store.Close()
}

func (c *Coordinator) isConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Search answers a query from the local vector store, falling back to live
// web search when the store does not hold enough relevant chunks (or when
// opts.ForceWeb demands it). The call blocks until every internal step,
// including the web search, has completed.
func (c *Coordinator) Search(ctx context.Context, query string, opts SearchOptions) (*Result, error) {
	start := time.Now()
	if !c.isConnected() {
		return nil, ErrNotConnected
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = c.cfg.LocalSearchLimit
	}

	key := cacheKey(query, limit, opts.ForceWeb, opts.Filters)
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			c.logger.Debug("semantic cache hit", zap.String("query", query))
			return cached, nil
		}
	}

	embeddings, err := c.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}

	local, err := c.store.QueryByEmbedding(ctx, embeddings[0], limit, opts.Filters)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	// Best-first by similarity; stores return this order already, the sort
	// just pins the contract.
	sort.SliceStable(local, func(i, j int) bool { return local[i].Score > local[j].Score })

	var webChunks []vectorstore.ScoredChunk
	if opts.ForceWeb || len(local) < c.cfg.FallbackThreshold {
		webChunks = c.searchWeb(ctx, query)
	}

	chunks := make([]vectorstore.ScoredChunk, 0, len(local)+len(webChunks))
	if opts.ForceWeb {
		chunks = append(chunks, webChunks...)
		chunks = append(chunks, local...)
	} else {
		chunks = append(chunks, local...)
		chunks = append(chunks, webChunks...)
	}
	if len(chunks) > limit {
		chunks = chunks[:limit]
	}

	if c.cfg.AutoStoreWebResults && len(webChunks) > 0 {
		c.autoStore(ctx, webChunks)
	}

	result := &Result{
		Chunks:     chunks,
		SearchTime: time.Since(start),
	}
	for _, sc := range chunks {
		if IsWebChunk(sc.Chunk) {
			result.WebResults++
		} else {
			result.LocalResults++
		}
	}
	result.TotalResults = result.LocalResults + result.WebResults

	if c.cache != nil {
		// Concurrent identical queries may both reach this point; the
		// later write simply wins.
		c.cache.Add(key, result)
	}

	c.logger.Debug("semantic search complete",
		zap.String("query", query),
		zap.Int("local", result.LocalResults),
		zap.Int("web", result.WebResults),
		zap.Duration("elapsed", result.SearchTime))

	return result, nil
}

// searchWeb performs the live web fallback and converts the hits into
// web-origin pseudo-chunks. A web failure degrades to local-only results
// rather than failing the search.
func (c *Coordinator) searchWeb(ctx context.Context, query string) []vectorstore.ScoredChunk {
	if c.web == nil {
		return nil
	}

	merged, err := c.web.Search(ctx, query, search.Options{
		MaxResultsPerEngine: c.cfg.WebSearchLimit,
	})
	if err != nil {
		c.logger.Warn("web fallback failed", zap.String("query", query), zap.Error(err))
		return nil
	}

	sources := merged.Sources
	if len(sources) > c.cfg.WebSearchLimit {
		sources = sources[:c.cfg.WebSearchLimit]
	}

	chunks := make([]vectorstore.ScoredChunk, 0, len(sources))
	for _, src := range sources {
		if src.URL == "" {
			continue
		}
		score := *c.cfg.WebResultScore
		if src.Score > 0 {
			score = float32(src.Score)
		}
		chunks = append(chunks, vectorstore.ScoredChunk{
			Chunk: vectorstore.DocumentChunk{
				ID:          vectorstore.ChunkIDForURL(src.URL),
				Content:     src.Content,
				SourceURL:   src.URL,
				SourceTitle: src.Title,
				Metadata:    map[string]string{MetaOrigin: OriginWeb},
			},
			Score: score,
		})
	}
	return chunks
}

// autoStore persists web chunks not yet present in the store (by URL).
// Best-effort: a failure is logged and never fails the search call.
func (c *Coordinator) autoStore(ctx context.Context, webChunks []vectorstore.ScoredChunk) {
	for _, sc := range webChunks {
		chunk := sc.Chunk
		if chunk.Content == "" {
			continue
		}
		exists, err := c.store.HasSourceURL(ctx, chunk.SourceURL)
		if err != nil || exists {
			continue
		}

		embeddings, err := c.embedder.Embed(ctx, []string{chunk.Content})
		if err != nil {
			c.logger.Warn("auto-store embedding failed",
				zap.String("url", chunk.SourceURL), zap.Error(err))
			continue
		}
		chunk.Embedding = embeddings[0]
		chunk.CreatedAt = time.Now()

		if err := c.store.Upsert(ctx, chunk); err != nil {
			c.logger.Warn("auto-store upsert failed",
				zap.String("url", chunk.SourceURL), zap.Error(err))
		}
	}
}

// StoreDocument embeds content and upserts it as a new chunk. The write is
// all-or-nothing: on any failure the chunk is not stored.
func (c *Coordinator) StoreDocument(ctx context.Context, content, sourceURL, sourceTitle string, metadata map[string]string) (*vectorstore.DocumentChunk, error) {
	if !c.isConnected() {
		return nil, ErrNotConnected
	}

	embeddings, err := c.embedder.Embed(ctx, []string{content})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}

	id := uuid.NewString()
	if sourceURL != "" {
		id = vectorstore.ChunkIDForURL(sourceURL)
	}

	chunk := vectorstore.DocumentChunk{
		ID:          id,
		Content:     content,
		SourceURL:   sourceURL,
		SourceTitle: sourceTitle,
		Metadata:    metadata,
		Embedding:   embeddings[0],
		CreatedAt:   time.Now(),
	}
	if err := c.store.Upsert(ctx, chunk); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	return &chunk, nil
}

// Stats returns the store-reported figures unchanged.
func (c *Coordinator) Stats(ctx context.Context) (map[string]any, error) {
	if !c.isConnected() {
		return nil, ErrNotConnected
	}
	return c.store.Stats(ctx)
}

// ClearCache evicts every cached query result. The vector store is not
// touched.
func (c *Coordinator) ClearCache() {
	if c.cache != nil {
		c.cache.Purge()
	}
}
