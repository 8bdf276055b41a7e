package semantic

import (
	"time"

	"github.com/pltanton/wizsearch/internal/vectorstore"
)

// metadata keys tagged onto chunks synthesized from live web results.
const (
	MetaOrigin    = "origin"
	OriginWeb     = "web"
	MetaWebEngine = "web_engine"
)

// Result is the outcome of one semantic search. The invariant
// TotalResults == LocalResults + WebResults == len(Chunks) holds unless the
// chunk list was truncated by the caller's limit.
type Result struct {
	TotalResults int
	LocalResults int
	WebResults   int
	Chunks       []vectorstore.ScoredChunk
	SearchTime   time.Duration
}

// SearchOptions controls one semantic search call.
type SearchOptions struct {
	// Limit caps the total number of returned chunks.
	Limit int
	// ForceWeb always performs a live web search and ranks the web chunks
	// ahead of the local ones.
	ForceWeb bool
	// Filters restricts the local vector store query by chunk metadata.
	Filters map[string]string
}

// IsWebChunk reports whether a chunk was synthesized from a live web result
// rather than read from the local store.
func IsWebChunk(chunk vectorstore.DocumentChunk) bool {
	return chunk.Metadata[MetaOrigin] == OriginWeb
}
