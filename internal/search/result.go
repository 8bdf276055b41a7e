package search

import (
	"encoding/json"
	"time"
)

// SearchResult is a single item returned by an engine. Within a response the
// slice order reflects the engine's own relevance ranking, best first;
// adapters must never reorder it.
type SearchResult struct {
	URL        string  `json:"url"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Score      float64 `json:"score,omitempty"`
	RawContent string  `json:"raw_content,omitempty"`
}

// SearchResponse is the normalized output of a single engine call.
type SearchResponse struct {
	Query        string          `json:"query"`
	Answer       string          `json:"answer,omitempty"`
	Images       []string        `json:"images,omitempty"`
	Sources      []SearchResult  `json:"sources"`
	ResponseTime time.Duration   `json:"response_time"`
	Raw          json.RawMessage `json:"-"`
}

// EngineOutcome records one engine's fate during a fan-out. It is created
// per dispatch, consumed by the merger and then discarded.
type EngineOutcome struct {
	Engine   string
	Response *SearchResponse
	Err      error
	Elapsed  time.Duration
}

// MergedResult is the unified output of a multi-engine search. Sources is
// the fairness-merged, de-duplicated union across engines; Raw keeps every
// engine's raw payload for diagnostics; ResponseTime is the wall-clock span
// of the whole orchestration, not a sum of engine latencies.
type MergedResult struct {
	Query        string                     `json:"query"`
	Answer       string                     `json:"answer,omitempty"`
	Images       []string                   `json:"images,omitempty"`
	Sources      []SearchResult             `json:"sources"`
	ResponseTime time.Duration              `json:"response_time"`
	Raw          map[string]json.RawMessage `json:"-"`
}
