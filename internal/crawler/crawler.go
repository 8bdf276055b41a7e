// Package crawler provides the page-content fetch capability consumed by
// callers that want full text behind a search hit. Two implementations
// exist: a plain HTTP fetcher and a browser-rendered one for pages that
// only materialize under JavaScript.
package crawler

import "context"

// Format selects how fetched content is returned.
type Format string

const (
	FormatText     Format = "text"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// FetchOptions tunes a single fetch.
type FetchOptions struct {
	Format Format
	// WordCountThreshold drops text blocks shorter than this many words.
	WordCountThreshold int
	// OnlyText strips all markup regardless of Format.
	OnlyText bool
	// BypassCache adds cache-busting headers to the request.
	BypassCache bool
	// WaitFor is a CSS selector the browser fetcher waits for before
	// reading the page. Ignored by the HTTP fetcher.
	WaitFor string
	// Screenshot captures a PNG of the rendered page. Browser fetcher
	// only.
	Screenshot bool
	// MaxBytes caps the downloaded body size. Zero means the fetcher
	// default.
	MaxBytes int64
}

// Content is the result of one fetch.
type Content struct {
	URL        string
	Format     Format
	Text       string
	Screenshot []byte
}

// Fetcher is the crawl capability.
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts FetchOptions) (*Content, error)
}
