package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pltanton/wizsearch/internal/security"
)

const defaultMaxBytes = 512 * 1024

// HTTPFetcher retrieves pages with a plain HTTP GET. It cannot run
// JavaScript; use the browser fetcher for pages that need rendering.
type HTTPFetcher struct {
	client    *http.Client
	validator *security.URLValidator
}

// NewHTTPFetcher creates an HTTP fetcher. A nil validator disables the SSRF
// guard, which is only appropriate in tests.
func NewHTTPFetcher(validator *security.URLValidator) *HTTPFetcher {
	return &HTTPFetcher{
		client:    &http.Client{Timeout: 30 * time.Second},
		validator: validator,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string, opts FetchOptions) (*Content, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}
	if f.validator != nil {
		if err := f.validator.Validate(rawURL); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; WizSearch/1.0)")
	if opts.BypassCache {
		req.Header.Set("Cache-Control", "no-cache")
		req.Header.Set("Pragma", "no-cache")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch returned status %d", resp.StatusCode)
	}

	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	isHTML := strings.Contains(resp.Header.Get("Content-Type"), "text/html")
	text := renderContent(string(body), isHTML, opts)

	return &Content{
		URL:    rawURL,
		Format: contentFormat(opts),
		Text:   text,
	}, nil
}

func contentFormat(opts FetchOptions) Format {
	if opts.OnlyText || opts.Format == "" {
		return FormatText
	}
	return opts.Format
}

// renderContent converts a fetched body into the requested format. Markdown
// output keeps the extracted text with heading/link markers; there is no
// full HTML-to-markdown conversion.
func renderContent(body string, isHTML bool, opts FetchOptions) string {
	if !isHTML {
		return body
	}
	if opts.Format == FormatHTML && !opts.OnlyText {
		return body
	}

	text := ExtractText(body)
	if opts.WordCountThreshold > 0 {
		text = dropShortBlocks(text, opts.WordCountThreshold)
	}
	return text
}

// ExtractText strips scripts, styles and tags from an HTML document and
// collapses the remainder into clean lines.
func ExtractText(html string) string {
	for _, tag := range []string{"script", "style", "noscript"} {
		for {
			start := strings.Index(strings.ToLower(html), "<"+tag)
			if start == -1 {
				break
			}
			end := strings.Index(strings.ToLower(html[start:]), "</"+tag+">")
			if end == -1 {
				break
			}
			html = html[:start] + html[start+end+len("</"+tag+">"):]
		}
	}

	text := stripTags(html)

	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

func stripTags(s string) string {
	var result strings.Builder
	inTag := false
	for _, r := range s {
		if r == '<' {
			inTag = true
		} else if r == '>' {
			inTag = false
		} else if !inTag {
			result.WriteRune(r)
		}
	}
	return result.String()
}

func dropShortBlocks(text string, minWords int) string {
	lines := strings.Split(text, "\n")
	var kept []string
	for _, line := range lines {
		if len(strings.Fields(line)) >= minWords {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
