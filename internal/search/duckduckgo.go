package search

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// DuckDuckGoEngine scrapes the DuckDuckGo HTML endpoint. It needs no API
// key, which makes it the engine of last resort when nothing else is
// configured.
type DuckDuckGoEngine struct {
	name    string
	baseURL string
	options map[string]any
	client  *http.Client
}

var (
	ddgResultRe  = regexp.MustCompile(`(?s)<a[^>]+class="result__a"[^>]+href="([^"]+)"[^>]*>(.*?)</a>`)
	ddgSnippetRe = regexp.MustCompile(`(?s)<a[^>]+class="result__snippet"[^>]*>(.*?)</a>`)
	tagRe        = regexp.MustCompile(`<[^>]*>`)
)

func NewDuckDuckGoEngine(config EngineConfig) (Engine, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://html.duckduckgo.com/html/"
	}

	return &DuckDuckGoEngine{
		name:    config.Name,
		baseURL: baseURL,
		options: config.Options,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (e *DuckDuckGoEngine) Name() string {
	return e.name
}

func (e *DuckDuckGoEngine) Type() string {
	return "duckduckgo"
}

func (e *DuckDuckGoEngine) Available() bool {
	return true
}

func (e *DuckDuckGoEngine) Search(ctx context.Context, query string, opts QueryOptions) (*SearchResponse, error) {
	startTime := time.Now()
	merged := mergedOptions(e.options, opts.Overrides)

	form := url.Values{}
	form.Set("q", query)
	if region, ok := stringOption(merged, "region"); ok {
		form.Set("kl", region)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; WizSearch/1.0)")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo returned status %d", resp.StatusCode)
	}

	sources := parseDDGResults(string(body), opts.MaxResults)

	return &SearchResponse{
		Query:        query,
		Sources:      sources,
		ResponseTime: time.Since(startTime),
		Raw:          body,
	}, nil
}

func parseDDGResults(page string, limit int) []SearchResult {
	links := ddgResultRe.FindAllStringSubmatch(page, -1)
	snippets := ddgSnippetRe.FindAllStringSubmatch(page, -1)

	sources := make([]SearchResult, 0, len(links))
	for i, m := range links {
		if limit > 0 && len(sources) >= limit {
			break
		}
		target := decodeDDGRedirect(m[1])
		if target == "" {
			continue
		}
		item := SearchResult{
			URL:   target,
			Title: cleanHTMLText(m[2]),
		}
		if i < len(snippets) {
			item.Content = cleanHTMLText(snippets[i][1])
		}
		sources = append(sources, item)
	}
	return sources
}

// decodeDDGRedirect unwraps the uddg redirect links DuckDuckGo wraps
// results in.
func decodeDDGRedirect(href string) string {
	href = html.UnescapeString(href)
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" {
		return ""
	}
	return href
}

func cleanHTMLText(s string) string {
	s = tagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}
