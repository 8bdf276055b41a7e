package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// BraveEngine queries the Brave Web Search API.
type BraveEngine struct {
	name    string
	apiKey  string
	baseURL string
	options map[string]any
	client  *http.Client
}

func NewBraveEngine(config EngineConfig) (Engine, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.search.brave.com/res/v1"
	}

	return &BraveEngine{
		name:    config.Name,
		apiKey:  config.APIKey,
		baseURL: baseURL,
		options: config.Options,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (e *BraveEngine) Name() string {
	return e.name
}

func (e *BraveEngine) Type() string {
	return "brave"
}

func (e *BraveEngine) Available() bool {
	return e.apiKey != ""
}

func (e *BraveEngine) Search(ctx context.Context, query string, opts QueryOptions) (*SearchResponse, error) {
	startTime := time.Now()
	merged := mergedOptions(e.options, opts.Overrides)

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", fmt.Sprintf("%d", opts.MaxResults))
	if v, ok := stringOption(merged, "country"); ok {
		params.Set("country", v)
	}
	if v, ok := stringOption(merged, "search_lang"); ok {
		params.Set("search_lang", v)
	}
	if v, ok := stringOption(merged, "freshness"); ok {
		params.Set("freshness", v)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", e.baseURL+"/web/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", e.apiKey)
	req.Header.Set("User-Agent", "WizSearch/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brave returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var apiResponse struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
				Thumbnail   struct {
					Src string `json:"src"`
				} `json:"thumbnail"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse brave response: %w", err)
	}

	var images []string
	sources := make([]SearchResult, 0, len(apiResponse.Web.Results))
	for _, r := range apiResponse.Web.Results {
		if opts.MaxResults > 0 && len(sources) >= opts.MaxResults {
			break
		}
		if r.Thumbnail.Src != "" {
			images = append(images, r.Thumbnail.Src)
		}
		sources = append(sources, SearchResult{
			URL:     r.URL,
			Title:   r.Title,
			Content: r.Description,
		})
	}

	return &SearchResponse{
		Query:        query,
		Images:       images,
		Sources:      sources,
		ResponseTime: time.Since(startTime),
		Raw:          body,
	}, nil
}
