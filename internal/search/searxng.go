package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SearXNGEngine queries a self-hosted SearXNG metasearch instance over its
// JSON API. The instance must have the json output format enabled.
type SearXNGEngine struct {
	name    string
	baseURL string
	options map[string]any
	client  *http.Client
}

func NewSearXNGEngine(config EngineConfig) (Engine, error) {
	return &SearXNGEngine{
		name:    config.Name,
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		options: config.Options,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (e *SearXNGEngine) Name() string {
	return e.name
}

func (e *SearXNGEngine) Type() string {
	return "searxng"
}

func (e *SearXNGEngine) Available() bool {
	return e.baseURL != ""
}

func (e *SearXNGEngine) Search(ctx context.Context, query string, opts QueryOptions) (*SearchResponse, error) {
	startTime := time.Now()
	merged := mergedOptions(e.options, opts.Overrides)

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	if v, ok := stringOption(merged, "categories"); ok {
		params.Set("categories", v)
	}
	if v, ok := stringOption(merged, "language"); ok {
		params.Set("language", v)
	}
	if v, ok := stringOption(merged, "time_range"); ok {
		params.Set("time_range", v)
	}
	if v, ok := intOption(merged, "safesearch"); ok {
		params.Set("safesearch", strconv.Itoa(v))
	}

	req, err := http.NewRequestWithContext(ctx, "GET", e.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
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
		return nil, fmt.Errorf("searxng returned status %d", resp.StatusCode)
	}

	var apiResponse struct {
		Answers []string `json:"answers"`
		Results []struct {
			Title   string  `json:"title"`
			URL     string  `json:"url"`
			Content string  `json:"content"`
			Score   float64 `json:"score"`
			ImgSrc  string  `json:"img_src"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse searxng response: %w", err)
	}

	var images []string
	sources := make([]SearchResult, 0, len(apiResponse.Results))
	for _, r := range apiResponse.Results {
		if opts.MaxResults > 0 && len(sources) >= opts.MaxResults {
			break
		}
		if r.ImgSrc != "" {
			images = append(images, r.ImgSrc)
		}
		sources = append(sources, SearchResult{
			URL:     r.URL,
			Title:   r.Title,
			Content: r.Content,
			Score:   r.Score,
		})
	}

	var answer string
	if len(apiResponse.Answers) > 0 {
		answer = apiResponse.Answers[0]
	}

	return &SearchResponse{
		Query:        query,
		Answer:       answer,
		Images:       images,
		Sources:      sources,
		ResponseTime: time.Since(startTime),
		Raw:          body,
	}, nil
}
