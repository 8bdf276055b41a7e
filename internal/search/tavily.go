package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TavilyEngine queries the Tavily search API. Tavily is the only built-in
// engine that can return a synthesized answer and image URLs alongside the
// ranked sources.
type TavilyEngine struct {
	name    string
	apiKey  string
	baseURL string
	options map[string]any
	client  *http.Client
}

func NewTavilyEngine(config EngineConfig) (Engine, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.tavily.com"
	}

	return &TavilyEngine{
		name:    config.Name,
		apiKey:  config.APIKey,
		baseURL: baseURL,
		options: config.Options,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (e *TavilyEngine) Name() string {
	return e.name
}

func (e *TavilyEngine) Type() string {
	return "tavily"
}

func (e *TavilyEngine) Available() bool {
	return e.apiKey != ""
}

func (e *TavilyEngine) Search(ctx context.Context, query string, opts QueryOptions) (*SearchResponse, error) {
	startTime := time.Now()
	merged := mergedOptions(e.options, opts.Overrides)

	requestBody := map[string]any{
		"api_key":        e.apiKey,
		"query":          query,
		"search_depth":   "basic",
		"include_answer": true,
		"include_images": true,
		"max_results":    opts.MaxResults,
	}
	if depth, ok := stringOption(merged, "search_depth"); ok {
		requestBody["search_depth"] = depth
	}
	if v, ok := boolOption(merged, "include_answer"); ok {
		requestBody["include_answer"] = v
	}
	if v, ok := boolOption(merged, "include_images"); ok {
		requestBody["include_images"] = v
	}
	if v, ok := boolOption(merged, "include_raw_content"); ok {
		requestBody["include_raw_content"] = v
	}
	if domains, ok := stringsOption(merged, "include_domains"); ok {
		requestBody["include_domains"] = domains
	}
	if domains, ok := stringsOption(merged, "exclude_domains"); ok {
		requestBody["exclude_domains"] = domains
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+"/search", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
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
		return nil, fmt.Errorf("tavily returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var apiResponse struct {
		Answer  string   `json:"answer"`
		Images  []string `json:"images"`
		Results []struct {
			Title      string  `json:"title"`
			URL        string  `json:"url"`
			Content    string  `json:"content"`
			Score      float64 `json:"score"`
			RawContent string  `json:"raw_content"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse tavily response: %w", err)
	}

	sources := make([]SearchResult, 0, len(apiResponse.Results))
	for _, r := range apiResponse.Results {
		sources = append(sources, SearchResult{
			URL:        r.URL,
			Title:      r.Title,
			Content:    r.Content,
			Score:      r.Score,
			RawContent: r.RawContent,
		})
	}

	return &SearchResponse{
		Query:        query,
		Answer:       apiResponse.Answer,
		Images:       apiResponse.Images,
		Sources:      sources,
		ResponseTime: time.Since(startTime),
		Raw:          body,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
