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

// CustomHTTPEngine forwards a query to a user-operated endpoint speaking the
// wizsearch JSON contract: POST {base_url} with {"query","max_results",...}
// and a SearchResponse-shaped reply. It lets deployments plug in private
// engines without registering a dedicated adapter.
type CustomHTTPEngine struct {
	name    string
	apiKey  string
	baseURL string
	options map[string]any
	client  *http.Client
}

func NewCustomHTTPEngine(config EngineConfig) (Engine, error) {
	return &CustomHTTPEngine{
		name:    config.Name,
		apiKey:  config.APIKey,
		baseURL: config.BaseURL,
		options: config.Options,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (e *CustomHTTPEngine) Name() string {
	return e.name
}

func (e *CustomHTTPEngine) Type() string {
	return "custom_http"
}

func (e *CustomHTTPEngine) Available() bool {
	return e.baseURL != ""
}

func (e *CustomHTTPEngine) Search(ctx context.Context, query string, opts QueryOptions) (*SearchResponse, error) {
	startTime := time.Now()

	requestBody := map[string]any{
		"query":       query,
		"max_results": opts.MaxResults,
	}
	for k, v := range mergedOptions(e.options, opts.Overrides) {
		requestBody[k] = v
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "WizSearch/1.0")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

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
		return nil, fmt.Errorf("custom engine returned status %d", resp.StatusCode)
	}

	var apiResponse struct {
		Answer  string   `json:"answer"`
		Images  []string `json:"images"`
		Sources []struct {
			URL     string  `json:"url"`
			Title   string  `json:"title"`
			Content string  `json:"content"`
			Score   float64 `json:"score"`
		} `json:"sources"`
	}
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse custom engine response: %w", err)
	}

	sources := make([]SearchResult, 0, len(apiResponse.Sources))
	for _, r := range apiResponse.Sources {
		sources = append(sources, SearchResult{
			URL:     r.URL,
			Title:   r.Title,
			Content: r.Content,
			Score:   r.Score,
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
