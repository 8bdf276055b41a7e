package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomHTTPSearch(t *testing.T) {
	var gotAuth string
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"answer": "yes",
			"images": ["https://example.com/img.png"],
			"sources": [
				{"url": "https://example.com/a", "title": "A", "content": "aaa", "score": 0.8},
				{"url": "https://example.com/b", "title": "B", "content": "bbb"}
			]
		}`))
	}))
	defer server.Close()

	eng, err := NewCustomHTTPEngine(EngineConfig{
		Name:    "mine",
		APIKey:  "secret",
		BaseURL: server.URL,
		Options: map[string]any{"index": "docs"},
	})
	require.NoError(t, err)
	require.True(t, eng.Available())

	resp, err := eng.Search(context.Background(), "anything", QueryOptions{
		MaxResults: 3,
		Overrides:  map[string]any{"index": "wiki"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "anything", captured["query"])
	assert.EqualValues(t, 3, captured["max_results"])
	assert.Equal(t, "wiki", captured["index"], "per-query override wins over engine config")

	assert.Equal(t, "yes", resp.Answer)
	assert.Equal(t, []string{"https://example.com/img.png"}, resp.Images)
	require.Len(t, resp.Sources, 2)
	assert.Equal(t, "https://example.com/a", resp.Sources[0].URL)
	assert.InDelta(t, 0.8, resp.Sources[0].Score, 1e-9)
	assert.NotEmpty(t, resp.Raw)
}

func TestCustomHTTPSearchNoAuthHeaderWithoutKey(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"sources": []}`))
	}))
	defer server.Close()

	eng, err := NewCustomHTTPEngine(EngineConfig{Name: "mine", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = eng.Search(context.Background(), "q", QueryOptions{MaxResults: 1})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestCustomHTTPSearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	eng, err := NewCustomHTTPEngine(EngineConfig{Name: "mine", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = eng.Search(context.Background(), "q", QueryOptions{MaxResults: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestCustomHTTPUnavailableWithoutBaseURL(t *testing.T) {
	eng, err := NewCustomHTTPEngine(EngineConfig{Name: "mine"})
	require.NoError(t, err)
	assert.False(t, eng.Available())
}
