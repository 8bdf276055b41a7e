package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pltanton/wizsearch/internal/security"
)

const samplePage = `<html>
<head>
  <title>Sample</title>
  <style>body { color: red; }</style>
  <script>console.log("tracking");</script>
</head>
<body>
  <h1>Welcome to the sample page</h1>
  <p>This paragraph carries the actual content of the page.</p>
  <noscript>Enable JavaScript.</noscript>
  <span>ok</span>
</body>
</html>`

func serveHTML(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestHTTPFetcherExtractsText(t *testing.T) {
	server := serveHTML(t, samplePage)
	fetcher := NewHTTPFetcher(nil)

	content, err := fetcher.Fetch(context.Background(), server.URL, FetchOptions{})
	require.NoError(t, err)

	assert.Equal(t, FormatText, content.Format)
	assert.Contains(t, content.Text, "Welcome to the sample page")
	assert.Contains(t, content.Text, "actual content of the page")
	assert.NotContains(t, content.Text, "console.log", "scripts are stripped")
	assert.NotContains(t, content.Text, "color: red", "styles are stripped")
	assert.NotContains(t, content.Text, "Enable JavaScript", "noscript is stripped")
	assert.NotContains(t, content.Text, "<h1>")
}

func TestHTTPFetcherRawHTML(t *testing.T) {
	server := serveHTML(t, samplePage)
	fetcher := NewHTTPFetcher(nil)

	content, err := fetcher.Fetch(context.Background(), server.URL, FetchOptions{Format: FormatHTML})
	require.NoError(t, err)

	assert.Equal(t, FormatHTML, content.Format)
	assert.Contains(t, content.Text, "<h1>Welcome to the sample page</h1>")
}

func TestHTTPFetcherOnlyTextOverridesFormat(t *testing.T) {
	server := serveHTML(t, samplePage)
	fetcher := NewHTTPFetcher(nil)

	content, err := fetcher.Fetch(context.Background(), server.URL, FetchOptions{Format: FormatHTML, OnlyText: true})
	require.NoError(t, err)

	assert.Equal(t, FormatText, content.Format)
	assert.NotContains(t, content.Text, "<h1>")
}

func TestHTTPFetcherWordCountThreshold(t *testing.T) {
	server := serveHTML(t, samplePage)
	fetcher := NewHTTPFetcher(nil)

	content, err := fetcher.Fetch(context.Background(), server.URL, FetchOptions{WordCountThreshold: 4})
	require.NoError(t, err)

	assert.Contains(t, content.Text, "actual content of the page")
	assert.NotContains(t, content.Text, "ok", "short blocks are dropped")
}

func TestHTTPFetcherNonHTMLPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"key": "value"}`))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(nil)
	content, err := fetcher.Fetch(context.Background(), server.URL, FetchOptions{})
	require.NoError(t, err)
	assert.Equal(t, `{"key": "value"}`, content.Text)
}

func TestHTTPFetcherMaxBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(strings.Repeat("x", 1000)))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(nil)
	content, err := fetcher.Fetch(context.Background(), server.URL, FetchOptions{MaxBytes: 100})
	require.NoError(t, err)
	assert.Len(t, content.Text, 100)
}

func TestHTTPFetcherStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(nil)
	_, err := fetcher.Fetch(context.Background(), server.URL, FetchOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestHTTPFetcherSSRFGuard(t *testing.T) {
	fetcher := NewHTTPFetcher(security.NewURLValidator())

	_, err := fetcher.Fetch(context.Background(), "http://127.0.0.1:9200/_cat/indices", FetchOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ssrf")

	// The guard can be relaxed for deployments on a private network.
	open := NewHTTPFetcher(security.NewURLValidator(security.AllowPrivate()))
	server := serveHTML(t, samplePage)
	_, err = open.Fetch(context.Background(), server.URL, FetchOptions{})
	assert.NoError(t, err)
}

func TestExtractText(t *testing.T) {
	text := ExtractText("<div>first</div>\n<p>second line here</p><script>bad()</script>")
	assert.Equal(t, "first\nsecond line here", text)
}

func TestDropShortBlocks(t *testing.T) {
	in := "one two three four\nshort\nanother long enough line here"
	out := dropShortBlocks(in, 4)
	assert.Equal(t, "one two three four\nanother long enough line here", out)
}
