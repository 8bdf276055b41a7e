// Package tools exposes the search stack as MCP tools. Handlers hold their
// collaborators by handle; there is no package-level state.
package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pltanton/wizsearch/internal/crawler"
	"github.com/pltanton/wizsearch/internal/search"
	"github.com/pltanton/wizsearch/internal/semantic"
)

// Toolset bundles the handlers behind the MCP tool surface.
type Toolset struct {
	orchestrator *search.Orchestrator
	coordinator  *semantic.Coordinator
	fetcher      crawler.Fetcher
}

// NewToolset creates the tool handlers. coordinator and fetcher may be nil;
// the corresponding tools are then not registered.
func NewToolset(orchestrator *search.Orchestrator, coordinator *semantic.Coordinator, fetcher crawler.Fetcher) *Toolset {
	return &Toolset{
		orchestrator: orchestrator,
		coordinator:  coordinator,
		fetcher:      fetcher,
	}
}

// Register adds every applicable tool to the MCP server.
func (t *Toolset) Register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("web_search",
		mcp.WithDescription("Search the web across multiple engines and return one merged, de-duplicated result list"),
		mcp.WithString("query", mcp.Required(), mcp.Description("The search query")),
		mcp.WithNumber("limit", mcp.Description("Maximum results per engine (default 5)")),
	), t.WebSearch)

	if t.coordinator != nil {
		s.AddTool(mcp.NewTool("semantic_search",
			mcp.WithDescription("Search the local knowledge base, falling back to live web search when it holds too little"),
			mcp.WithString("query", mcp.Required(), mcp.Description("The search query")),
			mcp.WithNumber("limit", mcp.Description("Maximum chunks to return")),
			mcp.WithBoolean("force_web", mcp.Description("Always perform a live web search and rank its hits first")),
		), t.SemanticSearch)
	}

	if t.fetcher != nil {
		s.AddTool(mcp.NewTool("web_fetch",
			mcp.WithDescription("Fetch a web page and return its extracted text"),
			mcp.WithString("url", mcp.Required(), mcp.Description("The page URL")),
		), t.WebFetch)
	}
}

func (t *Toolset) WebSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, ok := req.Params.Arguments["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	limit := 5
	if l, ok := req.Params.Arguments["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	result, err := t.orchestrator.Search(ctx, query, search.Options{
		MaxResultsPerEngine: limit,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	return mcp.NewToolResultText(FormatMergedResult(result)), nil
}

func (t *Toolset) SemanticSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, ok := req.Params.Arguments["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	opts := semantic.SearchOptions{}
	if l, ok := req.Params.Arguments["limit"].(float64); ok && l > 0 {
		opts.Limit = int(l)
	}
	if f, ok := req.Params.Arguments["force_web"].(bool); ok {
		opts.ForceWeb = f
	}

	result, err := t.coordinator.Search(ctx, query, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("semantic search failed: %v", err)), nil
	}

	return mcp.NewToolResultText(FormatSemanticResult(query, result)), nil
}

func (t *Toolset) WebFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, ok := req.Params.Arguments["url"].(string)
	if !ok || url == "" {
		return mcp.NewToolResultError("url is required"), nil
	}

	fctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	content, err := t.fetcher.Fetch(fctx, url, crawler.FetchOptions{OnlyText: true})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetch failed: %v", err)), nil
	}

	text := content.Text
	if len(text) > 10000 {
		text = text[:10000] + "\n... (truncated)"
	}
	return mcp.NewToolResultText(text), nil
}
