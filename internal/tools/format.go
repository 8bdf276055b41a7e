package tools

import (
	"fmt"
	"strings"

	"github.com/pltanton/wizsearch/internal/search"
	"github.com/pltanton/wizsearch/internal/semantic"
)

// FormatMergedResult renders a merged search result as readable text.
func FormatMergedResult(result *search.MergedResult) string {
	if result == nil || len(result.Sources) == 0 {
		return "No search results found"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Search results for %q (%d sources, %v)\n\n",
		result.Query, len(result.Sources), result.ResponseTime.Round(1e6)))

	if result.Answer != "" {
		sb.WriteString("Answer: " + result.Answer + "\n\n")
	}

	for i, src := range result.Sources {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, src.Title))
		sb.WriteString("   " + src.URL + "\n")
		if src.Content != "" {
			sb.WriteString("   " + snippet(src.Content, 200) + "\n")
		}
		if src.Score > 0 {
			sb.WriteString(fmt.Sprintf("   score: %.2f\n", src.Score))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatSemanticResult renders a semantic search result as readable text.
func FormatSemanticResult(query string, result *semantic.Result) string {
	if result == nil || result.TotalResults == 0 {
		return "No results found"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Results for %q: %d total (%d local, %d web, %v)\n\n",
		query, result.TotalResults, result.LocalResults, result.WebResults,
		result.SearchTime.Round(1e6)))

	for i, sc := range result.Chunks {
		origin := "local"
		if semantic.IsWebChunk(sc.Chunk) {
			origin = "web"
		}
		sb.WriteString(fmt.Sprintf("%d. [%s, %.2f] %s\n", i+1, origin, sc.Score, sc.Chunk.SourceTitle))
		if sc.Chunk.SourceURL != "" {
			sb.WriteString("   " + sc.Chunk.SourceURL + "\n")
		}
		if sc.Chunk.Content != "" {
			sb.WriteString("   " + snippet(sc.Chunk.Content, 200) + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func snippet(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
