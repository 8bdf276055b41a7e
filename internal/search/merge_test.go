package search

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outcomeWithSources(engine string, urls ...string) EngineOutcome {
	sources := make([]SearchResult, len(urls))
	for i, u := range urls {
		sources[i] = SearchResult{URL: u, Title: "title " + u, Content: "content from " + engine}
	}
	return EngineOutcome{
		Engine:   engine,
		Response: &SearchResponse{Sources: sources},
	}
}

func urls(results []SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.URL
	}
	return out
}

func TestMergeSourcesRoundRobin(t *testing.T) {
	outcomes := []EngineOutcome{
		outcomeWithSources("a", "a1", "a2", "a3"),
		outcomeWithSources("b", "b1", "b2"),
	}

	merged := MergeSources(outcomes, 0)
	assert.Equal(t, []string{"a1", "b1", "a2", "b2", "a3"}, urls(merged))
}

func TestMergeSourcesDeduplication(t *testing.T) {
	// ddg [u1,u2,u3] + tavily [u2,u4]: only one copy of u2 survives and
	// ddg's u3 still precedes tavily's u4.
	outcomes := []EngineOutcome{
		outcomeWithSources("ddg", "u1", "u2", "u3"),
		outcomeWithSources("tavily", "u2", "u4"),
	}

	merged := MergeSources(outcomes, 0)
	assert.Equal(t, []string{"u1", "u2", "u3", "u4"}, urls(merged))
}

func TestMergeSourcesNoDuplicateURLs(t *testing.T) {
	outcomes := []EngineOutcome{
		outcomeWithSources("a", "u1", "u2", "u3", "u4"),
		outcomeWithSources("b", "u2", "u1", "u5"),
		outcomeWithSources("c", "u5", "u5", "u6"),
	}

	merged := MergeSources(outcomes, 0)
	seen := make(map[string]bool)
	for _, r := range merged {
		assert.False(t, seen[r.URL], "duplicate url %s", r.URL)
		seen[r.URL] = true
	}
	assert.Len(t, merged, 6)
}

func TestMergeSourcesCaseSensitiveURLs(t *testing.T) {
	outcomes := []EngineOutcome{
		outcomeWithSources("a", "http://example.com/A"),
		outcomeWithSources("b", "http://example.com/a"),
	}

	merged := MergeSources(outcomes, 0)
	assert.Len(t, merged, 2, "URL comparison must be case-sensitive")
}

func TestMergeSourcesDeterministic(t *testing.T) {
	outcomes := []EngineOutcome{
		outcomeWithSources("a", "u1", "u3", "u5"),
		outcomeWithSources("b", "u2", "u3", "u6"),
		outcomeWithSources("c", "u1", "u7"),
	}

	first := MergeSources(outcomes, 0)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, MergeSources(outcomes, 0))
	}
}

func TestMergeSourcesFirstSeenWins(t *testing.T) {
	a := outcomeWithSources("a", "shared")
	b := outcomeWithSources("b", "shared")
	b.Response.Sources[0].Content = "b's copy"

	merged := MergeSources([]EngineOutcome{a, b}, 0)
	require.Len(t, merged, 1)
	assert.Equal(t, "content from a", merged[0].Content)
}

func TestMergeSourcesLimit(t *testing.T) {
	outcomes := []EngineOutcome{
		outcomeWithSources("a", "a1", "a2", "a3"),
		outcomeWithSources("b", "b1", "b2", "b3"),
	}

	merged := MergeSources(outcomes, 3)
	assert.Equal(t, []string{"a1", "b1", "a2"}, urls(merged))
}

func TestMergeSourcesSkipsFailedOutcomes(t *testing.T) {
	outcomes := []EngineOutcome{
		{Engine: "dead", Err: ErrEngineTimeout},
		outcomeWithSources("alive", "u1"),
	}

	merged := MergeSources(outcomes, 0)
	assert.Equal(t, []string{"u1"}, urls(merged))
}

func TestMergeSourcesEmpty(t *testing.T) {
	assert.Empty(t, MergeSources(nil, 0))
	assert.Empty(t, MergeSources([]EngineOutcome{{Engine: "dead", Err: ErrEngineTimeout}}, 0))
}

func TestMergeOutcomesAnswerAndImages(t *testing.T) {
	first := outcomeWithSources("first", "u1")
	second := outcomeWithSources("second", "u2")
	second.Response.Answer = "second answer"
	second.Response.Images = []string{"img2"}
	third := outcomeWithSources("third", "u3")
	third.Response.Answer = "third answer"
	third.Response.Images = []string{"img3"}

	merged := mergeOutcomes("q", []EngineOutcome{first, second, third}, 0)
	assert.Equal(t, "second answer", merged.Answer, "first non-empty answer in engine order")
	assert.Equal(t, []string{"img2"}, merged.Images)
}

func TestMergeOutcomesRawPayloads(t *testing.T) {
	a := outcomeWithSources("a", "u1")
	a.Response.Raw = json.RawMessage(`{"engine":"a"}`)
	b := outcomeWithSources("b", "u2")
	b.Response.Raw = json.RawMessage(`{"engine":"b"}`)

	merged := mergeOutcomes("q", []EngineOutcome{a, b}, 0)
	require.Len(t, merged.Raw, 2)
	assert.JSONEq(t, `{"engine":"a"}`, string(merged.Raw["a"]))
	assert.JSONEq(t, `{"engine":"b"}`, string(merged.Raw["b"]))
}
