package search

import "encoding/json"

// MergeSources interleaves the per-engine source lists round-robin, in the
// fixed order outcomes were dispatched, dropping any URL that has already
// been emitted (exact case-sensitive match, no normalization). On each
// engine's turn its cursor advances past already seen URLs so a duplicate
// never costs the engine its slot in the round. limit <= 0 means unlimited.
//
// The result is deterministic: the same outcomes in the same order always
// produce the same sequence, regardless of network timing during dispatch.
func MergeSources(outcomes []EngineOutcome, limit int) []SearchResult {
	type cursor struct {
		sources []SearchResult
		pos     int
	}

	live := make([]*cursor, 0, len(outcomes))
	total := 0
	for _, out := range outcomes {
		if out.Response == nil {
			continue
		}
		live = append(live, &cursor{sources: out.Response.Sources})
		total += len(out.Response.Sources)
	}

	seen := make(map[string]struct{}, total)
	merged := make([]SearchResult, 0, total)

	remaining := len(live)
	for remaining > 0 {
		if limit > 0 && len(merged) >= limit {
			break
		}
		remaining = 0
		for _, c := range live {
			// Skip duplicates without consuming this engine's turn.
			for c.pos < len(c.sources) {
				if _, dup := seen[c.sources[c.pos].URL]; !dup {
					break
				}
				c.pos++
			}
			if c.pos >= len(c.sources) {
				continue
			}
			item := c.sources[c.pos]
			c.pos++
			seen[item.URL] = struct{}{}
			merged = append(merged, item)
			if limit > 0 && len(merged) >= limit {
				return merged
			}
			if c.pos < len(c.sources) {
				remaining++
			}
		}
	}

	return merged
}

// mergeOutcomes assembles the full MergedResult from the collected outcomes.
// Answer and Images are not merged: each is taken from the first engine, in
// dispatch order, whose response carries a non-empty value.
func mergeOutcomes(query string, outcomes []EngineOutcome, limit int) *MergedResult {
	merged := &MergedResult{
		Query:   query,
		Sources: MergeSources(outcomes, limit),
		Raw:     make(map[string]json.RawMessage, len(outcomes)),
	}
	for _, out := range outcomes {
		if out.Response == nil {
			continue
		}
		if merged.Answer == "" && out.Response.Answer != "" {
			merged.Answer = out.Response.Answer
		}
		if len(merged.Images) == 0 && len(out.Response.Images) > 0 {
			merged.Images = out.Response.Images
		}
		if len(out.Response.Raw) > 0 {
			merged.Raw[out.Engine] = out.Response.Raw
		}
	}
	return merged
}
