package semantic

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// cacheKey derives a content-addressed key for a query and its options.
// Filters are folded in over a sorted-key representation so that
// semantically equal but differently ordered filter maps share one entry.
// forceWeb is part of the key: a forced-web call must never replay a
// cached local-first result, and vice versa.
func cacheKey(query string, limit int, forceWeb bool, filters map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\x00%d\x00%t", query, limit, forceWeb)

	if len(filters) > 0 {
		keys := make([]string, 0, len(filters))
		for k := range filters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "\x00%s=%s", k, filters[k])
		}
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
