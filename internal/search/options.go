package search

// Override lookup helpers. Engine configs and per-call overrides arrive as
// loosely typed maps (yaml / MCP arguments), so values are coerced where a
// lossless conversion exists.

func stringOption(m map[string]any, key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m[key].(string)
	return v, ok
}

func boolOption(m map[string]any, key string) (bool, bool) {
	if m == nil {
		return false, false
	}
	v, ok := m[key].(bool)
	return v, ok
}

func intOption(m map[string]any, key string) (int, bool) {
	if m == nil {
		return 0, false
	}
	switch v := m[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}

func stringsOption(m map[string]any, key string) ([]string, bool) {
	if m == nil {
		return nil, false
	}
	switch v := m[key].(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// mergedOptions overlays per-call overrides on top of the engine's
// configured options. Neither input map is mutated.
func mergedOptions(configured, overrides map[string]any) map[string]any {
	if len(configured) == 0 {
		return overrides
	}
	if len(overrides) == 0 {
		return configured
	}
	out := make(map[string]any, len(configured)+len(overrides))
	for k, v := range configured {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
