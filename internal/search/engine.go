package search

import "context"

// Engine is the capability every search backend implements. Implementations
// must be safe for concurrent use and must surface failures as errors rather
// than partial results.
type Engine interface {
	Name() string
	Type() string
	Search(ctx context.Context, query string, opts QueryOptions) (*SearchResponse, error)
	// Available reports whether the engine can actually be called in the
	// current environment (API key present, base URL configured, ...).
	Available() bool
}

// QueryOptions is passed verbatim to every engine on a search call.
type QueryOptions struct {
	// MaxResults caps how many sources the engine should return.
	MaxResults int
	// Overrides carries engine-specific options (e.g. tavily's
	// "search_depth"). Engines pick the keys they understand and ignore
	// the rest.
	Overrides map[string]any
}

// EngineFactory builds an engine from its configuration.
type EngineFactory func(cfg EngineConfig) (Engine, error)

// EngineConfig is the per-engine configuration shape.
type EngineConfig struct {
	Name    string         `yaml:"name"`
	Type    string         `yaml:"type"`
	APIKey  string         `yaml:"api_key,omitempty"`
	BaseURL string         `yaml:"base_url,omitempty"`
	Options map[string]any `yaml:"options,omitempty"`
}

// ConfigSchema declares what an engine's configuration must and may contain.
// A nil Options slice means any option keys are accepted.
type ConfigSchema struct {
	RequiresAPIKey  bool
	RequiresBaseURL bool
	Options         []string
}

// Validate checks cfg against the schema.
func (s ConfigSchema) Validate(cfg EngineConfig) error {
	if s.RequiresAPIKey && cfg.APIKey == "" {
		return &ConfigError{Engine: cfg.Name, Reason: "api_key is required"}
	}
	if s.RequiresBaseURL && cfg.BaseURL == "" {
		return &ConfigError{Engine: cfg.Name, Reason: "base_url is required"}
	}
	if s.Options != nil {
		known := make(map[string]struct{}, len(s.Options))
		for _, k := range s.Options {
			known[k] = struct{}{}
		}
		for k := range cfg.Options {
			if _, ok := known[k]; !ok {
				return &ConfigError{Engine: cfg.Name, Reason: "unrecognized option " + k}
			}
		}
	}
	return nil
}
