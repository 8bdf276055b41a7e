package search

import (
	"fmt"
	"sync"
)

type registration struct {
	factory EngineFactory
	schema  ConfigSchema
}

// Registry maps engine type names to factories and their configuration
// schemas. It holds no ambient global state; callers construct one and pass
// it by handle.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registration
}

// NewRegistry creates a registry pre-populated with the built-in engines.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]registration)}

	r.mustRegister("tavily", NewTavilyEngine, ConfigSchema{
		RequiresAPIKey: true,
		Options: []string{
			"search_depth", "include_domains", "exclude_domains",
			"include_answer", "include_images", "include_raw_content",
		},
	})
	r.mustRegister("searxng", NewSearXNGEngine, ConfigSchema{
		RequiresBaseURL: true,
		Options:         []string{"categories", "language", "time_range", "safesearch"},
	})
	r.mustRegister("duckduckgo", NewDuckDuckGoEngine, ConfigSchema{
		Options: []string{"region"},
	})
	r.mustRegister("brave", NewBraveEngine, ConfigSchema{
		RequiresAPIKey: true,
		Options:        []string{"country", "search_lang", "freshness"},
	})
	r.mustRegister("custom_http", NewCustomHTTPEngine, ConfigSchema{
		RequiresBaseURL: true,
	})

	return r
}

// Register adds a factory under name. It fails with ErrDuplicateEngine when
// the name is taken; use Override to replace a registration deliberately.
func (r *Registry) Register(name string, factory EngineFactory, schema ConfigSchema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEngine, name)
	}
	r.entries[name] = registration{factory: factory, schema: schema}
	return nil
}

// Override registers a factory under name, replacing any existing entry.
func (r *Registry) Override(name string, factory EngineFactory, schema ConfigSchema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = registration{factory: factory, schema: schema}
}

func (r *Registry) mustRegister(name string, factory EngineFactory, schema ConfigSchema) {
	if err := r.Register(name, factory, schema); err != nil {
		panic(err)
	}
}

// Resolve builds an engine by registered name. Unlike ListAvailable it is
// strict: an unknown name or a configuration that fails schema validation is
// a hard error.
func (r *Registry) Resolve(name string, cfg EngineConfig) (Engine, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEngine, name)
	}
	if cfg.Name == "" {
		cfg.Name = name
	}
	if err := entry.schema.Validate(cfg); err != nil {
		return nil, err
	}
	return entry.factory(cfg)
}

// ListTypes returns every registered engine type name.
func (r *Registry) ListTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.entries))
	for t := range r.entries {
		types = append(types, t)
	}
	return types
}

// ListAvailable returns, in the order given, the names of the configured
// engines that can actually run right now. Engines that fail validation or
// report themselves unavailable (e.g. missing API key) are silently
// excluded; callers that want hard errors should use Resolve.
func (r *Registry) ListAvailable(cfgs []EngineConfig) []string {
	available := make([]string, 0, len(cfgs))
	for _, cfg := range cfgs {
		name := cfg.Name
		if name == "" {
			name = cfg.Type
		}
		eng, err := r.Resolve(cfg.Type, cfg)
		if err != nil || !eng.Available() {
			continue
		}
		available = append(available, name)
	}
	return available
}
