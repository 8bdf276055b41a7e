package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pltanton/wizsearch/internal/search"
)

// Config is the on-disk configuration surface.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
	Search   SearchConfig   `yaml:"search,omitempty"`
	Semantic SemanticConfig `yaml:"semantic,omitempty"`
	Crawler  CrawlerConfig  `yaml:"crawler,omitempty"`
}

type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"` // "json" or "console"
}

// SearchConfig configures the engines and the orchestrator defaults.
type SearchConfig struct {
	EnabledEngines      []string              `yaml:"enabled_engines,omitempty"`
	MaxResultsPerEngine int                   `yaml:"max_results_per_engine,omitempty"`
	TimeoutSeconds      int                   `yaml:"timeout_seconds,omitempty"`
	FailFast            bool                  `yaml:"fail_fast,omitempty"`
	Engines             []search.EngineConfig `yaml:"engines,omitempty"`
}

// SemanticConfig configures the semantic search coordinator.
type SemanticConfig struct {
	VectorStoreProvider string  `yaml:"vector_store_provider,omitempty"`
	DataDir             string  `yaml:"data_dir,omitempty"`
	CollectionName      string  `yaml:"collection_name,omitempty"`
	EmbeddingProvider   string  `yaml:"embedding_provider,omitempty"`
	EmbeddingModel      string  `yaml:"embedding_model,omitempty"`
	EmbeddingAPIKey     string  `yaml:"embedding_api_key,omitempty"`
	EmbeddingBaseURL    string  `yaml:"embedding_base_url,omitempty"`
	LocalSearchLimit    int     `yaml:"local_search_limit,omitempty"`
	WebSearchLimit      int     `yaml:"web_search_limit,omitempty"`
	FallbackThreshold   int     `yaml:"fallback_threshold,omitempty"`
	EnableCaching       *bool   `yaml:"enable_caching,omitempty"`
	CacheTTLHours       int     `yaml:"cache_ttl_hours,omitempty"`
	AutoStoreWebResults *bool    `yaml:"auto_store_web_results,omitempty"`
	WebResultScore      *float32 `yaml:"web_result_score,omitempty"`
}

// CrawlerConfig configures the page fetcher.
type CrawlerConfig struct {
	UseBrowser   bool     `yaml:"use_browser,omitempty"`
	AllowPrivate bool     `yaml:"allow_private,omitempty"`
	AllowedHosts []string `yaml:"allowed_hosts,omitempty"`
}

// engine types whose API key can be filled from the environment when the
// config file leaves it empty.
var engineKeyEnvVars = map[string]string{
	"tavily": "TAVILY_API_KEY",
	"brave":  "BRAVE_API_KEY",
}

// DefaultConfig returns the configuration used when no file exists: every
// keyless engine enabled, plus any keyed engine whose API key is present in
// the environment.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Search: SearchConfig{
			Engines: []search.EngineConfig{
				{Name: "tavily", Type: "tavily"},
				{Name: "duckduckgo", Type: "duckduckgo"},
			},
		},
		Semantic: SemanticConfig{
			VectorStoreProvider: "chromem",
			CollectionName:      "wizsearch",
		},
	}
}

// Load reads the config file at path, falling back to defaults when path is
// empty and no file exists at the default location. Engine API keys left
// empty in the file are filled from the environment.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
		if _, err := os.Stat(path); err != nil {
			cfg := DefaultConfig()
			cfg.applyEnv()
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, nil
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, ".wizsearch", "config.yaml")
	}
	return "config.yaml"
}

func (c *Config) applyEnv() {
	for i := range c.Search.Engines {
		eng := &c.Search.Engines[i]
		if eng.APIKey != "" {
			continue
		}
		if envVar, ok := engineKeyEnvVars[eng.Type]; ok {
			eng.APIKey = os.Getenv(envVar)
		}
	}
	if c.Semantic.EmbeddingAPIKey == "" {
		c.Semantic.EmbeddingAPIKey = os.Getenv("OPENAI_API_KEY")
	}
}

// SearchTimeout returns the configured orchestrator timeout.
func (c *SearchConfig) SearchTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheTTL returns the configured semantic cache TTL.
func (c *SemanticConfig) CacheTTL() time.Duration {
	if c.CacheTTLHours <= 0 {
		return 0
	}
	return time.Duration(c.CacheTTLHours) * time.Hour
}
