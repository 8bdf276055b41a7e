package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBuiltins(t *testing.T) {
	registry := NewRegistry()
	types := registry.ListTypes()
	assert.ElementsMatch(t, []string{"tavily", "searxng", "duckduckgo", "brave", "custom_http"}, types)
}

func TestRegistryRegisterDuplicate(t *testing.T) {
	registry := NewRegistry()

	factory := func(cfg EngineConfig) (Engine, error) { return &stubEngine{name: cfg.Name}, nil }

	require.NoError(t, registry.Register("mine", factory, ConfigSchema{}))
	err := registry.Register("mine", factory, ConfigSchema{})
	assert.ErrorIs(t, err, ErrDuplicateEngine)

	err = registry.Register("tavily", factory, ConfigSchema{})
	assert.ErrorIs(t, err, ErrDuplicateEngine, "built-ins are protected too")
}

func TestRegistryOverride(t *testing.T) {
	registry := NewRegistry()

	registry.Override("tavily", func(cfg EngineConfig) (Engine, error) {
		return &stubEngine{name: "replacement"}, nil
	}, ConfigSchema{})

	eng, err := registry.Resolve("tavily", EngineConfig{Name: "tavily"})
	require.NoError(t, err)
	assert.Equal(t, "replacement", eng.Name())
}

func TestRegistryResolveUnknown(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Resolve("nope", EngineConfig{})
	assert.ErrorIs(t, err, ErrUnknownEngine)
}

func TestRegistryResolveInvalidConfig(t *testing.T) {
	registry := NewRegistry()

	t.Run("missing api key", func(t *testing.T) {
		_, err := registry.Resolve("tavily", EngineConfig{Name: "tavily"})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("missing base url", func(t *testing.T) {
		_, err := registry.Resolve("searxng", EngineConfig{Name: "sx"})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("unrecognized option", func(t *testing.T) {
		_, err := registry.Resolve("tavily", EngineConfig{
			Name:    "tavily",
			APIKey:  "key",
			Options: map[string]any{"bogus": true},
		})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("valid config", func(t *testing.T) {
		eng, err := registry.Resolve("tavily", EngineConfig{
			Name:    "tavily",
			APIKey:  "key",
			Options: map[string]any{"search_depth": "advanced"},
		})
		require.NoError(t, err)
		assert.True(t, eng.Available())
	})
}

func TestRegistryListAvailable(t *testing.T) {
	registry := NewRegistry()

	cfgs := []EngineConfig{
		{Name: "tavily", Type: "tavily"}, // no key: excluded, not an error
		{Name: "ddg", Type: "duckduckgo"},
		{Name: "sx", Type: "searxng", BaseURL: "http://searx.example.com"},
		{Name: "ghost", Type: "not_registered"},
	}

	available := registry.ListAvailable(cfgs)
	assert.Equal(t, []string{"ddg", "sx"}, available, "order preserved, unavailable silently excluded")
}

func TestRegistryCustomEngineRoundTrip(t *testing.T) {
	registry := NewRegistry()

	custom := &stubEngine{name: "custom", sources: sourcesFor("u1")}
	require.NoError(t, registry.Register("my_engine", func(cfg EngineConfig) (Engine, error) {
		return custom, nil
	}, ConfigSchema{}))

	eng, err := registry.Resolve("my_engine", EngineConfig{Name: "custom"})
	require.NoError(t, err)

	resp, err := eng.Search(context.Background(), "q", QueryOptions{MaxResults: 1})
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.Sources[0].URL)
}
