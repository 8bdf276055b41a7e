// Package embedding wraps the text-embedding capability consumed by the
// semantic search layer.
package embedding

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// Provider is the embedding capability: text in, fixed-dimension vector out.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Name() string
	Dimension() int
}

// Config selects and configures an embedding backend.
type Config struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
}

// New creates an embedding provider based on configuration.
func New(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "openai", "":
		return newOpenAIProvider(cfg)
	case "qwen":
		return newQwenProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

const (
	openaiDefaultModel = "text-embedding-3-small"
	openaiDimension    = 1536

	qwenDefaultBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	qwenDefaultModel   = "text-embedding-v3"
	qwenDimension      = 1536
)

// openaiProvider speaks the OpenAI embeddings API, or any compatible
// endpoint when BaseURL is set.
type openaiProvider struct {
	client    *openai.Client
	name      string
	model     string
	dimension int
}

func newOpenAIProvider(cfg Config) (*openaiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required for openai embedding")
	}

	model := cfg.Model
	if model == "" {
		model = openaiDefaultModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &openaiProvider{
		client:    openai.NewClientWithConfig(clientCfg),
		name:      "openai",
		model:     model,
		dimension: openaiDimension,
	}, nil
}

func newQwenProvider(cfg Config) (*openaiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required for qwen embedding")
	}

	model := cfg.Model
	if model == "" {
		model = qwenDefaultModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = qwenDefaultBaseURL
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = baseURL

	return &openaiProvider{
		client:    openai.NewClientWithConfig(clientCfg),
		name:      "qwen",
		model:     model,
		dimension: qwenDimension,
	}, nil
}

func (p *openaiProvider) Name() string {
	return p.name
}

func (p *openaiProvider) Dimension() int {
	return p.dimension
}

func (p *openaiProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	req := openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(p.model),
		Input: texts,
	}

	resp, err := p.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s embedding API error: %w", p.name, err)
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		embeddings[i] = data.Embedding
	}
	return embeddings, nil
}
