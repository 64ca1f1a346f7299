package llm

import (
	"context"
	"fmt"
)

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator sends a single user prompt and returns the reply text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client is an abstraction over LLM providers
type Client interface {
	Embedder
	Generator
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		return nil, fmt.Errorf("llm config is required")
	}

	switch config.Provider {
	case ProviderOpenAI, "":
		return NewOpenAIClient(config)
	case ProviderGemini:
		return NewGeminiClient(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported provider %q", config.Provider)
	}
}
