// Package llm provides the embedding and text-generation provider clients.
// Provider selection and credentials are explicit configuration; there is no
// process-wide client.
package llm

import "time"

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOpenAI is the OpenAI provider
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// DefaultTemperature keeps narrative assessments stable across runs.
const DefaultTemperature = 0.3

// DefaultRequestTimeout bounds a single provider call.
const DefaultRequestTimeout = 60 * time.Second

// Config holds provider settings for one client.
type Config struct {
	Provider       Provider
	APIKey         string
	EmbeddingModel string
	ChatModel      string
	// Temperature nil selects DefaultTemperature; an explicit 0 is kept.
	Temperature    *float64
	RequestTimeout time.Duration
	// BaseURL points an OpenAI client at a compatible endpoint; empty uses the default.
	BaseURL string
}

// Float returns a pointer to v, for optional Config fields.
func Float(v float64) *float64 {
	return &v
}

// DefaultConfig returns the default configuration for a provider.
func DefaultConfig(provider Provider) *Config {
	switch provider {
	case ProviderGemini:
		return &Config{
			Provider:       ProviderGemini,
			EmbeddingModel: "text-embedding-004",
			ChatModel:      "gemini-2.5-flash",
			Temperature:    Float(DefaultTemperature),
			RequestTimeout: DefaultRequestTimeout,
		}
	default:
		return &Config{
			Provider:       ProviderOpenAI,
			EmbeddingModel: "text-embedding-3-small",
			ChatModel:      "gpt-4o-mini",
			Temperature:    Float(DefaultTemperature),
			RequestTimeout: DefaultRequestTimeout,
		}
	}
}

// withDefaults fills empty fields from the provider defaults.
func (c *Config) withDefaults() *Config {
	out := *c
	defaults := DefaultConfig(c.Provider)
	if out.Provider == "" {
		out.Provider = defaults.Provider
	}
	if out.EmbeddingModel == "" {
		out.EmbeddingModel = defaults.EmbeddingModel
	}
	if out.ChatModel == "" {
		out.ChatModel = defaults.ChatModel
	}
	if out.Temperature == nil {
		out.Temperature = defaults.Temperature
	}
	if out.RequestTimeout <= 0 {
		out.RequestTimeout = defaults.RequestTimeout
	}
	return &out
}
