package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// OpenAIClient implements Client for OpenAI and OpenAI-compatible endpoints.
type OpenAIClient struct {
	client *openai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI client. SDK retries are disabled; a failed
// call surfaces immediately as an unavailable score.
func NewOpenAIClient(config *Config) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	cfg := config.withDefaults()

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.RequestTimeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openai.NewClient(opts...)
	return &OpenAIClient{client: &client, config: cfg}, nil
}

// Embed implements Embedder.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.config.EmbeddingModel),
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
	})
	if err != nil {
		return nil, c.embeddingError(err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, c.embeddingError(fmt.Errorf("empty embedding in response"))
	}

	raw := resp.Data[0].Embedding
	vec := make([]float32, len(raw))
	for i, v := range raw {
		vec[i] = float32(v)
	}
	return vec, nil
}

// Generate implements Generator.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       c.config.ChatModel,
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Temperature: openai.Float(*c.config.Temperature),
	})
	if err != nil {
		return "", c.narrativeError(err)
	}
	if len(resp.Choices) == 0 {
		return "", c.narrativeError(fmt.Errorf("no completions returned"))
	}
	return resp.Choices[0].Message.Content, nil
}

// Close implements Client. The HTTP client holds no resources to release.
func (c *OpenAIClient) Close() error {
	return nil
}

func (c *OpenAIClient) embeddingError(err error) error {
	return &EmbeddingError{Provider: ProviderOpenAI, Model: c.config.EmbeddingModel, Cause: err}
}

func (c *OpenAIClient) narrativeError(err error) error {
	return &NarrativeProviderError{Provider: ProviderOpenAI, Model: c.config.ChatModel, Cause: err}
}
