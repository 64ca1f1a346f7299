// Package config loads and validates the service configuration. Values come from
// defaults, an optional YAML file and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jonathan/resume-fit/internal/llm"
)

// EnvPrefix prefixes every environment override, e.g. RESUME_FIT_CACHE_BACKEND.
const EnvPrefix = "RESUME_FIT"

// Provider API key environment variables.
const (
	EnvOpenAIKey = "OPENAI_API_KEY"
	EnvGeminiKey = "GEMINI_API_KEY"
)

// Config is the full application configuration.
type Config struct {
	Provider string        `mapstructure:"provider" validate:"required,oneof=openai gemini"`
	OpenAI   OpenAIConfig  `mapstructure:"openai"`
	Gemini   GeminiConfig  `mapstructure:"gemini"`
	LLM      LLMConfig     `mapstructure:"llm"`
	Fetch    FetchConfig   `mapstructure:"fetch"`
	Cache    CacheConfig   `mapstructure:"cache"`
	Scoring  ScoringConfig `mapstructure:"scoring"`
	Server   ServerConfig  `mapstructure:"server"`
	Debug    bool          `mapstructure:"debug"`
	JSON     bool          `mapstructure:"json"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api-key"`
	BaseURL string `mapstructure:"base-url" validate:"omitempty,url"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api-key"`
}

type LLMConfig struct {
	EmbeddingModel string        `mapstructure:"embedding-model"`
	ChatModel      string        `mapstructure:"chat-model"`
	Temperature    float64       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	RequestTimeout time.Duration `mapstructure:"request-timeout" validate:"gt=0"`
}

type FetchConfig struct {
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	UserAgent string        `mapstructure:"user-agent" validate:"required"`
	// Scripted enables the headless browser fallback.
	Scripted        bool          `mapstructure:"scripted"`
	ChromePath      string        `mapstructure:"chrome-path"`
	BreakerFailures uint32        `mapstructure:"breaker-failures" validate:"gte=1"`
	BreakerCooldown time.Duration `mapstructure:"breaker-cooldown" validate:"gt=0"`
}

type CacheConfig struct {
	Backend       string        `mapstructure:"backend" validate:"required,oneof=memory redis none"`
	TTL           time.Duration `mapstructure:"ttl" validate:"gt=0"`
	RedisAddr     string        `mapstructure:"redis-addr" validate:"required_if=Backend redis"`
	RedisPassword string        `mapstructure:"redis-password"`
	RedisDB       int           `mapstructure:"redis-db" validate:"gte=0"`
}

type ScoringConfig struct {
	StrictScore bool `mapstructure:"strict-score"`
	MaxChars    int  `mapstructure:"max-chars" validate:"gt=0"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port" validate:"gt=0,lte=65535"`
	AllowedOrigins []string `mapstructure:"allowed-origins"`
	RateLimit      float64  `mapstructure:"rate-limit" validate:"gte=0"`
	RateBurst      int      `mapstructure:"rate-burst" validate:"gte=0"`
	MaxUploadBytes int64    `mapstructure:"max-upload-bytes" validate:"gt=0"`
}

// Error is a configuration problem that should stop startup.
type Error struct {
	Field   string
	EnvVar  string
	Message string
}

func (e *Error) Error() string {
	if e.EnvVar != "" {
		return fmt.Sprintf("config error: %s: %s (set %s)", e.Field, e.Message, e.EnvVar)
	}
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Message)
}

// SetDefaults registers every key with its default so environment overrides
// resolve during Unmarshal.
func SetDefaults(v *viper.Viper) {
	openaiDefaults := llm.DefaultConfig(llm.ProviderOpenAI)

	v.SetDefault("provider", string(llm.ProviderOpenAI))
	v.SetDefault("openai.api-key", "")
	v.SetDefault("openai.base-url", "")
	v.SetDefault("gemini.api-key", "")

	v.SetDefault("llm.embedding-model", "")
	v.SetDefault("llm.chat-model", "")
	v.SetDefault("llm.temperature", openaiDefaults.Temperature)
	v.SetDefault("llm.request-timeout", openaiDefaults.RequestTimeout)

	v.SetDefault("fetch.timeout", 12*time.Second)
	v.SetDefault("fetch.user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")
	v.SetDefault("fetch.scripted", true)
	v.SetDefault("fetch.chrome-path", "")
	v.SetDefault("fetch.breaker-failures", 3)
	v.SetDefault("fetch.breaker-cooldown", time.Minute)

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.redis-addr", "")
	v.SetDefault("cache.redis-password", "")
	v.SetDefault("cache.redis-db", 0)

	v.SetDefault("scoring.strict-score", false)
	v.SetDefault("scoring.max-chars", 15000)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed-origins", []string{})
	v.SetDefault("server.rate-limit", 0.2)
	v.SetDefault("server.rate-burst", 3)
	v.SetDefault("server.max-upload-bytes", 10<<20)

	v.SetDefault("debug", false)
	v.SetDefault("json", false)
}

// Load reads configuration into v and returns the validated result. An empty
// path skips the file.
func Load(v *viper.Viper, path string) (*Config, error) {
	cfg, err := read(v, path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadLocal is Load for commands that never call a provider, so a missing API
// key is not an error.
func LoadLocal(v *viper.Viper, path string) (*Config, error) {
	cfg, err := read(v, path)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateFields(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func read(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("openai.api-key", EnvOpenAIKey, EnvPrefix+"_OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding %s: %w", EnvOpenAIKey, err)
	}
	if err := v.BindEnv("gemini.api-key", EnvGeminiKey, EnvPrefix+"_GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding %s: %w", EnvGeminiKey, err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Validate checks field constraints and that the selected provider has credentials.
func (c *Config) Validate() error {
	if err := c.validateFields(); err != nil {
		return err
	}

	switch llm.Provider(c.Provider) {
	case llm.ProviderOpenAI:
		if strings.TrimSpace(c.OpenAI.APIKey) == "" {
			return &Error{Field: "openai.api-key", EnvVar: EnvOpenAIKey, Message: "API key is required for provider openai"}
		}
	case llm.ProviderGemini:
		if strings.TrimSpace(c.Gemini.APIKey) == "" {
			return &Error{Field: "gemini.api-key", EnvVar: EnvGeminiKey, Message: "API key is required for provider gemini"}
		}
	}
	return nil
}

// validateFields runs the struct tag constraints only.
func (c *Config) validateFields() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &Error{Field: fe.Namespace(), Message: fmt.Sprintf("failed %q validation", fe.Tag())}
		}
		return &Error{Field: "config", Message: err.Error()}
	}
	return nil
}

// LLMClientConfig returns the provider client settings.
func (c *Config) LLMClientConfig() *llm.Config {
	out := &llm.Config{
		Provider:       llm.Provider(c.Provider),
		EmbeddingModel: c.LLM.EmbeddingModel,
		ChatModel:      c.LLM.ChatModel,
		Temperature:    llm.Float(c.LLM.Temperature),
		RequestTimeout: c.LLM.RequestTimeout,
	}
	switch out.Provider {
	case llm.ProviderGemini:
		out.APIKey = c.Gemini.APIKey
	default:
		out.APIKey = c.OpenAI.APIKey
		out.BaseURL = c.OpenAI.BaseURL
	}
	return out
}
