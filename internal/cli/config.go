package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Provider names
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds the model provider settings used by judge and embedding scorers
type Config struct {
	Provider       string `mapstructure:"provider" yaml:"provider" validate:"required,oneof=gemini openai"`
	Model          string `mapstructure:"model" yaml:"model"`
	EmbeddingModel string `mapstructure:"embedding_model" yaml:"embedding_model"`

	// APIKey selects the Gemini API backend for gemini, and is required for openai
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url" validate:"omitempty,url"`

	// Project and Location select the Vertex AI backend for gemini when no APIKey is set
	Project  string `mapstructure:"project" yaml:"project"`
	Location string `mapstructure:"location" yaml:"location"`

	Cache     CacheConfig     `mapstructure:"cache" yaml:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`
}

// CacheConfig controls response and embedding caching
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL     time.Duration `mapstructure:"ttl" yaml:"ttl" validate:"gte=0"`
}

// RateLimitConfig limits model requests; RPS 0 disables limiting
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps" yaml:"rps" validate:"gte=0"`
	Burst int     `mapstructure:"burst" yaml:"burst" validate:"gte=0"`
}

var validate = validator.New()

// configure sets defaults and binds EVALITE_* environment variables on v,
// e.g. EVALITE_API_KEY or EVALITE_RATE_LIMIT_RPS.
func configure(v *viper.Viper) {
	v.SetEnvPrefix("EVALITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// keys without defaults must be bound for Unmarshal to see them
	for _, key := range []string{"model", "embedding_model", "api_key", "base_url", "project"} {
		_ = v.BindEnv(key)
	}

	v.SetDefault("provider", ProviderGemini)
	v.SetDefault("location", "us-central1")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("rate_limit.rps", 0)
	v.SetDefault("rate_limit.burst", 1)
}

// LoadConfig decodes and validates the provider configuration from v
func LoadConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	switch cfg.Provider {
	case ProviderGemini:
		if cfg.APIKey == "" && cfg.Project == "" {
			return Config{}, fmt.Errorf("invalid config: gemini needs api_key or project")
		}
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return Config{}, fmt.Errorf("invalid config: openai needs api_key")
		}
	}
	return cfg, nil
}
