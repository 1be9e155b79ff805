package cli

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattpocock/evalite-sub000/provider"
)

func newTestViper(values map[string]any) *viper.Viper {
	v := viper.New()
	configure(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(newTestViper(map[string]any{"api_key": "key"}))
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "us-central1", cfg.Location)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 0.0, cfg.RateLimit.RPS)
	assert.Equal(t, 1, cfg.RateLimit.Burst)
	assert.Empty(t, cfg.Model)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("EVALITE_PROVIDER", "openai")
	t.Setenv("EVALITE_API_KEY", "sk-test")
	t.Setenv("EVALITE_MODEL", "gpt-4o")
	t.Setenv("EVALITE_RATE_LIMIT_RPS", "2.5")
	t.Setenv("EVALITE_CACHE_TTL", "10m")

	cfg, err := LoadConfig(newTestViper(nil))
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{name: "unknown provider", values: map[string]any{"provider": "anthropic", "api_key": "k"}},
		{name: "gemini without credentials", values: map[string]any{"provider": "gemini"}},
		{name: "openai without key", values: map[string]any{"provider": "openai", "project": "p"}},
		{name: "bad base url", values: map[string]any{"provider": "openai", "api_key": "k", "base_url": "not a url"}},
		{name: "negative rps", values: map[string]any{"api_key": "k", "rate_limit.rps": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(newTestViper(tt.values))
			assert.Error(t, err)
		})
	}
}

func TestDecorate(t *testing.T) {
	base := capabilities{llm: noopGenerator{}, embedder: noopEmbedder{}}

	t.Run("cache and rate limit", func(t *testing.T) {
		caps := decorate(base, Config{
			Cache:     CacheConfig{Enabled: true, TTL: time.Minute},
			RateLimit: RateLimitConfig{RPS: 5, Burst: 1},
		})
		assert.IsType(t, &provider.CachedGenerator{}, caps.llm)
		assert.IsType(t, &provider.CachedEmbedder{}, caps.embedder)
	})

	t.Run("rate limit only", func(t *testing.T) {
		caps := decorate(base, Config{RateLimit: RateLimitConfig{RPS: 5, Burst: 1}})
		assert.IsType(t, &provider.RateLimitedGenerator{}, caps.llm)
		assert.IsType(t, &provider.RateLimitedEmbedder{}, caps.embedder)
	})

	t.Run("undecorated", func(t *testing.T) {
		caps := decorate(base, Config{})
		assert.Equal(t, base, caps)
	})
}
