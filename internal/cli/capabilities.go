package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	evalite "github.com/mattpocock/evalite-sub000"
	"github.com/mattpocock/evalite-sub000/api"
	"github.com/mattpocock/evalite-sub000/gemini"
	"github.com/mattpocock/evalite-sub000/openai"
	"github.com/mattpocock/evalite-sub000/provider"
)

const (
	defaultGeminiModel          = "gemini-2.5-flash"
	defaultGeminiEmbeddingModel = "text-embedding-005"
)

// capabilities are the model-backed dependencies of the scorers
type capabilities struct {
	llm      api.LLMGenerator
	embedder api.Embedder
}

// buildCapabilities creates the provider clients from cfg and wraps them in the
// rate limit and cache decorators. Cache hits do not consume rate limit tokens.
func buildCapabilities(ctx context.Context, cfg Config, logger *zap.Logger) (capabilities, error) {
	var caps capabilities

	switch cfg.Provider {
	case ProviderGemini:
		clientConfig := &genai.ClientConfig{}
		if cfg.APIKey != "" {
			clientConfig.Backend = genai.BackendGeminiAPI
			clientConfig.APIKey = cfg.APIKey
		} else {
			clientConfig.Backend = genai.BackendVertexAI
			clientConfig.Project = cfg.Project
			clientConfig.Location = cfg.Location
		}
		client, err := genai.NewClient(ctx, clientConfig)
		if err != nil {
			return caps, fmt.Errorf("failed to create genai client: %w", err)
		}
		caps.llm = gemini.NewGenerator(client, orDefault(cfg.Model, defaultGeminiModel))
		caps.embedder = gemini.NewEmbedder(client, orDefault(cfg.EmbeddingModel, defaultGeminiEmbeddingModel))

	case ProviderOpenAI:
		client, err := openai.NewClient(cfg.APIKey, cfg.BaseURL)
		if err != nil {
			return caps, err
		}
		caps.llm = openai.NewGenerator(client, cfg.Model)
		caps.embedder = openai.NewEmbedder(client, cfg.EmbeddingModel)

	default:
		return caps, fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	logger.Debug("model provider configured",
		zap.String("provider", cfg.Provider),
		zap.Float64("rps", cfg.RateLimit.RPS),
		zap.Bool("cache", cfg.Cache.Enabled),
	)

	return decorate(caps, cfg), nil
}

func decorate(caps capabilities, cfg Config) capabilities {
	if cfg.RateLimit.RPS > 0 {
		caps.llm = provider.NewRateLimitedGenerator(caps.llm, cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		caps.embedder = provider.NewRateLimitedEmbedder(caps.embedder, cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	if cfg.Cache.Enabled {
		caps.llm = provider.NewCachedGenerator(caps.llm, cfg.Cache.TTL)
		caps.embedder = provider.NewCachedEmbedder(caps.embedder, cfg.Cache.TTL)
	}
	return caps
}

func (c capabilities) judge(logger *zap.Logger) *evalite.LLMJudge {
	return evalite.NewLLMJudge(
		evalite.WithLLMGenerator(c.llm),
		evalite.WithJudgeEmbedder(c.embedder),
		evalite.WithLogger(logger),
	)
}

func (c capabilities) embedding() *evalite.Embedding {
	return evalite.NewEmbedding(evalite.WithEmbedder(c.embedder))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
