package evalite

import (
	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/mattpocock/evalite-sub000/api"
	"github.com/mattpocock/evalite-sub000/embedding"
	"github.com/mattpocock/evalite-sub000/gemini"
	"github.com/mattpocock/evalite-sub000/heuristic"
	"github.com/mattpocock/evalite-sub000/llmjudge"
	"github.com/mattpocock/evalite-sub000/openai"
)

// LLMJudge wraps an LLM generator and exposes convenient constructors for LLM-as-a-judge scorers.
// Scorers that also compare embeddings use the judge's embedder.
type LLMJudge struct {
	llm      api.LLMGenerator
	embedder api.Embedder
	logger   *zap.Logger
}

// LLMJudgeOptions configures LLMJudge creation
type LLMJudgeOptions struct {
	llm      api.LLMGenerator
	embedder api.Embedder
	logger   *zap.Logger
}

// WithLLMGenerator sets the LLM generator for the judge
func WithLLMGenerator(llm api.LLMGenerator) func(*LLMJudgeOptions) {
	return func(opts *LLMJudgeOptions) {
		opts.llm = llm
	}
}

// WithJudgeEmbedder sets the embedder used by AnswerCorrectness and AnswerRelevancy
func WithJudgeEmbedder(embedder api.Embedder) func(*LLMJudgeOptions) {
	return func(opts *LLMJudgeOptions) {
		opts.embedder = embedder
	}
}

// WithLogger sets the logger passed to scorers that have none
func WithLogger(logger *zap.Logger) func(*LLMJudgeOptions) {
	return func(opts *LLMJudgeOptions) {
		opts.logger = logger
	}
}

// NewLLMJudge creates a new Judge wrapper using functional options.
func NewLLMJudge(opts ...func(*LLMJudgeOptions)) *LLMJudge {
	options := &LLMJudgeOptions{}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMJudge{
		llm:      options.llm,
		embedder: options.embedder,
		logger:   logger,
	}
}

// GeminiOptions configures Gemini LLMJudge and Embedding creation
type GeminiOptions struct {
	genaiClient        *genai.Client
	modelName          string
	embeddingModelName string
}

// WithGenaiClient sets the Gemini client
func WithGenaiClient(client *genai.Client) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.genaiClient = client
	}
}

// WithModelName sets the generation model name for the judge
func WithModelName(modelName string) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.modelName = modelName
	}
}

// WithEmbeddingModelName sets the embedding model name
func WithEmbeddingModelName(modelName string) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.embeddingModelName = modelName
	}
}

// NewGeminiLLMJudge creates a Judge using Gemini client and model name.
// Example model: "publishers/google/models/gemini-2.5-flash".
// When an embedding model is set the judge also gets a Gemini embedder.
func NewGeminiLLMJudge(opts ...func(*GeminiOptions)) *LLMJudge {
	options := &GeminiOptions{}
	for _, opt := range opts {
		opt(options)
	}

	var llmOptions []func(*LLMJudgeOptions)

	if options.genaiClient != nil && options.modelName != "" {
		llmOptions = append(llmOptions, WithLLMGenerator(gemini.NewGenerator(options.genaiClient, options.modelName)))
	}
	if options.genaiClient != nil && options.embeddingModelName != "" {
		llmOptions = append(llmOptions, WithJudgeEmbedder(gemini.NewEmbedder(options.genaiClient, options.embeddingModelName)))
	}

	return NewLLMJudge(llmOptions...)
}

// OpenAIOptions configures OpenAI LLMJudge and Embedding creation
type OpenAIOptions struct {
	client             *goopenai.Client
	modelName          string
	embeddingModelName string
}

// WithOpenAIClient sets the go-openai client
func WithOpenAIClient(client *goopenai.Client) func(*OpenAIOptions) {
	return func(opts *OpenAIOptions) {
		opts.client = client
	}
}

// WithOpenAIModelName sets the chat model name for the judge
func WithOpenAIModelName(modelName string) func(*OpenAIOptions) {
	return func(opts *OpenAIOptions) {
		opts.modelName = modelName
	}
}

// WithOpenAIEmbeddingModelName sets the embedding model name
func WithOpenAIEmbeddingModelName(modelName string) func(*OpenAIOptions) {
	return func(opts *OpenAIOptions) {
		opts.embeddingModelName = modelName
	}
}

// NewOpenAILLMJudge creates a Judge backed by an OpenAI-compatible chat model and embedding model.
// Empty model names use the adapter defaults.
func NewOpenAILLMJudge(opts ...func(*OpenAIOptions)) *LLMJudge {
	options := &OpenAIOptions{}
	for _, opt := range opts {
		opt(options)
	}

	var llmOptions []func(*LLMJudgeOptions)
	if options.client != nil {
		llmOptions = append(llmOptions,
			WithLLMGenerator(openai.NewGenerator(options.client, options.modelName)),
			WithJudgeEmbedder(openai.NewEmbedder(options.client, options.embeddingModelName)),
		)
	}

	return NewLLMJudge(llmOptions...)
}

type AnswerCorrectnessOptions = llmjudge.AnswerCorrectnessOptions

// AnswerCorrectness returns a scorer blending statement-level factuality with embedding similarity.
func (j *LLMJudge) AnswerCorrectness(opts AnswerCorrectnessOptions) api.Scorer {
	if opts.Logger == nil {
		opts.Logger = j.logger
	}
	return llmjudge.AnswerCorrectness(j.llm, j.embedder, opts)
}

// Beta returns a pointer to v for AnswerCorrectnessOptions.Beta
func Beta(v float64) *float64 {
	return llmjudge.Beta(v)
}

type FaithfulnessOptions = llmjudge.FaithfulnessOptions

// Faithfulness returns a scorer measuring how much of the output is supported by the retrieved contexts.
func (j *LLMJudge) Faithfulness(opts FaithfulnessOptions) api.Scorer {
	if opts.Logger == nil {
		opts.Logger = j.logger
	}
	return llmjudge.Faithfulness(j.llm, opts)
}

type NoiseSensitivityOptions = llmjudge.NoiseSensitivityOptions

// NoiseSensitivity returns a scorer measuring incorrect claims supported by retrieved contexts.
func (j *LLMJudge) NoiseSensitivity(opts NoiseSensitivityOptions) api.Scorer {
	if opts.Logger == nil {
		opts.Logger = j.logger
	}
	return llmjudge.NoiseSensitivity(j.llm, opts)
}

type AnswerRelevancyOptions = llmjudge.AnswerRelevancyOptions

// AnswerRelevancy returns a scorer comparing questions generated from the output with the original question.
func (j *LLMJudge) AnswerRelevancy(opts AnswerRelevancyOptions) api.Scorer {
	if opts.Logger == nil {
		opts.Logger = j.logger
	}
	return llmjudge.AnswerRelevancy(j.llm, j.embedder, opts)
}

type ContextRecallOptions = llmjudge.ContextRecallOptions

// ContextRecall returns a scorer measuring how much of the reference is attributable to the retrieved contexts.
func (j *LLMJudge) ContextRecall(opts ContextRecallOptions) api.Scorer {
	if opts.Logger == nil {
		opts.Logger = j.logger
	}
	return llmjudge.ContextRecall(j.llm, opts)
}

// Embedding wraps an embedder and exposes convenient constructors for embedding-based scorers.
type Embedding struct{ embedder api.Embedder }

// EmbeddingOptions configures Embedding creation
type EmbeddingOptions struct {
	embedder api.Embedder
}

// WithEmbedder sets the embedder for the embedding scorer
func WithEmbedder(embedder api.Embedder) func(*EmbeddingOptions) {
	return func(opts *EmbeddingOptions) {
		opts.embedder = embedder
	}
}

// NewEmbedding creates a new Embedding wrapper using functional options.
func NewEmbedding(opts ...func(*EmbeddingOptions)) *Embedding {
	options := &EmbeddingOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return &Embedding{embedder: options.embedder}
}

// NewGeminiEmbedding creates an Embedding using Gemini client and model name.
// Example model: "text-embedding-005". WithEmbeddingModelName takes precedence over WithModelName.
func NewGeminiEmbedding(opts ...func(*GeminiOptions)) *Embedding {
	options := &GeminiOptions{}
	for _, opt := range opts {
		opt(options)
	}

	modelName := options.embeddingModelName
	if modelName == "" {
		modelName = options.modelName
	}

	var embeddingOptions []func(*EmbeddingOptions)
	if options.genaiClient != nil && modelName != "" {
		embeddingOptions = append(embeddingOptions, WithEmbedder(gemini.NewEmbedder(options.genaiClient, modelName)))
	}

	return NewEmbedding(embeddingOptions...)
}

// NewOpenAIEmbedding creates an Embedding backed by an OpenAI-compatible embedding model.
func NewOpenAIEmbedding(opts ...func(*OpenAIOptions)) *Embedding {
	options := &OpenAIOptions{}
	for _, opt := range opts {
		opt(options)
	}

	var embeddingOptions []func(*EmbeddingOptions)
	if options.client != nil {
		embeddingOptions = append(embeddingOptions, WithEmbedder(openai.NewEmbedder(options.client, options.embeddingModelName)))
	}

	return NewEmbedding(embeddingOptions...)
}

type AnswerSimilarityOptions = embedding.AnswerSimilarityOptions

// Similarity returns a scorer that measures semantic similarity using embeddings.
func (e *Embedding) Similarity(opts AnswerSimilarityOptions) api.Scorer {
	return embedding.AnswerSimilarity(e.embedder, opts)
}

// Heuristic exposes convenient constructors for heuristic scorers.
type Heuristic struct{}

// NewHeuristic creates a new Heuristic.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

type ExactMatchOptions = heuristic.ExactMatchOptions

// ExactMatch returns a scorer that checks if the output exactly matches the expected value.
func (h *Heuristic) ExactMatch(opts ExactMatchOptions) api.Scorer {
	return heuristic.ExactMatch(opts)
}

type ToolCallAccuracyOptions = heuristic.ToolCallAccuracyOptions
type ToolCallWeights = heuristic.ToolCallWeights

// ToolCallAccuracy returns a scorer comparing the tool calls of a conversation with reference calls.
func (h *Heuristic) ToolCallAccuracy(opts ToolCallAccuracyOptions) api.Scorer {
	return heuristic.ToolCallAccuracy(opts)
}
