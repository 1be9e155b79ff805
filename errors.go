package evalite

import (
	"errors"

	"github.com/mattpocock/evalite-sub000/api"
)

var (
	// ErrNoExpectedValue is returned when an expected value is required but not provided
	ErrNoExpectedValue = api.ErrNoExpectedValue
	// ErrLLMGenerationFailed is returned when LLM generation fails
	ErrLLMGenerationFailed = api.ErrLLMGenerationFailed
	// ErrEmbeddingFailed is returned when the embedder fails
	ErrEmbeddingFailed = api.ErrEmbeddingFailed

	ErrInvalidWeights     = api.ErrInvalidWeights
	ErrInvalidBeta        = api.ErrInvalidBeta
	ErrInvalidMode        = api.ErrInvalidMode
	ErrSingleTurnRequired = api.ErrSingleTurnRequired
	ErrMultiTurnRequired  = api.ErrMultiTurnRequired
	ErrMissingContexts    = api.ErrMissingContexts

	ErrNoStatements         = api.ErrNoStatements
	ErrVerdictCountMismatch = api.ErrVerdictCountMismatch

	// ErrUnknownScorer is returned by NewScorer for an unrecognized ScorerKind
	ErrUnknownScorer = errors.New("unknown scorer kind")
)
