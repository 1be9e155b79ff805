package api

import "errors"

var (
	// ErrNoExpectedValue is returned when an expected value is required but not provided
	ErrNoExpectedValue = errors.New("expected value is required for this scorer")
	// ErrLLMGenerationFailed is returned when LLM generation fails
	ErrLLMGenerationFailed = errors.New("LLM generation failed")
	// ErrEmbeddingFailed is returned when the embedder fails
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrInvalidWeights is returned for malformed scorer weights
	ErrInvalidWeights = errors.New("invalid weights")
	// ErrInvalidBeta is returned when beta is not a positive number
	ErrInvalidBeta = errors.New("beta must be positive")
	// ErrInvalidMode is returned for an unknown scorer mode
	ErrInvalidMode = errors.New("invalid mode")

	// ErrSingleTurnRequired is returned when a multi-turn output is given to a single-turn scorer
	ErrSingleTurnRequired = errors.New("single-turn output is required for this scorer")
	// ErrMultiTurnRequired is returned when a single-turn output is given to a multi-turn scorer
	ErrMultiTurnRequired = errors.New("multi-turn output is required for this scorer")
	// ErrMissingContexts is returned when retrieved contexts are required but absent
	ErrMissingContexts = errors.New("retrieved contexts are required for this scorer")

	// ErrNoStatements is returned when the judge produced no statements where at least one is needed
	ErrNoStatements = errors.New("no statements were generated")
	// ErrVerdictCountMismatch is returned when the judge returns a different number of verdicts than statements
	ErrVerdictCountMismatch = errors.New("verdict count does not match statement count")
)
