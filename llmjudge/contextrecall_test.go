package llmjudge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattpocock/evalite-sub000/api"
)

func TestContextRecall_Unit(t *testing.T) {
	ctx := context.Background()

	sample := &api.Sample{
		Query:             "When was the bridge built?",
		RetrievedContexts: []string{"The Vasco bridge opened in 1998.", "The Vasco bridge spans the Tagus estuary."},
	}

	tests := []struct {
		name      string
		response  string
		llmErr    error
		in        api.ScoreInputs
		wantErr   error
		wantScore float64
	}{
		{
			name: "two of three sentences attributed",
			response: `{"classifications": [
				{"statement": "The bridge opened in 1998.", "reason": "stated", "attributed": 1},
				{"statement": "The bridge spans the Tagus.", "reason": "stated", "attributed": 1},
				{"statement": "The bridge cost one billion euros.", "reason": "not mentioned", "attributed": 0}
			]}`,
			in:        api.ScoreInputs{Expected: "The bridge opened in 1998 and spans the Tagus. It cost one billion euros.", Sample: sample},
			wantScore: 2.0 / 3.0,
		},
		{
			name:      "reference from structured reference",
			response:  `{"classifications": [{"statement": "The bridge opened in 1998.", "reason": "stated", "attributed": 1}]}`,
			in:        api.ScoreInputs{Reference: &api.Reference{Answer: "The bridge opened in 1998."}, Sample: sample},
			wantScore: 1.0,
		},
		{
			name:     "no classifications",
			response: `{"classifications": []}`,
			in:       api.ScoreInputs{Expected: "The bridge opened in 1998.", Sample: sample},
			wantErr:  api.ErrNoStatements,
		},
		{
			name:    "missing contexts",
			in:      api.ScoreInputs{Expected: "The bridge opened in 1998."},
			wantErr: api.ErrMissingContexts,
		},
		{
			name:    "missing reference",
			in:      api.ScoreInputs{Sample: sample},
			wantErr: api.ErrNoExpectedValue,
		},
		{
			name:    "judge failure",
			llmErr:  errors.New("unavailable"),
			in:      api.ScoreInputs{Expected: "The bridge opened in 1998.", Sample: sample},
			wantErr: api.ErrLLMGenerationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &scriptedLLM{routes: []route{
				{title: "context_recall", contains: []string{"The Vasco bridge opened in 1998."}, response: tt.response, err: tt.llmErr},
			}}

			result := ContextRecall(llm, ContextRecallOptions{}).Score(ctx, tt.in)

			assert.Equal(t, "ContextRecall", result.Name)
			if tt.wantErr != nil {
				assert.ErrorIs(t, result.Error, tt.wantErr)
				assert.Equal(t, 0.0, result.Score)
				return
			}
			require.NoError(t, result.Error)
			assert.InDelta(t, tt.wantScore, result.Score, 1e-9)
		})
	}
}
