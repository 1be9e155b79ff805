package llmjudge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattpocock/evalite-sub000/api"
)

func TestFaithfulness_Unit(t *testing.T) {
	ctx := context.Background()

	sample := &api.Sample{
		Query:             "Where does Tomas work?",
		RetrievedContexts: []string{"Tomas is a baker in Lisbon.", "Tomas opened his bakery in 2019."},
	}

	tests := []struct {
		name       string
		statements string
		verdicts   string
		llmErr     error
		in         api.ScoreInputs
		wantErr    error
		wantScore  float64
		wantCalls  int
	}{
		{
			name:       "half the statements are supported",
			statements: `{"statements": ["Tomas is a baker.", "Tomas lives in Porto."]}`,
			verdicts:   `{"statements": [{"statement": "Tomas is a baker.", "reason": "stated", "verdict": 1}, {"statement": "Tomas lives in Porto.", "reason": "context says Lisbon", "verdict": 0}]}`,
			in:         api.ScoreInputs{Output: "Tomas bakes bread in Porto.", Sample: sample},
			wantScore:  0.5,
			wantCalls:  2,
		},
		{
			name:       "all statements supported",
			statements: `{"statements": ["Tomas is a baker."]}`,
			verdicts:   `{"statements": [{"statement": "Tomas is a baker.", "reason": "stated", "verdict": 1}]}`,
			in:         api.ScoreInputs{Output: "Tomas bakes bread.", Sample: sample},
			wantScore:  1.0,
			wantCalls:  2,
		},
		{
			name:       "verdict count mismatch",
			statements: `{"statements": ["Tomas is a baker.", "Tomas lives in Porto."]}`,
			verdicts:   `{"statements": [{"statement": "Tomas is a baker.", "reason": "stated", "verdict": 1}]}`,
			in:         api.ScoreInputs{Output: "Tomas bakes bread in Porto.", Sample: sample},
			wantErr:    api.ErrVerdictCountMismatch,
			wantCalls:  2,
		},
		{
			name:       "no statements",
			statements: `{"statements": []}`,
			in:         api.ScoreInputs{Output: "Hmm.", Sample: sample},
			wantErr:    api.ErrNoStatements,
			wantCalls:  1,
		},
		{
			name:      "missing sample",
			in:        api.ScoreInputs{Output: "Tomas bakes bread."},
			wantErr:   api.ErrMissingContexts,
			wantCalls: 0,
		},
		{
			name:      "missing contexts",
			in:        api.ScoreInputs{Output: "Tomas bakes bread.", Sample: &api.Sample{Query: "Where does Tomas work?"}},
			wantErr:   api.ErrMissingContexts,
			wantCalls: 0,
		},
		{
			name:      "multi-turn output",
			in:        api.ScoreInputs{Sample: sample, Conversation: []api.Message{{Role: api.RoleAssistant, Content: "Tomas bakes bread."}}},
			wantErr:   api.ErrSingleTurnRequired,
			wantCalls: 0,
		},
		{
			name:      "judge failure",
			llmErr:    errors.New("deadline exceeded"),
			in:        api.ScoreInputs{Output: "Tomas bakes bread.", Sample: sample},
			wantErr:   api.ErrLLMGenerationFailed,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &scriptedLLM{routes: []route{
				{title: "statements", response: tt.statements, err: tt.llmErr},
				{title: "statement_verdicts", contains: []string{`Tomas is a baker in Lisbon.\nTomas opened his bakery in 2019.`}, response: tt.verdicts},
			}}

			result := Faithfulness(llm, FaithfulnessOptions{}).Score(ctx, tt.in)

			assert.Equal(t, "Faithfulness", result.Name)
			assert.Equal(t, tt.wantCalls, llm.total())
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

func TestFaithfulness_Metadata(t *testing.T) {
	llm := &scriptedLLM{routes: []route{
		{title: "statements", response: `{"statements": ["Tomas is a baker."]}`},
		{title: "statement_verdicts", response: `{"statements": [{"statement": "Tomas is a baker.", "reason": "stated", "verdict": 1}]}`},
	}}

	result := Faithfulness(llm, FaithfulnessOptions{}).Score(context.Background(), api.ScoreInputs{
		Output: "Tomas bakes bread.",
		Sample: &api.Sample{Query: "What does Tomas do?", RetrievedContexts: []string{"Tomas is a baker."}},
	})

	require.NoError(t, result.Error)
	assert.Equal(t, []string{"Tomas is a baker."}, result.Metadata["statements"])
	assert.Equal(t, 1, result.Metadata["faithful_count"])
	verdicts, ok := result.Metadata["verdicts"].([]api.StatementVerdict)
	require.True(t, ok)
	assert.Equal(t, "stated", verdicts[0].Reason)
}

func TestFaithfulness_NoLLM(t *testing.T) {
	result := Faithfulness(nil, FaithfulnessOptions{}).Score(context.Background(), api.ScoreInputs{
		Output: "Tomas bakes bread.",
		Sample: &api.Sample{RetrievedContexts: []string{"Tomas is a baker."}},
	})
	assert.Error(t, result.Error)
}
