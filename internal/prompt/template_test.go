package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplate_Render(t *testing.T) {
	tmpl := Template{
		Instruction: "  Split the answer into statements.  ",
		Examples: []Example{
			{
				Input:  []Field{{Name: "question", Value: "Who?"}, {Name: "answer", Value: "Ada."}},
				Output: map[string]any{"statements": []string{"Ada."}},
			},
		},
		Fields: []string{"question", "answer"},
	}

	got, err := tmpl.Render(map[string]any{"answer": "Grace Hopper wrote COBOL.", "question": "Who wrote COBOL?"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "Split the answer into statements.\n"))
	assert.Contains(t, got, "Example 1\n")
	assert.Contains(t, got, `"statements": [`)
	assert.True(t, strings.HasSuffix(got, "Output: "))

	// task fields keep declaration order, not map order
	task := got[strings.Index(got, "Now perform"):]
	assert.Less(t, strings.Index(task, `"question"`), strings.Index(task, `"answer"`))
	assert.Contains(t, task, `"Grace Hopper wrote COBOL."`)
}

func TestTemplate_RenderMissingField(t *testing.T) {
	tmpl := Template{Instruction: "x", Fields: []string{"context"}}

	_, err := tmpl.Render(map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context")
}

func TestTemplate_RenderNoExamples(t *testing.T) {
	tmpl := Template{Instruction: "Judge.", Fields: []string{"statements"}}

	got, err := tmpl.Render(map[string]any{"statements": []string{"a", "b"}})
	require.NoError(t, err)
	assert.NotContains(t, got, "EXAMPLES")
	assert.Contains(t, got, `"statements": [`)
}
