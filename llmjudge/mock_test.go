package llmjudge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
)

const taskInputMarker = "Now perform the same with the following input"

// route answers judge calls whose schema title matches and whose task input contains every substring
type route struct {
	title    string
	contains []string
	response string
	err      error
}

// scriptedLLM answers StructuredGenerate from a list of routes. It is safe for concurrent use.
type scriptedLLM struct {
	mu     sync.Mutex
	routes []route
	// failFirst makes the first n calls fail regardless of routes
	failFirst int
	calls     map[string]int
}

func (m *scriptedLLM) StructuredGenerate(ctx context.Context, prompt string, schema map[string]interface{}) (map[string]interface{}, error) {
	title, _ := schema["title"].(string)

	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[title]++
	total := 0
	for _, n := range m.calls {
		total += n
	}
	m.mu.Unlock()

	if total <= m.failFirst {
		return nil, errors.New("judge unavailable")
	}

	input := prompt
	if i := strings.LastIndex(prompt, taskInputMarker); i >= 0 {
		input = prompt[i:]
	}

	for _, r := range m.routes {
		if r.title != title || !containsAll(input, r.contains) {
			continue
		}
		if r.err != nil {
			return nil, r.err
		}
		var result map[string]interface{}
		if err := json.Unmarshal([]byte(r.response), &result); err != nil {
			return nil, fmt.Errorf("failed to parse mock response as JSON: %w", err)
		}
		return result, nil
	}
	return nil, fmt.Errorf("no route for %q", title)
}

func (m *scriptedLLM) count(title string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[title]
}

func (m *scriptedLLM) total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// mockEmbedder returns fixed vectors per text and counts calls
type mockEmbedder struct {
	mu         sync.Mutex
	embeddings map[string][]float64
	err        error
	calls      int
	lastValues []string
}

func (m *mockEmbedder) EmbedMany(ctx context.Context, values []string) ([][]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastValues = values
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float64, len(values))
	for i, v := range values {
		if emb, ok := m.embeddings[v]; ok {
			out[i] = emb
			continue
		}
		out[i] = []float64{1.0, 0.0, 0.0}
	}
	return out, nil
}

func (m *mockEmbedder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
