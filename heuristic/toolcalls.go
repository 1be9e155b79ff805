package heuristic

import (
	"strings"

	"github.com/mattpocock/evalite-sub000/api"
)

// ExtractToolCalls returns the tool-call parts of assistant messages in transcript order.
func ExtractToolCalls(messages []api.Message) []api.ToolCall {
	calls := []api.ToolCall{}
	for _, m := range messages {
		if m.Role != api.RoleAssistant {
			continue
		}
		for _, p := range m.Parts {
			if p.Type != api.PartToolCall {
				continue
			}
			calls = append(calls, api.ToolCall{ToolName: p.ToolName, Input: p.Input})
		}
	}
	return calls
}

// LastAssistantText returns the text of the last assistant message that has any.
// Text parts are concatenated when Content is empty.
func LastAssistantText(messages []api.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if m.Role != api.RoleAssistant {
			continue
		}
		if m.Content != "" {
			return m.Content
		}
		var b strings.Builder
		for _, p := range m.Parts {
			if p.Type == api.PartText {
				b.WriteString(p.Text)
			}
		}
		if b.Len() > 0 {
			return b.String()
		}
	}
	return ""
}

// argumentsKey identifies a call by name and canonical arguments. Absent and empty arguments share a key.
func argumentsKey(c api.ToolCall) string {
	input := c.Input
	if input == nil {
		input = map[string]any{}
	}
	return StableSerialize(map[string]any{"toolName": c.ToolName, "input": input})
}
