// Package prompt renders judge prompts from instruction + few-shot examples + task fields.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Example is one few-shot demonstration: the task input and the expected judge output.
type Example struct {
	Input  []Field
	Output any
}

// Field is a named task value. Fields keep their declaration order when rendered.
type Field struct {
	Name  string
	Value any
}

// Template is a judge prompt definition. It carries no transport concerns.
type Template struct {
	// Instruction is the task description given to the judge
	Instruction string
	// Examples are rendered in order before the task input
	Examples []Example
	// Fields lists the task fields that Render requires, in output order
	Fields []string
}

// Render fills the template with values. Every name in Fields must be present in values.
func (t Template) Render(values map[string]any) (string, error) {
	task := make([]Field, 0, len(t.Fields))
	for _, name := range t.Fields {
		v, ok := values[name]
		if !ok {
			return "", fmt.Errorf("missing prompt field %q", name)
		}
		task = append(task, Field{Name: name, Value: v})
	}

	var b strings.Builder
	b.WriteString(strings.TrimSpace(t.Instruction))
	b.WriteString("\n")

	if len(t.Examples) > 0 {
		b.WriteString("\n--------EXAMPLES-----------\n")
		for i, ex := range t.Examples {
			in, err := encodeFields(ex.Input)
			if err != nil {
				return "", fmt.Errorf("example %d input: %w", i+1, err)
			}
			out, err := json.MarshalIndent(ex.Output, "", "  ")
			if err != nil {
				return "", fmt.Errorf("example %d output: %w", i+1, err)
			}
			fmt.Fprintf(&b, "Example %d\nInput: %s\nOutput: %s\n", i+1, in, out)
		}
		b.WriteString("-----------------------------\n")
	}

	in, err := encodeFields(task)
	if err != nil {
		return "", fmt.Errorf("task input: %w", err)
	}
	b.WriteString("\nNow perform the same with the following input\n")
	fmt.Fprintf(&b, "Input: %s\nOutput: ", in)

	return b.String(), nil
}

// encodeFields renders fields as a JSON object preserving field order.
func encodeFields(fields []Field) (string, error) {
	var b strings.Builder
	b.WriteString("{\n")
	for i, f := range fields {
		key, err := json.Marshal(f.Name)
		if err != nil {
			return "", err
		}
		val, err := json.MarshalIndent(f.Value, "  ", "  ")
		if err != nil {
			return "", fmt.Errorf("field %q: %w", f.Name, err)
		}
		fmt.Fprintf(&b, "  %s: %s", key, val)
		if i < len(fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String(), nil
}
