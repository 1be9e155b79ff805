package cli

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mattpocock/evalite-sub000/api"
)

// Case is one evaluation case as written in a YAML case file
type Case struct {
	Input        string         `yaml:"input"`
	Output       string         `yaml:"output"`
	Expected     string         `yaml:"expected"`
	Sample       *api.Sample    `yaml:"sample"`
	Conversation []api.Message  `yaml:"conversation"`
	Reference    *api.Reference `yaml:"reference"`
}

// ScoreInputs converts the case into scorer inputs
func (c Case) ScoreInputs() api.ScoreInputs {
	return api.ScoreInputs{
		Input:        c.Input,
		Output:       c.Output,
		Expected:     c.Expected,
		Sample:       c.Sample,
		Conversation: c.Conversation,
		Reference:    c.Reference,
	}
}

// LoadCase reads a YAML case file
func LoadCase(path string) (Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Case{}, fmt.Errorf("failed to read case file: %w", err)
	}
	return ParseCase(data)
}

// ParseCase decodes a YAML case. Unknown fields are rejected.
func ParseCase(data []byte) (Case, error) {
	var c Case
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return Case{}, fmt.Errorf("failed to parse case: %w", err)
	}
	return c, nil
}
