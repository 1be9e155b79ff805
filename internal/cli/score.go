package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	evalite "github.com/mattpocock/evalite-sub000"
)

// scoreFlags holds the score command flags
type scoreFlags struct {
	scorer   string
	casePath string

	mode            string
	weights         []float64
	beta            float64
	betaSet         bool
	strictness      int
	caseInsensitive bool
	trimWhitespace  bool
}

var scoreOpts scoreFlags

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one evaluation case",
	Long: `Score one YAML evaluation case with one scorer and print the score as JSON.

Available scorers: ` + strings.Join(evalite.ScorerKinds(), ", ") + `

Example:
  evalite score --scorer answer_correctness --case case.yaml`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.StringVarP(&scoreOpts.scorer, "scorer", "s", "", "scorer kind")
	f.StringVarP(&scoreOpts.casePath, "case", "c", "", "path to a YAML case file")
	f.StringVar(&scoreOpts.mode, "mode", "", "noise_sensitivity: relevant|irrelevant; tool_call_accuracy: exact|flexible")
	f.Float64SliceVar(&scoreOpts.weights, "weights", nil, "answer_correctness: factuality,similarity weights")
	f.Float64Var(&scoreOpts.beta, "beta", 0, "answer_correctness: F-beta parameter, must be positive (default 1)")
	f.IntVar(&scoreOpts.strictness, "strictness", 0, "answer_relevancy: number of generated questions (default 3)")
	f.BoolVar(&scoreOpts.caseInsensitive, "case-insensitive", false, "exact_match: ignore case")
	f.BoolVar(&scoreOpts.trimWhitespace, "trim-whitespace", false, "exact_match: trim surrounding whitespace")

	_ = scoreCmd.MarkFlagRequired("scorer")
	_ = scoreCmd.MarkFlagRequired("case")
}

func runScore(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	scoreOpts.betaSet = cmd.Flags().Changed("beta")
	cfg, err := scoreOpts.scorerConfig()
	if err != nil {
		return err
	}

	c, err := LoadCase(scoreOpts.casePath)
	if err != nil {
		return err
	}

	var (
		judge     *evalite.LLMJudge
		embedding *evalite.Embedding
	)
	if cfg.Kind.NeedsJudge() || cfg.Kind == evalite.KindAnswerSimilarity {
		providerCfg, err := LoadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		caps, err := buildCapabilities(cmd.Context(), providerCfg, logger)
		if err != nil {
			return err
		}
		judge = caps.judge(logger)
		embedding = caps.embedding()
	}

	scorer, err := evalite.NewScorer(judge, embedding, cfg)
	if err != nil {
		return err
	}

	logger.Debug("scoring case", zap.String("scorer", string(cfg.Kind)), zap.String("case", scoreOpts.casePath))
	result := scorer.Score(cmd.Context(), c.ScoreInputs())

	if err := writeScore(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if result.Error != nil {
		return fmt.Errorf("%s failed: %w", result.Name, result.Error)
	}
	return nil
}

// scorerConfig maps the flags onto the options of the selected scorer
func (f scoreFlags) scorerConfig() (evalite.ScorerConfig, error) {
	kind, err := evalite.ParseScorerKind(f.scorer)
	if err != nil {
		return evalite.ScorerConfig{}, err
	}

	cfg := evalite.ScorerConfig{Kind: kind}
	switch kind {
	case evalite.KindAnswerCorrectness:
		cfg.AnswerCorrectness = evalite.AnswerCorrectnessOptions{Weights: f.weights}
		if f.betaSet {
			cfg.AnswerCorrectness.Beta = evalite.Beta(f.beta)
		}
		if err := cfg.AnswerCorrectness.Validate(); err != nil {
			return evalite.ScorerConfig{}, err
		}
	case evalite.KindNoiseSensitivity:
		cfg.NoiseSensitivity = evalite.NoiseSensitivityOptions{Mode: f.mode}
	case evalite.KindAnswerRelevancy:
		cfg.AnswerRelevancy = evalite.AnswerRelevancyOptions{Strictness: f.strictness}
	case evalite.KindExactMatch:
		cfg.ExactMatch = evalite.ExactMatchOptions{CaseInsensitive: f.caseInsensitive, TrimWhitespace: f.trimWhitespace}
	case evalite.KindToolCallAccuracy:
		cfg.ToolCallAccuracy = evalite.ToolCallAccuracyOptions{Mode: f.mode}
	}
	return cfg, nil
}

// scoreOutput is the JSON form of a score
type scoreOutput struct {
	Name     string         `json:"name"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Error    string         `json:"error,omitempty"`
}

func writeScore(w io.Writer, s evalite.Score) error {
	out := scoreOutput{Name: s.Name, Score: s.Score, Metadata: s.Metadata}
	if s.Error != nil {
		out.Error = s.Error.Error()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode score: %w", err)
	}
	return nil
}
