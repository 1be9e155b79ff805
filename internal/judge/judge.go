// Package judge holds the judge-model primitives shared by the statement-level scorers:
// statement decomposition, verdict evaluation and TP/FP/FN classification.
package judge

import (
	"context"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/mattpocock/evalite-sub000/api"
	"github.com/mattpocock/evalite-sub000/internal/prompt"
)

const tracerName = "github.com/mattpocock/evalite-sub000/judge"

// Judge issues structured judge-model calls. It holds no per-call state and is safe for concurrent use.
type Judge struct {
	llm    api.LLMGenerator
	logger *zap.Logger
}

// New returns a Judge over llm. A nil logger disables logging.
func New(llm api.LLMGenerator, logger *zap.Logger) *Judge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Judge{llm: llm, logger: logger}
}

// Generate renders tmpl with values, asks the judge for a response matching schema
// and decodes it into out. Generation failures wrap api.ErrLLMGenerationFailed.
func (j *Judge) Generate(ctx context.Context, task string, tmpl prompt.Template, values map[string]any, schema map[string]interface{}, out any) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "judge."+task)
	defer span.End()

	if j.llm == nil {
		err := fmt.Errorf("LLM generator is required")
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	p, err := tmpl.Render(values)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to render %s prompt: %w", task, err)
	}

	start := time.Now()
	raw, err := j.llm.StructuredGenerate(ctx, p, schema)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		j.logger.Warn("judge call failed", zap.String("task", task), zap.Duration("duration", time.Since(start)), zap.Error(err))
		return fmt.Errorf("%w: %s: %v", api.ErrLLMGenerationFailed, task, err)
	}
	j.logger.Debug("judge call completed", zap.String("task", task), zap.Duration("duration", time.Since(start)))

	if err := decode(raw, out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return fmt.Errorf("failed to decode %s response: %w", task, err)
	}
	span.SetAttributes(attribute.Int("prompt.length", len(p)))
	return nil
}

// decode maps the generic JSON object returned by the judge onto a typed struct.
func decode(raw map[string]interface{}, out any) error {
	if raw == nil {
		return fmt.Errorf("empty response")
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}
