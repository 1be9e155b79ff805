package llmjudge

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mattpocock/evalite-sub000/api"
)

const tracerName = "github.com/mattpocock/evalite-sub000/llmjudge"

func startSpan(ctx context.Context, scorer string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "scorer."+scorer)
}

// fail sets the error on result, zeroes the score and records the error on the span
func fail(span trace.Span, result *api.Score, err error) api.Score {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	result.Error = err
	result.Score = 0
	return *result
}

// joinContexts concatenates retrieved contexts into a single judge context
func joinContexts(contexts []string) string {
	return strings.Join(contexts, "\n")
}
