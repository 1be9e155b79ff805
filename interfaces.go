package evalite

import (
	"github.com/mattpocock/evalite-sub000/api"
)

type LLMGenerator = api.LLMGenerator
type Embedder = api.Embedder

type Sample = api.Sample
type Reference = api.Reference
type Message = api.Message
type Part = api.Part
type ToolCall = api.ToolCall

type Classification = api.Classification
type ClassifiedStatement = api.ClassifiedStatement
type StatementVerdict = api.StatementVerdict
