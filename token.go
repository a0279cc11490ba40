package schemacrawl

import "context"

// TokenCounter counts tokens in text for a specific model. Used as cost
// telemetry around LLM fallback calls.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
