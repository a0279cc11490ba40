package mock

import (
	"context"

	"github.com/fwojciec/schemacrawl"
)

var _ schemacrawl.LLMExtractor = (*LLMExtractor)(nil)

// LLMExtractor is a mock implementation of schemacrawl.LLMExtractor.
type LLMExtractor struct {
	ExtractFn func(ctx context.Context, url string) (*schemacrawl.LLMResult, error)
}

func (e *LLMExtractor) Extract(ctx context.Context, url string) (*schemacrawl.LLMResult, error) {
	return e.ExtractFn(ctx, url)
}

var _ schemacrawl.SchemaDiscoverer = (*SchemaDiscoverer)(nil)

// SchemaDiscoverer is a mock implementation of schemacrawl.SchemaDiscoverer.
type SchemaDiscoverer struct {
	DiscoverSchemaFn func(ctx context.Context, url string) (map[string]any, error)
}

func (d *SchemaDiscoverer) DiscoverSchema(ctx context.Context, url string) (map[string]any, error) {
	return d.DiscoverSchemaFn(ctx, url)
}
