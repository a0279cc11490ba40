package schemacrawl

import "context"

// LLMResult holds the outcome of an LLM-based extraction.
type LLMResult struct {
	Records []Record
	Quality float64
}

// LLMExtractor extracts structured data from a page using a language
// model. This is the expensive path: the orchestrator never calls it
// directly. The caller invokes it after a schema attempt reports
// NextActionTryLLM.
type LLMExtractor interface {
	Extract(ctx context.Context, url string) (*LLMResult, error)
}

// SchemaDiscoverer derives a reusable extraction schema for a URL via a
// language model pass. The returned patterns tree is the stored form
// consumed by the Normalizer.
type SchemaDiscoverer interface {
	DiscoverSchema(ctx context.Context, url string) (map[string]any, error)
}
