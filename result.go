package schemacrawl

import (
	"context"
	"time"
)

// Record is one extracted record: a mapping from field path to value.
type Record map[string]any

// Method identifies which extraction path produced (or should next
// produce) a result.
type Method string

// Extraction methods.
const (
	MethodSchema Method = "schema"
	MethodLLM    Method = "llm"
)

// ExtractionResult is the outcome of one successful extraction attempt.
type ExtractionResult struct {
	Content          []Record `json:"content"`
	ConfidenceScore  float64  `json:"confidenceScore"`
	Method           Method   `json:"method"`
	ProcessingTimeMs int64    `json:"processingTimeMs"`
}

// NextAction tells the caller what to do after a schema attempt.
type NextAction string

// Next actions reported by a SchemaAttempt.
const (
	NextActionNone   NextAction = "none"
	NextActionTryLLM NextAction = "try_llm"
)

// SchemaAttempt is the outcome of one schema-based extraction attempt.
// The fallback decision is an explicit data value: on failure NextAction
// is NextActionTryLLM and the caller decides whether to invoke the LLM.
type SchemaAttempt struct {
	Success    bool
	Result     *ExtractionResult
	NextAction NextAction
	Err        error
}

// Response is the externally observable result of an extraction request.
type Response struct {
	Success          bool     `json:"success"`
	ExtractedContent []Record `json:"extractedContent,omitempty"`
	Method           Method   `json:"method"`
	ProcessingTimeMs int64    `json:"processingTimeMs"`
	ConfidenceScore  float64  `json:"confidenceScore,omitempty"`
	Error            string   `json:"error,omitempty"`
}

// CrawlResult is a persisted extraction outcome, keyed by URL.
type CrawlResult struct {
	ID            int64          `json:"id"`
	URL           string         `json:"url"`
	Title         string         `json:"title"`
	Content       []Record       `json:"content"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	ContentLength int            `json:"contentLength"`
	ContentHash   string         `json:"contentHash"`
	SchemaID      string         `json:"schemaId,omitempty"`
	Quality       float64        `json:"quality"`
	CrawledAt     time.Time      `json:"crawledAt"`
}

// Validate returns an error if the result contains invalid fields.
func (r *CrawlResult) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "result URL required")
	}
	return nil
}

// ResultService represents a service for managing persisted crawl results.
type ResultService interface {
	// SaveResult persists a result, replacing any existing result for the
	// same URL.
	SaveResult(ctx context.Context, result *CrawlResult) error

	// FindResultByURL retrieves the result for a URL.
	// Returns ENOTFOUND if no result exists.
	FindResultByURL(ctx context.Context, url string) (*CrawlResult, error)

	// FindResults retrieves results matching the filter, most recently
	// crawled first.
	FindResults(ctx context.Context, filter ResultFilter) ([]*CrawlResult, error)

	// SearchResults performs full-text search over stored results,
	// ordered by relevance.
	SearchResults(ctx context.Context, query string, limit int) ([]*CrawlResult, error)
}

// ResultFilter represents a filter for FindResults.
type ResultFilter struct {
	SchemaID *string `json:"schemaId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Stats summarizes the state of the store.
type Stats struct {
	TotalResults     int     `json:"totalResults"`
	TotalJobs        int     `json:"totalJobs"`
	TotalSchemas     int     `json:"totalSchemas"`
	CompletedJobs    int     `json:"completedJobs"`
	FailedJobs       int     `json:"failedJobs"`
	AvgContentLength float64 `json:"avgContentLength"`
}

// StatsService reports aggregate statistics.
type StatsService interface {
	Stats(ctx context.Context) (*Stats, error)
}
