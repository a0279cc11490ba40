package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/schemacrawl"
)

// Runner executes one extraction request end to end.
type Runner interface {
	Run(ctx context.Context, url, schemaID string) *schemacrawl.Response
}

var _ Runner = (*Pipeline)(nil)

// Pipeline composes the schema-based extractor with the LLM fallback.
// The fallback decision stays outside the Extractor: the pipeline reads
// the attempt's NextAction and invokes the LLM only when the attempt
// recommends it and a fallback is configured.
type Pipeline struct {
	Extractor *Extractor

	// Fallback, when set, is invoked after a schema attempt reports
	// NextActionTryLLM. Nil disables the fallback path.
	Fallback schemacrawl.LLMExtractor

	Logger *slog.Logger
}

// Run executes one extraction request. The schema path runs first; on a
// recoverable failure the LLM path runs and its outcome is persisted the
// same way.
func (p *Pipeline) Run(ctx context.Context, url, schemaID string) *schemacrawl.Response {
	start := time.Now()

	if url == "" || schemaID == "" {
		return &schemacrawl.Response{
			Success:          false,
			Method:           schemacrawl.MethodSchema,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
			Error:            "url and schema id are required",
		}
	}

	attempt := p.Extractor.Attempt(ctx, url, schemaID)
	if attempt.Success {
		return responseFromAttempt(attempt, start)
	}
	if attempt.NextAction != schemacrawl.NextActionTryLLM || p.Fallback == nil {
		return responseFromAttempt(attempt, start)
	}

	p.logger().Info("schema extraction failed, falling back to llm",
		"url", url, "schema_id", schemaID, "error", attempt.Err)

	return p.runFallback(ctx, url, schemaID, start)
}

// runFallback executes the LLM extraction path and persists its outcome.
func (p *Pipeline) runFallback(ctx context.Context, url, schemaID string, start time.Time) *schemacrawl.Response {
	llmResult, err := p.Fallback.Extract(ctx, url)
	if err != nil {
		p.logger().Warn("llm extraction failed", "url", url, "error", err)
		return &schemacrawl.Response{
			Success:          false,
			Method:           schemacrawl.MethodLLM,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
			Error:            schemacrawl.ErrorMessage(err),
		}
	}

	result := &schemacrawl.CrawlResult{
		URL:      url,
		Title:    recordTitle(llmResult.Records),
		Content:  llmResult.Records,
		SchemaID: schemaID,
		Quality:  llmResult.Quality,
		Metadata: map[string]any{
			"crawl_method": string(schemacrawl.MethodLLM),
		},
	}
	if err := p.Extractor.Results.SaveResult(ctx, result); err != nil {
		p.logger().Error("result persistence failed", "url", url, "error", err)
	}

	return &schemacrawl.Response{
		Success:          true,
		ExtractedContent: llmResult.Records,
		Method:           schemacrawl.MethodLLM,
		ConfidenceScore:  llmResult.Quality,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
