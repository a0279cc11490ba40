// Package extract provides schema-driven extraction orchestration.
// It coordinates schema loading, plan normalization, crawling, confidence
// scoring, persistence, and usage metrics for extraction requests.
package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/schemacrawl"
)

// Extractor orchestrates schema-based extraction attempts. The crawl
// itself is delegated to the configured Crawler; the Extractor owns the
// surrounding flow of loading the schema, normalizing its patterns,
// scoring the extracted records, persisting the outcome, and recording
// schema usage.
type Extractor struct {
	Schemas schemacrawl.SchemaService
	Results schemacrawl.ResultService
	Crawler schemacrawl.Crawler

	// Jobs, when set, records a crawl job per attempt with lifecycle
	// transitions. Job store failures never fail the attempt.
	Jobs schemacrawl.JobService

	// Metrics, when set, records schema usage asynchronously. When nil
	// usage is recorded inline; either way failures are logged and
	// swallowed.
	Metrics *Recorder

	// Normalizer converts stored patterns into field plans. When nil a
	// zero-value normalizer with the default list patterns is used.
	Normalizer *schemacrawl.Normalizer

	// RetryDelays configures crawl retry backoff. Nil means the default
	// delays; an empty slice disables retries.
	RetryDelays []time.Duration

	Logger *slog.Logger
}

// Extract runs one schema-based extraction attempt and folds the outcome
// into a Response. It never invokes the LLM path; when the attempt fails
// the Response reports method "llm" as the recommended next step, and
// Pipeline.Run is the caller that acts on it.
func (e *Extractor) Extract(ctx context.Context, url, schemaID string) *schemacrawl.Response {
	start := time.Now()

	if url == "" || schemaID == "" {
		return &schemacrawl.Response{
			Success:          false,
			Method:           schemacrawl.MethodSchema,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
			Error:            "url and schema id are required",
		}
	}

	attempt := e.Attempt(ctx, url, schemaID)
	return responseFromAttempt(attempt, start)
}

// Attempt runs one schema-based extraction attempt. Failures are ordinary
// outcomes, not panics: every failure path returns a SchemaAttempt whose
// NextAction tells the caller whether the LLM fallback is worth trying.
func (e *Extractor) Attempt(ctx context.Context, url, schemaID string) schemacrawl.SchemaAttempt {
	start := time.Now()
	logger := e.logger()

	job := e.startJob(ctx, url, schemaID)

	schema, err := e.Schemas.FindSchemaByID(ctx, schemaID)
	if err != nil {
		// The usage write is attempted even when the schema is missing;
		// the store treats the unmatched update as a no-op and the error
		// is swallowed like any other metrics failure.
		e.recordUsage(schemaID, false)
		e.failJob(ctx, job, err)
		logger.Warn("schema load failed", "schema_id", schemaID, "error", err)
		return failedAttempt(err)
	}

	plan := e.normalizer().Normalize(schema.Patterns)

	out, err := e.runCrawl(ctx, url, plan)
	if err != nil {
		e.recordUsage(schemaID, false)
		e.failJob(ctx, job, err)
		logger.Warn("crawl failed", "url", url, "error", err)
		return failedAttempt(schemacrawl.Errorf(schemacrawl.EUNAVAILABLE, "crawl %s: %v", url, err))
	}

	if len(out.Records) == 0 {
		err := schemacrawl.Errorf(schemacrawl.ENOCONTENT, "no extractable content at %s", url)
		e.recordUsage(schemaID, false)
		e.failJob(ctx, job, err)
		return failedAttempt(err)
	}

	score := schemacrawl.Score(out.Records)

	result := &schemacrawl.ExtractionResult{
		Content:          out.Records,
		ConfidenceScore:  score,
		Method:           schemacrawl.MethodSchema,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}

	resultID, err := e.persist(ctx, url, schema, out.Records, score)
	if err != nil {
		e.recordUsage(schemaID, false)
		e.failJob(ctx, job, err)
		logger.Error("result persistence failed", "url", url, "error", err)
		return schemacrawl.SchemaAttempt{
			Success:    false,
			NextAction: schemacrawl.NextActionNone,
			Err:        err,
		}
	}

	e.recordUsage(schemaID, true)
	e.completeJob(ctx, job, resultID)

	return schemacrawl.SchemaAttempt{
		Success:    true,
		Result:     result,
		NextAction: schemacrawl.NextActionNone,
	}
}

// runCrawl invokes the crawl delegate with retry backoff.
func (e *Extractor) runCrawl(ctx context.Context, url string, plan schemacrawl.Plan) (*schemacrawl.CrawlOutput, error) {
	delays := e.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	run := func(ctx context.Context, url string) (*schemacrawl.CrawlOutput, error) {
		return e.Crawler.Run(ctx, url, plan)
	}
	return CrawlWithRetryDelays(ctx, url, run, e.logger(), delays)
}

// persist saves the extraction outcome as a crawl result and returns the
// stored row ID.
func (e *Extractor) persist(ctx context.Context, url string, schema *schemacrawl.ExtractionSchema, records []schemacrawl.Record, score float64) (int64, error) {
	result := &schemacrawl.CrawlResult{
		URL:      url,
		Title:    recordTitle(records),
		Content:  records,
		SchemaID: schema.ID,
		Quality:  score,
		Metadata: map[string]any{
			"crawl_method": string(schemacrawl.MethodSchema),
			"schema_name":  schema.Name,
		},
	}
	if err := e.Results.SaveResult(ctx, result); err != nil {
		return 0, err
	}
	return result.ID, nil
}

// recordUsage records schema usage through the async recorder when one is
// configured, inline otherwise. Usage tracking is best effort: a failed
// write is logged and never propagated to the extraction outcome.
func (e *Extractor) recordUsage(schemaID string, success bool) {
	if e.Metrics != nil {
		e.Metrics.Record(schemaID, success)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), usageWriteTimeout)
	defer cancel()
	if err := e.Schemas.RecordUsage(ctx, schemaID, success); err != nil {
		e.logger().Warn("usage recording failed", "schema_id", schemaID, "error", err)
	}
}

// startJob creates a pending job and marks it running. Job tracking is
// best effort; a nil return means tracking is off or the create failed.
func (e *Extractor) startJob(ctx context.Context, url, schemaID string) *schemacrawl.CrawlJob {
	if e.Jobs == nil {
		return nil
	}
	job := &schemacrawl.CrawlJob{URL: url, SchemaID: schemaID}
	if err := e.Jobs.CreateJob(ctx, job); err != nil {
		e.logger().Warn("job creation failed", "url", url, "error", err)
		return nil
	}
	if err := e.Jobs.MarkRunning(ctx, job.ID); err != nil {
		e.logger().Warn("job transition failed", "job_id", job.ID, "error", err)
	}
	return job
}

func (e *Extractor) failJob(ctx context.Context, job *schemacrawl.CrawlJob, cause error) {
	if job == nil {
		return
	}
	details := map[string]any{"code": string(schemacrawl.ErrorCode(cause))}
	if err := e.Jobs.MarkFailed(ctx, job.ID, schemacrawl.ErrorMessage(cause), details); err != nil {
		e.logger().Warn("job transition failed", "job_id", job.ID, "error", err)
	}
}

func (e *Extractor) completeJob(ctx context.Context, job *schemacrawl.CrawlJob, resultID int64) {
	if job == nil {
		return
	}
	if resultID != 0 {
		if err := e.Jobs.LinkResult(ctx, job.ID, resultID); err != nil {
			e.logger().Warn("job result link failed", "job_id", job.ID, "error", err)
		}
	}
	if err := e.Jobs.MarkCompleted(ctx, job.ID); err != nil {
		e.logger().Warn("job transition failed", "job_id", job.ID, "error", err)
	}
}

func (e *Extractor) normalizer() *schemacrawl.Normalizer {
	if e.Normalizer != nil {
		return e.Normalizer
	}
	return schemacrawl.NewNormalizer()
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// failedAttempt builds the failure outcome for errors where the LLM
// fallback could plausibly still extract content.
func failedAttempt(err error) schemacrawl.SchemaAttempt {
	return schemacrawl.SchemaAttempt{
		Success:    false,
		NextAction: schemacrawl.NextActionTryLLM,
		Err:        err,
	}
}

// responseFromAttempt folds a SchemaAttempt into the external response
// shape. A failed attempt reports method "llm": the recommended next
// step, not what ran.
func responseFromAttempt(attempt schemacrawl.SchemaAttempt, start time.Time) *schemacrawl.Response {
	if attempt.Success {
		return &schemacrawl.Response{
			Success:          true,
			ExtractedContent: attempt.Result.Content,
			Method:           schemacrawl.MethodSchema,
			ConfidenceScore:  attempt.Result.ConfidenceScore,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		}
	}
	return &schemacrawl.Response{
		Success:          false,
		Method:           schemacrawl.MethodLLM,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		Error:            schemacrawl.ErrorMessage(attempt.Err),
	}
}

// recordTitle picks a display title from the first record, if one of the
// conventional title fields is populated.
func recordTitle(records []schemacrawl.Record) string {
	if len(records) == 0 {
		return ""
	}
	for _, key := range []string{"title", "name", "heading"} {
		if v, ok := records[0][key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
