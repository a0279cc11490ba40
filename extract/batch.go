package extract

import (
	"context"
	"errors"
	"net/url"
	"sync/atomic"

	"github.com/fwojciec/schemacrawl"
	"github.com/fwojciec/schemacrawl/bloom"
	"golang.org/x/sync/errgroup"
)

// Bloom filter sizing for batch URL deduplication.
const (
	batchExpectedURLs      = 10000
	batchFalsePositiveRate = 0.01
)

// ProgressEvent reports progress during a batch extraction.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// BatchItem pairs one URL with its extraction response.
type BatchItem struct {
	URL      string
	Response *schemacrawl.Response
}

// BatchResult summarizes a batch extraction run.
type BatchResult struct {
	Items     []BatchItem
	Succeeded int
	Failed    int
	Skipped   int
}

// Batch runs one schema against many URLs concurrently. Each URL is an
// isolated unit of work: a failed URL is reported in its item and never
// aborts the rest of the batch.
type Batch struct {
	Runner Runner

	// Sitemaps, when set, enables DiscoverAndRun to enumerate a site's
	// URLs before extracting.
	Sitemaps schemacrawl.SitemapService

	// Limiter, when set, throttles requests per domain.
	Limiter schemacrawl.DomainLimiter

	// Concurrency is the number of parallel workers. Defaults to 10.
	Concurrency int
}

// Run extracts all URLs with the given schema. Duplicate URLs within the
// batch are skipped via a Bloom filter. The progress callback, if
// provided, receives events as extraction proceeds.
func (b *Batch) Run(ctx context.Context, urls []string, schemaID string, progress ProgressFunc) *BatchResult {
	seen := bloom.NewFilter(batchExpectedURLs, batchFalsePositiveRate)
	deduped := make([]string, 0, len(urls))
	skipped := 0
	for _, u := range urls {
		if seen.Seen(u) {
			skipped++
			continue
		}
		deduped = append(deduped, u)
	}

	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}

	total := len(deduped)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	type positioned struct {
		position int
		item     BatchItem
	}
	itemCh := make(chan positioned, total)
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range deduped {
			i, u := i, u
			g.Go(func() error {
				itemCh <- positioned{position: i, item: b.runOne(gctx, u, schemaID)}
				return nil
			})
		}
		_ = g.Wait()
		close(itemCh)
	}()

	result := &BatchResult{
		Items:   make([]BatchItem, total),
		Skipped: skipped,
	}
	for p := range itemCh {
		completed.Add(1)
		result.Items[p.position] = p.item

		if p.item.Response.Success {
			result.Succeeded++
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressCompleted,
					Completed: int(completed.Load()),
					Total:     total,
					URL:       p.item.URL,
				})
			}
		} else {
			result.Failed++
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					Completed: int(completed.Load()),
					Total:     total,
					URL:       p.item.URL,
					Error:     errors.New(p.item.Response.Error),
				})
			}
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return result
}

// DiscoverAndRun enumerates the site's URLs from its sitemap and extracts
// each one with the given schema.
func (b *Batch) DiscoverAndRun(ctx context.Context, baseURL, schemaID string, filter *schemacrawl.URLFilter, progress ProgressFunc) (*BatchResult, error) {
	if b.Sitemaps == nil {
		return nil, schemacrawl.Errorf(schemacrawl.EINVALID, "sitemap service not configured")
	}
	urls, err := b.Sitemaps.DiscoverURLs(ctx, baseURL, filter)
	if err != nil {
		return nil, schemacrawl.Errorf(schemacrawl.EUNAVAILABLE, "sitemap discovery: %v", err)
	}
	return b.Run(ctx, urls, schemaID, progress), nil
}

// runOne extracts a single URL, applying per-domain rate limiting first.
func (b *Batch) runOne(ctx context.Context, rawURL, schemaID string) BatchItem {
	if b.Limiter != nil {
		if u, err := url.Parse(rawURL); err == nil {
			if err := b.Limiter.Wait(ctx, u.Host); err != nil {
				return BatchItem{
					URL: rawURL,
					Response: &schemacrawl.Response{
						Success: false,
						Method:  schemacrawl.MethodSchema,
						Error:   schemacrawl.ErrorMessage(err),
					},
				}
			}
		}
	}
	return BatchItem{URL: rawURL, Response: b.Runner.Run(ctx, rawURL, schemaID)}
}
