package schemacrawl

import "context"

// CrawlOutput holds the raw outcome of a crawl delegate call.
type CrawlOutput struct {
	// Records are the extracted records, one per repeated structure on
	// the page (a single-record page yields one element).
	Records []Record
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// Crawler executes a field plan against a live page. Implementations may
// render JavaScript (rod/) or evaluate static HTML (goquery/ + http/);
// the orchestrator treats them as opaque. The context bounds the call:
// on deadline expiry the crawl must be abandoned and its resources
// released.
type Crawler interface {
	// Run navigates to the URL, evaluates the plan, and returns the
	// extracted records. Returning zero records is not an error at this
	// layer; the orchestrator classifies it as ENOCONTENT.
	Run(ctx context.Context, url string, plan Plan) (*CrawlOutput, error)

	// Close releases crawl resources (e.g. the browser).
	Close() error
}
