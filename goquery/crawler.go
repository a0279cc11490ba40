package goquery

import (
	"context"

	"github.com/fwojciec/schemacrawl"
)

// Compile-time interface verification.
var _ schemacrawl.Crawler = (*Crawler)(nil)

// Crawler implements schemacrawl.Crawler by fetching page HTML through a
// Fetcher and evaluating the field plan with CSS selectors. Pair it with
// http.Fetcher for static sites or rod.Fetcher for JavaScript-rendered
// ones.
type Crawler struct {
	fetcher   schemacrawl.Fetcher
	evaluator *Evaluator
}

// NewCrawler creates a Crawler backed by the given fetcher.
func NewCrawler(fetcher schemacrawl.Fetcher, opts ...Option) *Crawler {
	return &Crawler{
		fetcher:   fetcher,
		evaluator: NewEvaluator(opts...),
	}
}

// Run fetches the URL and evaluates the plan against the returned HTML.
func (c *Crawler) Run(ctx context.Context, url string, plan schemacrawl.Plan) (*schemacrawl.CrawlOutput, error) {
	html, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, schemacrawl.Errorf(schemacrawl.EUNAVAILABLE, "fetch %s: %v", url, err)
	}

	records, err := c.evaluator.Evaluate(html, plan)
	if err != nil {
		return nil, err
	}

	return &schemacrawl.CrawlOutput{Records: records}, nil
}

// Close releases the underlying fetcher's resources.
func (c *Crawler) Close() error {
	return c.fetcher.Close()
}
