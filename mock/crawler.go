package mock

import (
	"context"

	"github.com/fwojciec/schemacrawl"
)

var _ schemacrawl.Crawler = (*Crawler)(nil)

// Crawler is a mock implementation of schemacrawl.Crawler.
type Crawler struct {
	RunFn   func(ctx context.Context, url string, plan schemacrawl.Plan) (*schemacrawl.CrawlOutput, error)
	CloseFn func() error
}

func (c *Crawler) Run(ctx context.Context, url string, plan schemacrawl.Plan) (*schemacrawl.CrawlOutput, error) {
	return c.RunFn(ctx, url, plan)
}

func (c *Crawler) Close() error {
	return c.CloseFn()
}
