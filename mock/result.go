package mock

import (
	"context"

	"github.com/fwojciec/schemacrawl"
)

var _ schemacrawl.ResultService = (*ResultService)(nil)

// ResultService is a mock implementation of schemacrawl.ResultService.
type ResultService struct {
	SaveResultFn      func(ctx context.Context, result *schemacrawl.CrawlResult) error
	FindResultByURLFn func(ctx context.Context, url string) (*schemacrawl.CrawlResult, error)
	FindResultsFn     func(ctx context.Context, filter schemacrawl.ResultFilter) ([]*schemacrawl.CrawlResult, error)
	SearchResultsFn   func(ctx context.Context, query string, limit int) ([]*schemacrawl.CrawlResult, error)
}

func (s *ResultService) SaveResult(ctx context.Context, result *schemacrawl.CrawlResult) error {
	return s.SaveResultFn(ctx, result)
}

func (s *ResultService) FindResultByURL(ctx context.Context, url string) (*schemacrawl.CrawlResult, error) {
	return s.FindResultByURLFn(ctx, url)
}

func (s *ResultService) FindResults(ctx context.Context, filter schemacrawl.ResultFilter) ([]*schemacrawl.CrawlResult, error) {
	return s.FindResultsFn(ctx, filter)
}

func (s *ResultService) SearchResults(ctx context.Context, query string, limit int) ([]*schemacrawl.CrawlResult, error) {
	return s.SearchResultsFn(ctx, query, limit)
}
