package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/schemacrawl"
)

// Ensure LoggingCrawler implements schemacrawl.Crawler.
var _ schemacrawl.Crawler = (*LoggingCrawler)(nil)

// LoggingCrawler wraps a Crawler with debug logging.
type LoggingCrawler struct {
	next   schemacrawl.Crawler
	logger *slog.Logger
}

// NewLoggingCrawler creates a new LoggingCrawler.
func NewLoggingCrawler(next schemacrawl.Crawler, logger *slog.Logger) *LoggingCrawler {
	return &LoggingCrawler{next: next, logger: logger}
}

// Run logs the crawl outcome and delegates to the wrapped crawler.
func (c *LoggingCrawler) Run(ctx context.Context, url string, plan schemacrawl.Plan) (out *schemacrawl.CrawlOutput, err error) {
	defer func(begin time.Time) {
		records := 0
		if out != nil {
			records = len(out.Records)
		}
		c.logger.Info("crawl",
			"url", url,
			"fields", len(plan),
			"records", records,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Run(ctx, url, plan)
}

// Close delegates to the wrapped crawler.
func (c *LoggingCrawler) Close() error {
	return c.next.Close()
}
