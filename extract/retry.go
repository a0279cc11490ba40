package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/schemacrawl"
)

// CrawlFunc is the signature for a crawl function.
type CrawlFunc func(ctx context.Context, url string) (*schemacrawl.CrawlOutput, error)

// DefaultRetryDelays returns the backoff delays for crawl retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// CrawlWithRetry attempts a crawl with exponential backoff retry logic.
// It retries up to 3 times (4 total attempts) with delays of 1s, 2s, 4s.
func CrawlWithRetry(ctx context.Context, url string, run CrawlFunc, logger *slog.Logger) (*schemacrawl.CrawlOutput, error) {
	return CrawlWithRetryDelays(ctx, url, run, logger, DefaultRetryDelays())
}

// CrawlWithRetryDelays is like CrawlWithRetry but allows configurable
// delays. This is useful for testing without waiting for real delays.
func CrawlWithRetryDelays(ctx context.Context, url string, run CrawlFunc, logger *slog.Logger, delays []time.Duration) (*schemacrawl.CrawlOutput, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		out, err := run(ctx, url)
		if err == nil {
			return out, nil
		}
		lastErr = err

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		// Check context before sleeping
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if logger != nil {
			logger.Debug("crawl retry", "url", url, "attempt", attempt+2, "error", err)
		}

		// Wait before next attempt
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
