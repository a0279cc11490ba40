package extract_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/schemacrawl/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter(t *testing.T) {
	t.Parallel()

	t.Run("first request per domain is immediate", func(t *testing.T) {
		t.Parallel()

		l := extract.NewDomainLimiter(1)

		start := time.Now()
		require.NoError(t, l.Wait(context.Background(), "example.com"))
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("different domains do not share a budget", func(t *testing.T) {
		t.Parallel()

		l := extract.NewDomainLimiter(1)

		start := time.Now()
		require.NoError(t, l.Wait(context.Background(), "a.example.com"))
		require.NoError(t, l.Wait(context.Background(), "b.example.com"))
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("second request to a domain waits for the budget", func(t *testing.T) {
		t.Parallel()

		l := extract.NewDomainLimiter(20) // 50ms between requests

		require.NoError(t, l.Wait(context.Background(), "example.com"))
		start := time.Now()
		require.NoError(t, l.Wait(context.Background(), "example.com"))
		assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	})

	t.Run("wait respects context cancellation", func(t *testing.T) {
		t.Parallel()

		l := extract.NewDomainLimiter(0.001)
		require.NoError(t, l.Wait(context.Background(), "example.com"))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		assert.Error(t, l.Wait(ctx, "example.com"))
	})
}
