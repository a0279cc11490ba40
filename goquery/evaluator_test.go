package goquery_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/schemacrawl"
	"github.com/fwojciec/schemacrawl/goquery"
	"github.com/fwojciec/schemacrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `
<html>
<head>
	<title>Test</title>
	<meta name="description" content="A page about minerals">
</head>
<body>
	<h1>Mineral Ownership</h1>
	<p class="byline">Jane Roe</p>
	<time datetime="2024-03-01">March 1, 2024</time>
	<a href="/a">First</a>
	<a href="/b">Second</a>
</body>
</html>`

func TestEvaluator_Evaluate(t *testing.T) {
	t.Parallel()

	t.Run("text field reads trimmed element text", func(t *testing.T) {
		t.Parallel()

		plan := schemacrawl.Normalize(map[string]any{
			"title": map[string]any{"selector": "h1", "attribute": "textContent"},
		})

		records, err := goquery.NewEvaluator().Evaluate(articleHTML, plan)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Mineral Ownership", records[0]["title"])
	})

	t.Run("attribute field reads named attribute", func(t *testing.T) {
		t.Parallel()

		plan := schemacrawl.Normalize(map[string]any{
			"description": map[string]any{
				"selector":  "meta[name='description']",
				"attribute": "content",
			},
		})

		records, err := goquery.NewEvaluator().Evaluate(articleHTML, plan)
		require.NoError(t, err)
		assert.Equal(t, "A page about minerals", records[0]["description"])
	})

	t.Run("list field collects one value per match", func(t *testing.T) {
		t.Parallel()

		plan := schemacrawl.Normalize(map[string]any{
			"links": map[string]any{"selector": "a[href]", "attribute": "href"},
		})

		records, err := goquery.NewEvaluator().Evaluate(articleHTML, plan)
		require.NoError(t, err)
		assert.Equal(t, []string{"/a", "/b"}, records[0]["links"])
	})

	t.Run("nested group produces nested record", func(t *testing.T) {
		t.Parallel()

		plan := schemacrawl.Normalize(map[string]any{
			"metadata": map[string]any{
				"author": map[string]any{"selector": ".byline", "attribute": "textContent"},
				"date":   map[string]any{"selector": "time", "attribute": "datetime"},
			},
		})

		records, err := goquery.NewEvaluator().Evaluate(articleHTML, plan)
		require.NoError(t, err)

		metadata, ok := records[0]["metadata"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Jane Roe", metadata["author"])
		assert.Equal(t, "2024-03-01", metadata["date"])
	})

	t.Run("missing selector match yields empty value", func(t *testing.T) {
		t.Parallel()

		plan := schemacrawl.Normalize(map[string]any{
			"price": map[string]any{"selector": ".price", "attribute": "textContent"},
		})

		records, err := goquery.NewEvaluator().Evaluate(articleHTML, plan)
		require.NoError(t, err)
		assert.Equal(t, "", records[0]["price"])
	})

	t.Run("empty selector reads from the enclosing context", func(t *testing.T) {
		t.Parallel()

		plan := schemacrawl.Normalize(map[string]any{
			"text": map[string]any{"selector": "", "attribute": "textContent"},
		})

		records, err := goquery.NewEvaluator().Evaluate("<p>Hello</p>", plan)
		require.NoError(t, err)
		assert.Equal(t, "Hello", records[0]["text"])
	})
}

func TestEvaluator_BaseSelector(t *testing.T) {
	t.Parallel()

	const listingHTML = `
	<ul>
		<li class="item"><h2>One</h2><span class="price">$1</span></li>
		<li class="item"><h2>Two</h2><span class="price">$2</span></li>
	</ul>`

	t.Run("produces one record per base match", func(t *testing.T) {
		t.Parallel()

		plan := schemacrawl.Normalize(map[string]any{
			"name":  map[string]any{"selector": "h2", "attribute": "textContent"},
			"price": map[string]any{"selector": ".price", "attribute": "textContent"},
		})

		e := goquery.NewEvaluator(goquery.WithBaseSelector("li.item"))
		records, err := e.Evaluate(listingHTML, plan)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "One", records[0]["name"])
		assert.Equal(t, "$2", records[1]["price"])
	})

	t.Run("falls back to whole document when base matches nothing", func(t *testing.T) {
		t.Parallel()

		plan := schemacrawl.Normalize(map[string]any{
			"name": map[string]any{"selector": "h2", "attribute": "textContent"},
		})

		e := goquery.NewEvaluator(goquery.WithBaseSelector(".missing"))
		records, err := e.Evaluate(listingHTML, plan)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "One", records[0]["name"])
	})
}

func TestCrawler_Run(t *testing.T) {
	t.Parallel()

	t.Run("fetches and evaluates", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return articleHTML, nil
			},
		}
		crawler := goquery.NewCrawler(fetcher)

		plan := schemacrawl.Normalize(map[string]any{
			"title": map[string]any{"selector": "h1", "attribute": "textContent"},
		})

		out, err := crawler.Run(context.Background(), "https://example.com", plan)
		require.NoError(t, err)
		require.Len(t, out.Records, 1)
		assert.Equal(t, "Mineral Ownership", out.Records[0]["title"])
	})

	t.Run("fetch failures surface as EUNAVAILABLE", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", errors.New("connection refused")
			},
		}
		crawler := goquery.NewCrawler(fetcher)

		_, err := crawler.Run(context.Background(), "https://example.com", schemacrawl.Plan{})
		require.Error(t, err)
		assert.Equal(t, schemacrawl.EUNAVAILABLE, schemacrawl.ErrorCode(err))
	})

	t.Run("close delegates to the fetcher", func(t *testing.T) {
		t.Parallel()

		closed := false
		fetcher := &mock.Fetcher{CloseFn: func() error {
			closed = true
			return nil
		}}

		require.NoError(t, goquery.NewCrawler(fetcher).Close())
		assert.True(t, closed)
	})
}
