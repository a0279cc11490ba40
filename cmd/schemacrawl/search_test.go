package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/schemacrawl"
	main "github.com/fwojciec/schemacrawl/cmd/schemacrawl"
	"github.com/fwojciec/schemacrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints matching results", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		var gotQuery string
		var gotLimit int
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Results: &mock.ResultService{
				SearchResultsFn: func(ctx context.Context, query string, limit int) ([]*schemacrawl.CrawlResult, error) {
					gotQuery, gotLimit = query, limit
					return []*schemacrawl.CrawlResult{
						{URL: "https://example.com/a", Title: "Widget", Quality: 0.9},
					}, nil
				},
			},
		}

		cmd := &main.SearchCmd{Query: "widget", Limit: 5}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, "widget", gotQuery)
		assert.Equal(t, 5, gotLimit)
		assert.Contains(t, stdout.String(), "https://example.com/a")
		assert.Contains(t, stdout.String(), "Widget")
		assert.Contains(t, stdout.String(), "0.90")
	})

	t.Run("reports when nothing matches", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Results: &mock.ResultService{
				SearchResultsFn: func(ctx context.Context, query string, limit int) ([]*schemacrawl.CrawlResult, error) {
					return nil, nil
				},
			},
		}

		cmd := &main.SearchCmd{Query: "nothing", Limit: 10}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "No results found.")
	})
}

func TestSchemasCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists schemas with usage counters", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Schemas: &mock.SchemaService{
				FindSchemasFn: func(ctx context.Context, filter schemacrawl.SchemaFilter) ([]*schemacrawl.ExtractionSchema, error) {
					return []*schemacrawl.ExtractionSchema{
						{ID: "schema-1", Name: "article", UsageCount: 3},
					}, nil
				},
			},
		}

		cmd := &main.SchemasCmd{}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "article")
		assert.Contains(t, stdout.String(), "used 3 time(s)")
		assert.Contains(t, stdout.String(), "never")
	})

	t.Run("reports when no schemas exist", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Schemas: &mock.SchemaService{
				FindSchemasFn: func(ctx context.Context, filter schemacrawl.SchemaFilter) ([]*schemacrawl.ExtractionSchema, error) {
					return nil, nil
				},
			},
		}

		cmd := &main.SchemasCmd{}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "No schemas found.")
	})
}
