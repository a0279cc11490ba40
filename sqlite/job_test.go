package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/schemacrawl"
	"github.com/fwojciec/schemacrawl/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobService_CreateJob(t *testing.T) {
	t.Parallel()

	t.Run("creates pending job with defaults", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewJobService(db)

		job := &schemacrawl.CrawlJob{URL: "https://example.com/page"}
		require.NoError(t, svc.CreateJob(context.Background(), job))

		assert.NotEmpty(t, job.ID)
		assert.Equal(t, schemacrawl.JobPending, job.Status)
		assert.Equal(t, "normal", job.Priority)
		assert.False(t, job.CreatedAt.IsZero())
	})

	t.Run("returns error for invalid job", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewJobService(db)

		err := svc.CreateJob(context.Background(), &schemacrawl.CrawlJob{})
		require.Error(t, err)
		assert.Equal(t, schemacrawl.EINVALID, schemacrawl.ErrorCode(err))
	})
}

func TestJobService_Lifecycle(t *testing.T) {
	t.Parallel()

	t.Run("completed attempt", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		schema := createTestSchema(t, db)
		jobs := sqlite.NewJobService(db)
		results := sqlite.NewResultService(db)
		ctx := context.Background()

		job := &schemacrawl.CrawlJob{URL: "https://example.com/page", SchemaID: schema.ID}
		require.NoError(t, jobs.CreateJob(ctx, job))
		require.NoError(t, jobs.MarkRunning(ctx, job.ID))

		result := &schemacrawl.CrawlResult{
			URL:     job.URL,
			Content: []schemacrawl.Record{{"title": "Hello"}},
		}
		require.NoError(t, results.SaveResult(ctx, result))
		require.NoError(t, jobs.LinkResult(ctx, job.ID, result.ID))
		require.NoError(t, jobs.MarkCompleted(ctx, job.ID))

		found, err := jobs.FindJobByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, schemacrawl.JobCompleted, found.Status)
		assert.NotNil(t, found.StartedAt)
		assert.NotNil(t, found.CompletedAt)
		require.NotNil(t, found.ResultID)
		assert.Equal(t, result.ID, *found.ResultID)
	})

	t.Run("failed attempt records message and details", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		jobs := sqlite.NewJobService(db)
		ctx := context.Background()

		job := &schemacrawl.CrawlJob{URL: "https://example.com/page"}
		require.NoError(t, jobs.CreateJob(ctx, job))
		require.NoError(t, jobs.MarkRunning(ctx, job.ID))
		require.NoError(t, jobs.MarkFailed(ctx, job.ID, "crawl timed out", map[string]any{"timeoutMs": 10000}))

		found, err := jobs.FindJobByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, schemacrawl.JobFailed, found.Status)
		assert.Equal(t, "crawl timed out", found.ErrorMessage)
		assert.EqualValues(t, 10000, found.ErrorDetails["timeoutMs"])
		assert.NotNil(t, found.CompletedAt)
	})

	t.Run("transitions on missing job return ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		jobs := sqlite.NewJobService(db)
		ctx := context.Background()

		assert.Equal(t, schemacrawl.ENOTFOUND, schemacrawl.ErrorCode(jobs.MarkRunning(ctx, "nope")))
		assert.Equal(t, schemacrawl.ENOTFOUND, schemacrawl.ErrorCode(jobs.MarkCompleted(ctx, "nope")))
		assert.Equal(t, schemacrawl.ENOTFOUND, schemacrawl.ErrorCode(jobs.MarkFailed(ctx, "nope", "x", nil)))
	})
}
