package sqlite

import (
	"context"
	"database/sql"

	"github.com/fwojciec/schemacrawl"
)

// Compile-time interface verification.
var _ schemacrawl.StatsService = (*StatsService)(nil)

// StatsService reports aggregate statistics from SQLite.
type StatsService struct {
	db *DB
}

// NewStatsService creates a new StatsService.
func NewStatsService(db *DB) *StatsService {
	return &StatsService{db: db}
}

// Stats returns counts and averages across results, jobs and schemas.
func (s *StatsService) Stats(ctx context.Context) (*schemacrawl.Stats, error) {
	var stats schemacrawl.Stats
	var avg sql.NullFloat64

	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM crawl_results),
			(SELECT COUNT(*) FROM crawl_jobs),
			(SELECT COUNT(*) FROM extraction_schemas),
			(SELECT COUNT(*) FROM crawl_jobs WHERE status = 'completed'),
			(SELECT COUNT(*) FROM crawl_jobs WHERE status = 'failed'),
			(SELECT AVG(content_length) FROM crawl_results)
	`).Scan(&stats.TotalResults, &stats.TotalJobs, &stats.TotalSchemas,
		&stats.CompletedJobs, &stats.FailedJobs, &avg)
	if err != nil {
		return nil, err
	}

	stats.AvgContentLength = avg.Float64

	return &stats, nil
}
