package mock

import (
	"context"

	"github.com/fwojciec/schemacrawl"
)

var _ schemacrawl.JobService = (*JobService)(nil)

// JobService is a mock implementation of schemacrawl.JobService.
type JobService struct {
	CreateJobFn     func(ctx context.Context, job *schemacrawl.CrawlJob) error
	FindJobByIDFn   func(ctx context.Context, id string) (*schemacrawl.CrawlJob, error)
	MarkRunningFn   func(ctx context.Context, id string) error
	MarkCompletedFn func(ctx context.Context, id string) error
	MarkFailedFn    func(ctx context.Context, id string, message string, details map[string]any) error
	LinkResultFn    func(ctx context.Context, id string, resultID int64) error
}

func (s *JobService) CreateJob(ctx context.Context, job *schemacrawl.CrawlJob) error {
	return s.CreateJobFn(ctx, job)
}

func (s *JobService) FindJobByID(ctx context.Context, id string) (*schemacrawl.CrawlJob, error) {
	return s.FindJobByIDFn(ctx, id)
}

func (s *JobService) MarkRunning(ctx context.Context, id string) error {
	return s.MarkRunningFn(ctx, id)
}

func (s *JobService) MarkCompleted(ctx context.Context, id string) error {
	return s.MarkCompletedFn(ctx, id)
}

func (s *JobService) MarkFailed(ctx context.Context, id string, message string, details map[string]any) error {
	return s.MarkFailedFn(ctx, id, message, details)
}

func (s *JobService) LinkResult(ctx context.Context, id string, resultID int64) error {
	return s.LinkResultFn(ctx, id, resultID)
}
