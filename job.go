package schemacrawl

import (
	"context"
	"time"
)

// JobStatus tracks the lifecycle of a crawl job.
type JobStatus string

// Crawl job statuses.
const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// CrawlJob associates a URL with a schema and the outcome of one
// extraction attempt.
type CrawlJob struct {
	ID           string         `json:"id"`
	URL          string         `json:"url"`
	SchemaID     string         `json:"schemaId,omitempty"`
	Priority     string         `json:"priority"`
	Status       JobStatus      `json:"status"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	ErrorDetails map[string]any `json:"errorDetails,omitempty"`
	ResultID     *int64         `json:"resultId,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	StartedAt    *time.Time     `json:"startedAt,omitempty"`
	CompletedAt  *time.Time     `json:"completedAt,omitempty"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Validate returns an error if the job contains invalid fields.
func (j *CrawlJob) Validate() error {
	if j.URL == "" {
		return Errorf(EINVALID, "job URL required")
	}
	return nil
}

// JobService represents a service for managing crawl jobs.
type JobService interface {
	// CreateJob creates a new job in JobPending state.
	CreateJob(ctx context.Context, job *CrawlJob) error

	// FindJobByID retrieves a job by ID.
	// Returns ENOTFOUND if the job does not exist.
	FindJobByID(ctx context.Context, id string) (*CrawlJob, error)

	// MarkRunning transitions a job to JobRunning and stamps started_at.
	MarkRunning(ctx context.Context, id string) error

	// MarkCompleted transitions a job to JobCompleted and stamps
	// completed_at.
	MarkCompleted(ctx context.Context, id string) error

	// MarkFailed transitions a job to JobFailed with an error message and
	// optional details.
	MarkFailed(ctx context.Context, id string, message string, details map[string]any) error

	// LinkResult associates a job with its persisted result row.
	LinkResult(ctx context.Context, id string, resultID int64) error
}
