package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/schemacrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ schemacrawl.JobService = (*JobService)(nil)

// JobService implements schemacrawl.JobService using SQLite.
type JobService struct {
	db *DB
}

// NewJobService creates a new JobService.
func NewJobService(db *DB) *JobService {
	return &JobService{db: db}
}

// CreateJob creates a new job in JobPending state.
func (s *JobService) CreateJob(ctx context.Context, job *schemacrawl.CrawlJob) error {
	if err := job.Validate(); err != nil {
		return err
	}

	job.ID = uuid.New().String()
	if job.Priority == "" {
		job.Priority = "normal"
	}
	job.Status = schemacrawl.JobPending
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	details := job.ErrorDetails
	if details == nil {
		details = map[string]any{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode error details: %w", err)
	}

	var schemaID any
	if job.SchemaID != "" {
		schemaID = job.SchemaID
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO crawl_jobs (id, url, schema_id, priority, status, error_details, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, job.ID, job.URL, schemaID, job.Priority, job.Status, string(detailsJSON),
		now.Format(time.RFC3339), now.Format(time.RFC3339))

	return err
}

// FindJobByID retrieves a job by ID.
func (s *JobService) FindJobByID(ctx context.Context, id string) (*schemacrawl.CrawlJob, error) {
	var job schemacrawl.CrawlJob
	var schemaID sql.NullString
	var resultID sql.NullInt64
	var details, createdAt, updatedAt string
	var startedAt, completedAt *string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, url, schema_id, priority, status, error_message, error_details, result_id,
		       created_at, started_at, completed_at, updated_at
		FROM crawl_jobs
		WHERE id = ?
	`, id).Scan(&job.ID, &job.URL, &schemaID, &job.Priority, &job.Status,
		&job.ErrorMessage, &details, &resultID, &createdAt, &startedAt, &completedAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, schemacrawl.Errorf(schemacrawl.ENOTFOUND, "job not found")
	}
	if err != nil {
		return nil, err
	}

	job.SchemaID = schemaID.String
	if resultID.Valid {
		job.ResultID = &resultID.Int64
	}
	if err := json.Unmarshal([]byte(details), &job.ErrorDetails); err != nil {
		return nil, fmt.Errorf("failed to decode error details: %w", err)
	}

	if job.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if job.StartedAt, err = parseNullableRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if job.CompletedAt, err = parseNullableRFC3339(completedAt, "completed_at"); err != nil {
		return nil, err
	}
	if job.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &job, nil
}

// MarkRunning transitions a job to JobRunning.
func (s *JobService) MarkRunning(ctx context.Context, id string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	return s.exec(ctx, `
		UPDATE crawl_jobs
		SET status = ?, started_at = ?, updated_at = ?
		WHERE id = ?
	`, schemacrawl.JobRunning, now, now, id)
}

// MarkCompleted transitions a job to JobCompleted.
func (s *JobService) MarkCompleted(ctx context.Context, id string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	return s.exec(ctx, `
		UPDATE crawl_jobs
		SET status = ?, completed_at = ?, updated_at = ?
		WHERE id = ?
	`, schemacrawl.JobCompleted, now, now, id)
}

// MarkFailed transitions a job to JobFailed with an error message.
func (s *JobService) MarkFailed(ctx context.Context, id string, message string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode error details: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	return s.exec(ctx, `
		UPDATE crawl_jobs
		SET status = ?, error_message = ?, error_details = ?, completed_at = ?, updated_at = ?
		WHERE id = ?
	`, schemacrawl.JobFailed, message, string(detailsJSON), now, now, id)
}

// LinkResult associates a job with its persisted result row.
func (s *JobService) LinkResult(ctx context.Context, id string, resultID int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	return s.exec(ctx, `
		UPDATE crawl_jobs SET result_id = ?, updated_at = ? WHERE id = ?
	`, resultID, now, id)
}

func (s *JobService) exec(ctx context.Context, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return schemacrawl.Errorf(schemacrawl.ENOTFOUND, "job not found")
	}
	return nil
}
