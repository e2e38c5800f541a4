package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrJobNotFound = errors.New("database: job not found")

// JobRecord is one generation job started through the gateway.
type JobRecord struct {
	ID           uuid.UUID      `json:"id"`
	JobID        string         `json:"job_id"`
	UserID       string         `json:"user_id"`
	ProjectID    string         `json:"project_id"`
	FormatIDs    []string       `json:"format_ids"`
	Provider     string         `json:"provider"`
	Status       string         `json:"status"`
	Progress     int            `json:"progress"`
	AssetCount   int            `json:"asset_count"`
	ErrorMessage sql.NullString `json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	CompletedAt  sql.NullTime   `json:"-"`
}

// JobStore keeps the job history in Postgres.
type JobStore struct {
	db *sql.DB
}

func NewJobStore(db *sql.DB) *JobStore {
	return &JobStore{db: db}
}

const jobColumns = `id, job_id, user_id, project_id, format_ids, provider, status, progress,
		asset_count, error_message, created_at, updated_at, completed_at`

func scanJob(row interface{ Scan(...any) error }, job *JobRecord) error {
	return row.Scan(
		&job.ID, &job.JobID, &job.UserID, &job.ProjectID, pq.Array(&job.FormatIDs),
		&job.Provider, &job.Status, &job.Progress, &job.AssetCount,
		&job.ErrorMessage, &job.CreatedAt, &job.UpdatedAt, &job.CompletedAt,
	)
}

func (s *JobStore) CreateJob(ctx context.Context, jobID, userID, projectID string, formatIDs []string, provider string) (*JobRecord, error) {
	if formatIDs == nil {
		formatIDs = []string{}
	}

	var job JobRecord
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO generation_jobs (id, job_id, user_id, project_id, format_ids, provider, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+jobColumns,
		uuid.New(), jobID, userID, projectID, pq.Array(formatIDs), provider, "running",
	)
	if err := scanJob(row, &job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	return &job, nil
}

func (s *JobStore) GetJob(ctx context.Context, jobID, userID string) (*JobRecord, error) {
	var job JobRecord
	row := s.db.QueryRowContext(ctx, `
		SELECT `+jobColumns+`
		FROM generation_jobs
		WHERE job_id = $1 AND user_id = $2
	`, jobID, userID)
	if err := scanJob(row, &job); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

// ListJobs returns a user's jobs, newest first.
func (s *JobStore) ListJobs(ctx context.Context, userID string, limit int) ([]JobRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+jobColumns+`
		FROM generation_jobs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []JobRecord{}
	for rows.Next() {
		var job JobRecord
		if err := scanJob(rows, &job); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, nil
}

func (s *JobStore) UpdateJobStatus(ctx context.Context, jobID, status string, progress int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE generation_jobs
		SET status = $1, progress = $2, updated_at = NOW()
		WHERE job_id = $3
	`, status, progress, jobID)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	return nil
}

func (s *JobStore) MarkCompleted(ctx context.Context, jobID string, assetCount int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE generation_jobs
		SET status = 'completed', progress = 100, asset_count = $1,
			error_message = NULL, updated_at = NOW(), completed_at = NOW()
		WHERE job_id = $2
	`, assetCount, jobID)
	if err != nil {
		return fmt.Errorf("failed to mark job completed: %w", err)
	}
	return nil
}

func (s *JobStore) MarkFailed(ctx context.Context, jobID, errorMsg string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE generation_jobs
		SET status = 'failed', error_message = $1, updated_at = NOW(), completed_at = NOW()
		WHERE job_id = $2
	`, errorMsg, jobID)
	if err != nil {
		return fmt.Errorf("failed to mark job failed: %w", err)
	}
	return nil
}

// MarkCanceled records that the user stopped watching the job.
func (s *JobStore) MarkCanceled(ctx context.Context, jobID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE generation_jobs
		SET status = 'canceled', updated_at = NOW()
		WHERE job_id = $1 AND completed_at IS NULL
	`, jobID)
	if err != nil {
		return fmt.Errorf("failed to mark job canceled: %w", err)
	}
	return nil
}
