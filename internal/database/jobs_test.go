package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jobColumnNames = []string{
	"id", "job_id", "user_id", "project_id", "format_ids", "provider", "status", "progress",
	"asset_count", "error_message", "created_at", "updated_at", "completed_at",
}

func newMockStore(t *testing.T) (*JobStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewJobStore(db), mock
}

func TestCreateJob(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()
	id := uuid.New()

	mock.ExpectQuery("INSERT INTO generation_jobs").
		WithArgs(sqlmock.AnyArg(), "job-1", "user-1", "project-1", sqlmock.AnyArg(), "gemini", "running").
		WillReturnRows(sqlmock.NewRows(jobColumnNames).AddRow(
			id.String(), "job-1", "user-1", "project-1", "{instagram-post,facebook-post}", "gemini",
			"running", 0, 0, nil, now, now, nil,
		))

	job, err := store.CreateJob(context.Background(), "job-1", "user-1", "project-1",
		[]string{"instagram-post", "facebook-post"}, "gemini")

	require.NoError(t, err)
	assert.Equal(t, id, job.ID)
	assert.Equal(t, []string{"instagram-post", "facebook-post"}, job.FormatIDs)
	assert.Equal(t, "running", job.Status)
	assert.False(t, job.ErrorMessage.Valid)
	assert.False(t, job.CompletedAt.Valid)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetJob_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM generation_jobs").
		WithArgs("missing", "user-1").
		WillReturnRows(sqlmock.NewRows(jobColumnNames))

	_, err := store.GetJob(context.Background(), "missing", "user-1")

	assert.ErrorIs(t, err, ErrJobNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListJobs(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM generation_jobs").
		WithArgs("user-1", 50).
		WillReturnRows(sqlmock.NewRows(jobColumnNames).
			AddRow(uuid.NewString(), "job-2", "user-1", "p", "{}", "gemini", "failed", 40, 0,
				"poller: generation job failed", now, now, now).
			AddRow(uuid.NewString(), "job-1", "user-1", "p", "{instagram-post}", "gemini", "completed", 100, 3,
				nil, now.Add(-time.Hour), now, now))

	jobs, err := store.ListJobs(context.Background(), "user-1", 0)

	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "job-2", jobs[0].JobID)
	assert.True(t, jobs[0].ErrorMessage.Valid)
	assert.Equal(t, 3, jobs[1].AssetCount)
	assert.True(t, jobs[1].CompletedAt.Valid)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListJobs_Empty(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM generation_jobs").
		WithArgs("user-1", 10).
		WillReturnRows(sqlmock.NewRows(jobColumnNames))

	jobs, err := store.ListJobs(context.Background(), "user-1", 10)

	require.NoError(t, err)
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)
}

func TestStatusUpdates(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectExec("UPDATE generation_jobs").
		WithArgs("running", 40, "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE generation_jobs").
		WithArgs(5, "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE generation_jobs").
		WithArgs("boom", "job-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE generation_jobs").
		WithArgs("job-3").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.UpdateJobStatus(ctx, "job-1", "running", 40))
	require.NoError(t, store.MarkCompleted(ctx, "job-1", 5))
	require.NoError(t, store.MarkFailed(ctx, "job-2", "boom"))
	require.NoError(t, store.MarkCanceled(ctx, "job-3"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateJobStatus_Error(t *testing.T) {
	store, mock := newMockStore(t)
	dbErr := errors.New("connection lost")

	mock.ExpectExec("UPDATE generation_jobs").WillReturnError(dbErr)

	err := store.UpdateJobStatus(context.Background(), "job-1", "running", 10)

	assert.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "failed to update job status")
}
