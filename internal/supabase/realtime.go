package supabase

import (
	"context"
	"fmt"
	"time"

	"aicreat-gateway/internal/models"

	"github.com/rs/zerolog"
)

// ProgressTable is the table browsers subscribe to through Supabase Realtime.
const ProgressTable = "job_progress"

// RowWriter upserts rows into a table.
type RowWriter interface {
	Upsert(table, conflictColumn string, row any) error
}

// ProgressRow is one job's row in ProgressTable.
type ProgressRow struct {
	JobID     string    `json:"job_id"`
	UserID    string    `json:"user_id"`
	State     string    `json:"state"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	Error     string    `json:"error"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProgressRow projects a job view onto its progress row. Results are left
// out; browsers fetch them from the gateway once the row turns terminal.
func NewProgressRow(view models.JobView) ProgressRow {
	updated := view.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	return ProgressRow{
		JobID:     view.JobID,
		UserID:    view.UserID,
		State:     view.State,
		Status:    view.Status,
		Progress:  view.Progress,
		Error:     view.Error,
		UpdatedAt: updated,
	}
}

// RealtimeClient publishes job progress. Database updates to ProgressTable
// trigger Realtime events for subscribed browsers. A nil RealtimeClient
// publishes nothing.
type RealtimeClient struct {
	writer RowWriter
	logger zerolog.Logger
}

func NewRealtimeClient(writer RowWriter, logger zerolog.Logger) *RealtimeClient {
	return &RealtimeClient{
		writer: writer,
		logger: logger.With().Str("component", "realtime").Logger(),
	}
}

// PublishJob upserts the job's progress row. Errors are returned, not logged.
func (r *RealtimeClient) PublishJob(ctx context.Context, view models.JobView) error {
	if r == nil || r.writer == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.writer.Upsert(ProgressTable, "job_id", NewProgressRow(view)); err != nil {
		return fmt.Errorf("failed to publish job progress: %w", err)
	}
	r.logger.Debug().Str("job_id", view.JobID).Str("state", view.State).Int("progress", view.Progress).Msg("published job progress")
	return nil
}
