package handlers

import (
	"context"
	"net/http"
	"strconv"

	"aicreat-gateway/internal/creative"
	"aicreat-gateway/internal/database"
	"aicreat-gateway/internal/models"
	"aicreat-gateway/internal/services"

	"github.com/gin-gonic/gin"
)

// JobHistory lists the jobs a user started.
type JobHistory interface {
	ListJobs(ctx context.Context, userID string, limit int) ([]database.JobRecord, error)
}

type JobsHandler struct {
	client  *creative.Client
	jobs    *services.JobService
	history JobHistory
}

// NewJobsHandler wires the job endpoints. history may be nil when no
// database is configured.
func NewJobsHandler(client *creative.Client, jobs *services.JobService, history JobHistory) *JobsHandler {
	return &JobsHandler{
		client:  client,
		jobs:    jobs,
		history: history,
	}
}

// Generate godoc
// @Summary     Start a generation job
// @Description Enqueues a generation job on the backend and starts following its progress
// @Tags        jobs
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.GenerateRequest true "Generation request"
// @Success     202 {object} models.GenerateResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /generate [post]
func (h *JobsHandler) Generate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	view, err := h.jobs.Start(c.Request.Context(), backendFor(c, h.client), userID, creative.GenerationRequest{
		ProjectID:    req.ProjectID,
		FormatIDs:    req.FormatIDs,
		Provider:     req.Provider,
		CustomPrompt: req.CustomPrompt,
	})
	if err != nil {
		writeError(c, err, "failed to start generation")
		return
	}

	c.JSON(http.StatusAccepted, models.GenerateResponse{
		JobID:     view.JobID,
		Status:    view.Status,
		StatusURL: "/api/v1/jobs/" + view.JobID,
	})
}

// GetJob godoc
// @Summary     Get job progress
// @Description Returns the latest known state of a generation job, including its assets once completed
// @Tags        jobs
// @Produce     json
// @Security    Bearer
// @Param       job_id path string true "Job ID"
// @Success     200 {object} models.JobView
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /jobs/{job_id} [get]
func (h *JobsHandler) GetJob(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := h.jobs.Get(c.Request.Context(), c.Param("job_id"), userID)
	if err != nil {
		writeError(c, err, "failed to get job")
		return
	}
	c.JSON(http.StatusOK, view)
}

// CancelJob godoc
// @Summary     Stop following a job
// @Description Stops the poll loop of a job. The backend job itself is not canceled.
// @Tags        jobs
// @Produce     json
// @Security    Bearer
// @Param       job_id path string true "Job ID"
// @Success     200 {object} models.JobView
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /jobs/{job_id} [delete]
func (h *JobsHandler) CancelJob(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := h.jobs.Cancel(c.Request.Context(), c.Param("job_id"), userID)
	if err != nil {
		writeError(c, err, "failed to cancel job")
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListJobs godoc
// @Summary     List generation jobs
// @Description Returns the caller's most recent generation jobs
// @Tags        jobs
// @Produce     json
// @Security    Bearer
// @Param       limit query int false "Maximum number of jobs (default 50, max 100)"
// @Success     200 {object} models.JobListResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /jobs [get]
func (h *JobsHandler) ListJobs(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "job history not available"})
		return
	}

	userID, ok := currentUser(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid limit", Message: err.Error()})
			return
		}
		limit = n
	}

	records, err := h.history.ListJobs(c.Request.Context(), userID, limit)
	if err != nil {
		writeError(c, err, "failed to list jobs")
		return
	}

	jobs := make([]models.JobSummary, 0, len(records))
	for _, r := range records {
		summary := models.JobSummary{
			JobID:        r.JobID,
			ProjectID:    r.ProjectID,
			FormatIDs:    r.FormatIDs,
			Provider:     r.Provider,
			Status:       r.Status,
			Progress:     r.Progress,
			AssetCount:   r.AssetCount,
			ErrorMessage: r.ErrorMessage.String,
			CreatedAt:    r.CreatedAt,
		}
		if r.CompletedAt.Valid {
			completedAt := r.CompletedAt.Time
			summary.CompletedAt = &completedAt
		}
		jobs = append(jobs, summary)
	}

	c.JSON(http.StatusOK, models.JobListResponse{Jobs: jobs})
}
