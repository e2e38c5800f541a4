package models

import (
	"time"

	"aicreat-gateway/internal/creative"
)

// JobView is the observable state of a watched generation job.
type JobView struct {
	JobID    string `json:"job_id"`
	UserID   string `json:"user_id,omitempty"`
	State    string `json:"state" example:"polling"`
	Status   string `json:"status" example:"running"`
	Progress int    `json:"progress" example:"40"`
	// Results is set once the job completed and its assets were fetched.
	Results    creative.JobResults `json:"results,omitempty"`
	AssetCount int                 `json:"asset_count"`
	Error      string              `json:"error,omitempty"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// Terminal reports whether the job will not change any more.
func (v JobView) Terminal() bool {
	switch v.State {
	case "completed", "failed", "canceled":
		return true
	}
	return false
}

type GenerateResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
	// StatusURL is where the job can be followed.
	StatusURL string `json:"status_url"`
}

type JobListResponse struct {
	Jobs []JobSummary `json:"jobs"`
}

type JobSummary struct {
	JobID        string     `json:"job_id"`
	ProjectID    string     `json:"project_id"`
	FormatIDs    []string   `json:"format_ids"`
	Provider     string     `json:"provider"`
	Status       string     `json:"status"`
	Progress     int        `json:"progress"`
	AssetCount   int        `json:"asset_count"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

type ApplyEditsResponse struct {
	Asset   *creative.GeneratedAsset `json:"asset"`
	Edits   creative.EditRequest     `json:"edits"`
	Notices []string                 `json:"notices,omitempty"`
}

type DownloadResponse struct {
	DownloadURL string   `json:"download_url"`
	Notices     []string `json:"notices,omitempty"`
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
