package creative

import "aicreat-gateway/internal/geometry"

// Job statuses reported by the generation backend.
const (
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// ProvidersResponse lists the AI providers the backend can generate with.
type ProvidersResponse struct {
	Providers       []string `json:"providers"`
	DefaultProvider string   `json:"default_provider"`
}

// FormatSpec describes one target format, e.g. "Instagram Story" at 1080x1920.
type FormatSpec struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PlatformID   string `json:"platform_id"`
	PlatformName string `json:"platform_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Description  string `json:"description,omitempty"`
}

// FormatsResponse groups formats by generation mode.
type FormatsResponse struct {
	Resizing    []FormatSpec `json:"resizing"`
	Repurposing []FormatSpec `json:"repurposing"`
}

// GenerationRequest is the body of a start-generation call.
type GenerationRequest struct {
	ProjectID    string   `json:"project_id"`
	FormatIDs    []string `json:"format_ids"`
	Provider     string   `json:"provider,omitempty"`
	CustomPrompt string   `json:"custom_prompt,omitempty"`
}

// GenerationJob is returned when a job is enqueued.
type GenerationJob struct {
	JobID    string `json:"job_id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
}

// JobStatus is one poll of a running job.
type JobStatus struct {
	Status   string `json:"status"`
	Progress int    `json:"progress"`
}

// Dimensions are an asset's pixel dimensions.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Size converts the dimensions for the geometry package.
func (d Dimensions) Size() geometry.Size {
	return geometry.NewSize(float64(d.Width), float64(d.Height))
}

// GeneratedAsset is a single generated variant. The backend owns it; clients
// hold a read-only copy.
type GeneratedAsset struct {
	ID              string     `json:"id"`
	OriginalAssetID string     `json:"originalAssetId"`
	Filename        string     `json:"filename"`
	AssetURL        string     `json:"assetUrl"`
	PlatformName    string     `json:"platformName,omitempty"`
	FormatName      string     `json:"formatName"`
	Dimensions      Dimensions `json:"dimensions"`
	IsNSFW          bool       `json:"isNsfw"`
}

// JobResults maps a platform name to its generated assets in backend order.
type JobResults map[string][]GeneratedAsset

// Count returns the number of assets across all platforms.
func (r JobResults) Count() int {
	n := 0
	for _, assets := range r {
		n += len(assets)
	}
	return n
}

// TextStyle references how overlay text is rendered.
type TextStyle struct {
	FontFamily string  `json:"font_family,omitempty"`
	FontSize   float64 `json:"font_size,omitempty"`
	Color      string  `json:"color,omitempty"`
}

// TextOverlayEdit is a text overlay positioned in the unit square.
type TextOverlayEdit struct {
	Text     string         `json:"text"`
	Position geometry.Point `json:"position"`
	Style    TextStyle      `json:"style"`
}

// LogoOverlayEdit is a logo overlay in the unit square. The backend does not
// accept logo binaries yet, so requests always carry an empty list.
type LogoOverlayEdit struct {
	Bounds  geometry.Rect `json:"bounds"`
	Opacity float64       `json:"opacity"`
}

// EditRequest is the normalized payload of an apply-edits call.
type EditRequest struct {
	Crop         geometry.Rect     `json:"crop"`
	Saturation   float64           `json:"saturation"`
	TextOverlays []TextOverlayEdit `json:"text_overlays"`
	LogoOverlays []LogoOverlayEdit `json:"logo_overlays"`
}

type applyEditsBody struct {
	Edits EditRequest `json:"edits"`
}

// DownloadRequest asks for a download URL for one or more assets.
type DownloadRequest struct {
	AssetIDs []string `json:"asset_ids"`
	Format   string   `json:"format"`
	Quality  string   `json:"quality"`
}

// DownloadResponse carries a single download URL.
type DownloadResponse struct {
	DownloadURL string `json:"download_url"`
}

// BatchDownloadRequest asks for an archive of the selected assets.
type BatchDownloadRequest struct {
	AssetIDs []string `json:"assetIds"`
	Format   string   `json:"format"`
	Quality  string   `json:"quality"`
	Grouping string   `json:"grouping"`
}

// BatchDownloadResponse carries the archive URL.
type BatchDownloadResponse struct {
	DownloadURL string `json:"downloadUrl"`
}

// Project is a dashboard project as listed by the backend.
type Project struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	AssetCount int    `json:"asset_count,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// ProjectList is one page of projects.
type ProjectList struct {
	Projects []Project `json:"projects"`
	Total    int       `json:"total"`
}

// ProjectStatus reports a project's processing status.
type ProjectStatus struct {
	ProjectID string `json:"project_id"`
	Status    string `json:"status"`
	Progress  int    `json:"progress"`
}

// fallbackProviders is served when the providers call fails.
func fallbackProviders() *ProvidersResponse {
	return &ProvidersResponse{Providers: []string{"gemini"}, DefaultProvider: "gemini"}
}

// fallbackFormats is served when the formats call fails.
func fallbackFormats() *FormatsResponse {
	return &FormatsResponse{
		Resizing: []FormatSpec{
			{
				ID:           "instagram-post",
				Name:         "Instagram Post",
				PlatformID:   "instagram",
				PlatformName: "Instagram",
				Width:        1080,
				Height:       1080,
				Description:  "Square format for Instagram posts",
			},
			{
				ID:           "instagram-story",
				Name:         "Instagram Story",
				PlatformID:   "instagram",
				PlatformName: "Instagram",
				Width:        1080,
				Height:       1920,
				Description:  "Vertical format for Instagram stories",
			},
			{
				ID:           "facebook-post",
				Name:         "Facebook Post",
				PlatformID:   "facebook",
				PlatformName: "Facebook",
				Width:        1200,
				Height:       630,
				Description:  "Landscape format for Facebook posts",
			},
		},
		Repurposing: []FormatSpec{},
	}
}
