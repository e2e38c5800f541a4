package models

import (
	"aicreat-gateway/internal/edits"
	"aicreat-gateway/internal/geometry"
)

type GenerateRequest struct {
	ProjectID string   `json:"project_id" binding:"required" example:"6f1c2a9e-3b7d-4f5a-9c1e-2d8b7a6f5e4d"`
	FormatIDs []string `json:"format_ids" binding:"required,min=1" example:"instagram-post,facebook-post"`
	// Provider defaults to the backend's default provider.
	Provider     string `json:"provider,omitempty" example:"gemini"`
	CustomPrompt string `json:"custom_prompt,omitempty"`
}

// ApplyEditsRequest carries the editor state in display pixels. The gateway
// normalizes it before it reaches the backend.
type ApplyEditsRequest struct {
	// DisplayWidth is the preview width the geometry was measured at.
	DisplayWidth float64        `json:"display_width,omitempty" example:"600"`
	Crop         *geometry.Rect `json:"crop,omitempty"`
	// CropArea is the crop slider in percent (10-100). Ignored when Crop is set.
	CropArea     *int                `json:"crop_area,omitempty" example:"100"`
	Saturation   int                 `json:"saturation" example:"-50"`
	TextOverlays []edits.TextOverlay `json:"text_overlays,omitempty"`
	LogoOverlays []edits.LogoOverlay `json:"logo_overlays,omitempty"`
}

type DownloadRequest struct {
	AssetIDs []string `json:"asset_ids" binding:"required,min=1"`
	Format   string   `json:"format,omitempty" example:"jpeg"`
	Quality  string   `json:"quality,omitempty" example:"high"`
}

// BatchDownloadRequest uses the labels shown in the download panel.
type BatchDownloadRequest struct {
	AssetIDs []string `json:"asset_ids"`
	Format   string   `json:"format" example:"JPEG"`
	Quality  string   `json:"quality" example:"High"`
	Grouping string   `json:"grouping" example:"Batch"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
