package edits

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"aicreat-gateway/internal/creative"
	"aicreat-gateway/internal/prompt"
)

var ErrEmptySelection = errors.New("edits: select at least one asset to download")

// DownloadChoice is what the user picked in the download panel.
type DownloadChoice struct {
	AssetIDs []string `json:"asset_ids"`
	// Format is one of JPEG, PNG or PSD.
	Format string `json:"format"`
	// Quality is one of High, Medium or Low.
	Quality string `json:"quality"`
	// Grouping is Batch or Individual.
	Grouping string `json:"grouping"`
}

var (
	downloadFormats = map[string]string{"jpeg": "jpeg", "jpg": "jpeg", "png": "png", "psd": "jpeg"}
	qualities       = map[string]string{"high": "high", "medium": "medium", "low": "low"}
	groupings       = map[string]string{"batch": "batch", "individual": "individual"}
)

// BatchRequest maps the user's choice to the backend request. PSD is not
// produced by the backend and falls back to JPEG with a notice.
func BatchRequest(ctx context.Context, choice DownloadChoice, p prompt.Prompter) (creative.BatchDownloadRequest, error) {
	if len(choice.AssetIDs) == 0 {
		return creative.BatchDownloadRequest{}, ErrEmptySelection
	}

	format, err := lookup(downloadFormats, choice.Format, "jpeg", "format")
	if err != nil {
		return creative.BatchDownloadRequest{}, err
	}
	if strings.EqualFold(strings.TrimSpace(choice.Format), "psd") && p != nil {
		p.Notify(ctx, "PSD export is not supported yet, downloading JPEG instead")
	}
	quality, err := lookup(qualities, choice.Quality, "high", "quality")
	if err != nil {
		return creative.BatchDownloadRequest{}, err
	}
	grouping, err := lookup(groupings, choice.Grouping, "batch", "grouping")
	if err != nil {
		return creative.BatchDownloadRequest{}, err
	}

	return creative.BatchDownloadRequest{
		AssetIDs: append([]string(nil), choice.AssetIDs...),
		Format:   format,
		Quality:  quality,
		Grouping: grouping,
	}, nil
}

func lookup(table map[string]string, value, fallback, field string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	if key == "" {
		return fallback, nil
	}
	mapped, ok := table[key]
	if !ok {
		return "", fmt.Errorf("unknown %s %q: %w", field, value, ErrOutOfRange)
	}
	return mapped, nil
}
