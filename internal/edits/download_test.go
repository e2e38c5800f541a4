package edits_test

import (
	"context"
	"testing"

	"aicreat-gateway/internal/edits"
	"aicreat-gateway/internal/prompt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchRequest_MapsUIValues(t *testing.T) {
	tests := []struct {
		name     string
		choice   edits.DownloadChoice
		format   string
		quality  string
		grouping string
		notices  int
	}{
		{"jpeg high batch", edits.DownloadChoice{Format: "JPEG", Quality: "High", Grouping: "Batch"}, "jpeg", "high", "batch", 0},
		{"png low individual", edits.DownloadChoice{Format: "PNG", Quality: "Low", Grouping: "Individual"}, "png", "low", "individual", 0},
		{"psd falls back", edits.DownloadChoice{Format: "PSD", Quality: "Medium", Grouping: "Batch"}, "jpeg", "medium", "batch", 1},
		{"defaults", edits.DownloadChoice{}, "jpeg", "high", "batch", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := prompt.NewRecorder(true)
			tt.choice.AssetIDs = []string{"a1", "a2"}

			req, err := edits.BatchRequest(context.Background(), tt.choice, rec)

			require.NoError(t, err)
			assert.Equal(t, []string{"a1", "a2"}, req.AssetIDs)
			assert.Equal(t, tt.format, req.Format)
			assert.Equal(t, tt.quality, req.Quality)
			assert.Equal(t, tt.grouping, req.Grouping)
			assert.Len(t, rec.Notices(), tt.notices)
		})
	}
}

func TestBatchRequest_EmptySelection(t *testing.T) {
	_, err := edits.BatchRequest(context.Background(), edits.DownloadChoice{Format: "PNG"}, nil)

	assert.ErrorIs(t, err, edits.ErrEmptySelection)
}

func TestBatchRequest_UnknownValue(t *testing.T) {
	_, err := edits.BatchRequest(context.Background(), edits.DownloadChoice{AssetIDs: []string{"a"}, Format: "TIFF"}, nil)

	assert.ErrorIs(t, err, edits.ErrOutOfRange)
}
