package handlers

import (
	"net/http"

	"aicreat-gateway/internal/creative"
	"aicreat-gateway/internal/edits"
	"aicreat-gateway/internal/models"
	"aicreat-gateway/internal/prompt"

	"github.com/gin-gonic/gin"
)

type DownloadsHandler struct {
	client *creative.Client
}

func NewDownloadsHandler(client *creative.Client) *DownloadsHandler {
	return &DownloadsHandler{client: client}
}

// Download godoc
// @Summary     Get a download link
// @Description Returns a download URL for the given assets
// @Tags        downloads
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.DownloadRequest true "Assets to download"
// @Success     200 {object} models.DownloadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /downloads [post]
func (h *DownloadsHandler) Download(c *gin.Context) {
	var req models.DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}
	if req.Format == "" {
		req.Format = "jpeg"
	}
	if req.Quality == "" {
		req.Quality = "high"
	}

	resp, err := backendFor(c, h.client).GetDownloadURL(c.Request.Context(), creative.DownloadRequest{
		AssetIDs: req.AssetIDs,
		Format:   req.Format,
		Quality:  req.Quality,
	})
	if err != nil {
		writeError(c, err, "failed to get download url")
		return
	}
	c.JSON(http.StatusOK, models.DownloadResponse{DownloadURL: resp.DownloadURL})
}

// DownloadBatch godoc
// @Summary     Download a selection of assets
// @Description Takes the choices of the download panel. PSD falls back to JPEG with a notice.
// @Tags        downloads
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.BatchDownloadRequest true "Download choices"
// @Success     200 {object} models.DownloadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /downloads/batch [post]
func (h *DownloadsHandler) DownloadBatch(c *gin.Context) {
	var req models.BatchDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	ctx := c.Request.Context()
	notices := prompt.NewRecorder(false)
	batch, err := edits.BatchRequest(ctx, edits.DownloadChoice{
		AssetIDs: req.AssetIDs,
		Format:   req.Format,
		Quality:  req.Quality,
		Grouping: req.Grouping,
	}, notices)
	if err != nil {
		writeError(c, err, "invalid download request")
		return
	}

	resp, err := backendFor(c, h.client).DownloadAssets(ctx, batch)
	if err != nil {
		writeError(c, err, "failed to download assets")
		return
	}
	c.JSON(http.StatusOK, models.DownloadResponse{
		DownloadURL: resp.DownloadURL,
		Notices:     notices.Notices(),
	})
}
