package handlers

import (
	"net/http"

	"aicreat-gateway/internal/creative"
	"aicreat-gateway/internal/edits"
	"aicreat-gateway/internal/geometry"
	"aicreat-gateway/internal/models"
	"aicreat-gateway/internal/prompt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type AssetsHandler struct {
	client       *creative.Client
	displayWidth float64
	logger       zerolog.Logger
}

// NewAssetsHandler takes the preview width used when a request does not
// say which width its geometry was measured at.
func NewAssetsHandler(client *creative.Client, displayWidth float64, logger zerolog.Logger) *AssetsHandler {
	if displayWidth <= 0 {
		displayWidth = geometry.DefaultDisplayWidth
	}
	return &AssetsHandler{
		client:       client,
		displayWidth: displayWidth,
		logger:       logger,
	}
}

// GetAsset godoc
// @Summary     Get a generated asset
// @Tags        assets
// @Produce     json
// @Security    Bearer
// @Param       asset_id path string true "Generated asset ID"
// @Success     200 {object} creative.GeneratedAsset
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /assets/{asset_id} [get]
func (h *AssetsHandler) GetAsset(c *gin.Context) {
	asset, err := backendFor(c, h.client).GetGeneratedAsset(c.Request.Context(), c.Param("asset_id"))
	if err != nil {
		writeError(c, err, "failed to get asset")
		return
	}
	c.JSON(http.StatusOK, asset)
}

// ApplyEdits godoc
// @Summary     Apply edits to a generated asset
// @Description Takes crop, saturation and overlays in display pixels, normalizes them against the asset's dimensions and submits them to the backend. Logo overlays are not sent yet and produce a notice.
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       asset_id path string true "Generated asset ID"
// @Param       request body models.ApplyEditsRequest true "Editor state"
// @Success     200 {object} models.ApplyEditsResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     422 {object} models.ErrorResponse
// @Router      /assets/{asset_id}/edits [put]
func (h *AssetsHandler) ApplyEdits(c *gin.Context) {
	var req models.ApplyEditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	width := req.DisplayWidth
	if width <= 0 {
		width = h.displayWidth
	}

	ctx := c.Request.Context()
	notices := prompt.NewRecorder(false)
	session := edits.NewSession(backendFor(c, h.client), notices, edits.Options{
		DisplayWidth: width,
		Logger:       &h.logger,
	})

	if err := session.Load(ctx, c.Param("asset_id")); err != nil {
		writeError(c, err, "failed to load asset")
		return
	}
	if err := fill(session, req); err != nil {
		writeError(c, err, "invalid edits")
		return
	}

	asset, err := session.Apply(ctx)
	if err != nil {
		writeError(c, err, "failed to apply edits")
		return
	}

	c.JSON(http.StatusOK, models.ApplyEditsResponse{
		Asset:   asset,
		Edits:   session.Submitted(),
		Notices: notices.Notices(),
	})
}

// fill replays the editor state onto a fresh session.
func fill(s *edits.Session, req models.ApplyEditsRequest) error {
	switch {
	case req.Crop != nil:
		if err := s.SetCrop(*req.Crop); err != nil {
			return err
		}
	case req.CropArea != nil:
		if err := s.SetCropArea(*req.CropArea); err != nil {
			return err
		}
	}
	if err := s.SetSaturation(req.Saturation); err != nil {
		return err
	}

	for _, t := range req.TextOverlays {
		id, err := s.AddText(t.Text, t.X, t.Y)
		if err != nil {
			return err
		}
		overlay := edits.TextOverlay{
			ID:         id,
			Text:       t.Text,
			X:          t.X,
			Y:          t.Y,
			FontSize:   t.FontSize,
			FontFamily: t.FontFamily,
			Color:      t.Color,
		}
		if overlay.FontSize <= 0 {
			overlay.FontSize = edits.DefaultFontSize
		}
		if overlay.FontFamily == "" {
			overlay.FontFamily = edits.DefaultFontFamily
		}
		if overlay.Color == "" {
			overlay.Color = edits.DefaultTextColor
		}
		if err := s.UpdateText(overlay); err != nil {
			return err
		}
	}

	for _, l := range req.LogoOverlays {
		if _, err := s.AddLogo(l.Source, geometry.NewRect(l.X, l.Y, l.Width, l.Height)); err != nil {
			return err
		}
	}
	return nil
}
