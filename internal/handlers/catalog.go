package handlers

import (
	"net/http"

	"aicreat-gateway/internal/creative"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	client *creative.Client
}

func NewCatalogHandler(client *creative.Client) *CatalogHandler {
	return &CatalogHandler{client: client}
}

// GetProviders godoc
// @Summary     List generation providers
// @Description Returns the AI providers the backend offers. Falls back to the default list when the backend is unavailable.
// @Tags        catalog
// @Produce     json
// @Security    Bearer
// @Success     200 {object} creative.ProvidersResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /providers [get]
func (h *CatalogHandler) GetProviders(c *gin.Context) {
	providers, err := backendFor(c, h.client).GetProviders(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to get providers")
		return
	}
	c.JSON(http.StatusOK, providers)
}

// GetFormats godoc
// @Summary     List output formats
// @Description Returns the resizing and repurposing formats. Falls back to the default list when the backend is unavailable.
// @Tags        catalog
// @Produce     json
// @Security    Bearer
// @Success     200 {object} creative.FormatsResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /formats [get]
func (h *CatalogHandler) GetFormats(c *gin.Context) {
	formats, err := backendFor(c, h.client).GetFormats(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to get formats")
		return
	}
	c.JSON(http.StatusOK, formats)
}
