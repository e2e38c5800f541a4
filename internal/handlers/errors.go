package handlers

import (
	"errors"
	"net/http"

	"aicreat-gateway/internal/creative"
	"aicreat-gateway/internal/edits"
	"aicreat-gateway/internal/geometry"
	"aicreat-gateway/internal/middleware"
	"aicreat-gateway/internal/models"
	"aicreat-gateway/internal/poller"
	"aicreat-gateway/internal/services"

	"github.com/gin-gonic/gin"
)

// writeError answers with the status that best describes err. Backend 4xx
// answers pass through with the backend's own message.
func writeError(c *gin.Context, err error, message string) {
	_ = c.Error(err)

	var apiErr *creative.APIError
	switch {
	case errors.As(err, &apiErr):
		status := apiErr.StatusCode
		if status >= http.StatusInternalServerError || status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		c.JSON(status, models.ErrorResponse{Error: message, Message: creative.Message(err)})
	case errors.Is(err, creative.ErrBackendTimeout):
		c.JSON(http.StatusGatewayTimeout, models.ErrorResponse{Error: message, Message: "generation backend timed out"})
	case errors.Is(err, creative.ErrBackendUnreachable):
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: message, Message: "generation backend unreachable"})
	case errors.Is(err, services.ErrJobNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "job not found"})
	case errors.Is(err, services.ErrJobNotLocal):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: message, Message: err.Error()})
	case errors.Is(err, creative.ErrMissingID), errors.Is(err, poller.ErrMissingJobID),
		errors.Is(err, edits.ErrOutOfRange), errors.Is(err, edits.ErrEmptySelection),
		errors.Is(err, edits.ErrOverlayNotFound):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: message, Message: err.Error()})
	case errors.Is(err, geometry.ErrInvalidDimensions), errors.Is(err, geometry.ErrInvalidRange):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Error: message, Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: message, Message: err.Error()})
	}
}

// currentUser returns the authenticated user id, answering 401 when missing.
func currentUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return "", false
	}
	return userID, true
}

// backendFor returns a backend client that forwards the caller's token.
func backendFor(c *gin.Context, client *creative.Client) *creative.Client {
	return client.WithToken(middleware.Token(c))
}
