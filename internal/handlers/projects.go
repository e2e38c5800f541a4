package handlers

import (
	"net/http"
	"strconv"

	"aicreat-gateway/internal/creative"
	"aicreat-gateway/internal/models"

	"github.com/gin-gonic/gin"
)

type ProjectsHandler struct {
	client *creative.Client
}

func NewProjectsHandler(client *creative.Client) *ProjectsHandler {
	return &ProjectsHandler{client: client}
}

// ListProjects godoc
// @Summary     List projects
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       limit  query int false "Page size (default 20)"
// @Param       offset query int false "Offset"
// @Success     200 {object} creative.ProjectList
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /projects [get]
func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid limit"})
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid offset"})
		return
	}

	projects, err := backendFor(c, h.client).ListProjects(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err, "failed to list projects")
		return
	}
	c.JSON(http.StatusOK, projects)
}

// GetProjectStatus godoc
// @Summary     Get project status
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID"
// @Success     200 {object} creative.ProjectStatus
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_id}/status [get]
func (h *ProjectsHandler) GetProjectStatus(c *gin.Context) {
	status, err := backendFor(c, h.client).GetProjectStatus(c.Request.Context(), c.Param("project_id"))
	if err != nil {
		writeError(c, err, "failed to get project status")
		return
	}
	c.JSON(http.StatusOK, status)
}

// DeleteProject godoc
// @Summary     Delete a project
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID"
// @Success     204
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_id} [delete]
func (h *ProjectsHandler) DeleteProject(c *gin.Context) {
	if err := backendFor(c, h.client).DeleteProject(c.Request.Context(), c.Param("project_id")); err != nil {
		writeError(c, err, "failed to delete project")
		return
	}
	c.Status(http.StatusNoContent)
}
