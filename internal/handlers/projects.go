package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskly/backend/internal/middleware"
	"github.com/taskly/backend/internal/services"
)

// ProjectHandler handles project CRUD endpoints.
type ProjectHandler struct {
	projects *services.ProjectService
	log      *slog.Logger
}

func NewProjectHandler(projects *services.ProjectService, log *slog.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, log: log}
}

// ProjectRequest is the body for creating or updating a project.
type ProjectRequest struct {
	ProjectName string `json:"project_name" binding:"required"`
	ClientName  string `json:"client_name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// Create makes the caller the manager of a new project.
func (h *ProjectHandler) Create(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	var req ProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projects.Create(c.Request.Context(), user, req.ProjectName, req.ClientName, req.Description)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// List returns every project the caller manages or belongs to.
func (h *ProjectHandler) List(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	projects, err := h.projects.List(c.Request.Context(), user)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, projects)
}

// Get returns the resolved project.
func (h *ProjectHandler) Get(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}
	project, ok := middleware.GetProjectFromContext(c)
	if !ok {
		respondError(c, h.log, errMissingContext)
		return
	}

	project, err := h.projects.Get(c.Request.Context(), user, project)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// Update changes the project's identity fields.
func (h *ProjectHandler) Update(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}
	project, ok := middleware.GetProjectFromContext(c)
	if !ok {
		respondError(c, h.log, errMissingContext)
		return
	}

	var req ProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.projects.Update(c.Request.Context(), user, project, req.ProjectName, req.ClientName, req.Description); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "project updated"})
}

// Delete removes the project and everything under it.
func (h *ProjectHandler) Delete(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}
	project, ok := middleware.GetProjectFromContext(c)
	if !ok {
		respondError(c, h.log, errMissingContext)
		return
	}

	if err := h.projects.Delete(c.Request.Context(), user, project); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}
