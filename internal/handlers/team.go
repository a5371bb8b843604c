package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskly/backend/internal/middleware"
	"github.com/taskly/backend/internal/services"
)

// TeamHandler handles project team membership endpoints.
type TeamHandler struct {
	team *services.TeamService
	log  *slog.Logger
}

func NewTeamHandler(team *services.TeamService, log *slog.Logger) *TeamHandler {
	return &TeamHandler{team: team, log: log}
}

// AddMemberRequest is the body for POST .../team.
type AddMemberRequest struct {
	ID string `json:"id" binding:"required"`
}

// Find looks up a user by email so the UI can offer them for invitation.
func (h *TeamHandler) Find(c *gin.Context) {
	if _, ok := middleware.RequireAuth(c); !ok {
		return
	}

	var req EmailRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.team.FindMemberByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

// List returns the project's team members.
func (h *TeamHandler) List(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}
	project, ok := middleware.GetProjectFromContext(c)
	if !ok {
		respondError(c, h.log, errMissingContext)
		return
	}

	team, err := h.team.List(c.Request.Context(), user, project)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, team)
}

// Add puts an existing user on the project team.
func (h *TeamHandler) Add(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}
	project, ok := middleware.GetProjectFromContext(c)
	if !ok {
		respondError(c, h.log, errMissingContext)
		return
	}

	var req AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.team.Add(c.Request.Context(), user, project, req.ID); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "member added to the project"})
}

// Remove takes a user off the project team.
func (h *TeamHandler) Remove(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}
	project, ok := middleware.GetProjectFromContext(c)
	if !ok {
		respondError(c, h.log, errMissingContext)
		return
	}

	if err := h.team.Remove(c.Request.Context(), user, project, c.Param("userID")); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "member removed from the project"})
}
