package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskly/backend/internal/middleware"
	"github.com/taskly/backend/internal/models"
	"github.com/taskly/backend/internal/services"
)

// NoteHandler handles task note endpoints.
type NoteHandler struct {
	notes *services.NoteService
	log   *slog.Logger
}

func NewNoteHandler(notes *services.NoteService, log *slog.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, log: log}
}

// NoteRequest is the body for creating a note.
type NoteRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *NoteHandler) noteScope(c *gin.Context) (*models.User, *models.Project, *models.Task, bool) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return nil, nil, nil, false
	}
	project, ok := middleware.GetProjectFromContext(c)
	if !ok {
		respondError(c, h.log, errMissingContext)
		return nil, nil, nil, false
	}
	task, ok := middleware.GetTaskFromContext(c)
	if !ok {
		respondError(c, h.log, errMissingContext)
		return nil, nil, nil, false
	}
	return user, project, task, true
}

// Create attaches a note to the task.
func (h *NoteHandler) Create(c *gin.Context) {
	user, project, task, ok := h.noteScope(c)
	if !ok {
		return
	}

	var req NoteRequest
	if !bindJSON(c, &req) {
		return
	}

	note, err := h.notes.Create(c.Request.Context(), user, project, task, req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, note)
}

// List returns the task's notes.
func (h *NoteHandler) List(c *gin.Context) {
	user, project, task, ok := h.noteScope(c)
	if !ok {
		return
	}

	notes, err := h.notes.ListByTask(c.Request.Context(), user, project, task)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, notes)
}

// Delete removes a note. Author only.
func (h *NoteHandler) Delete(c *gin.Context) {
	user, project, task, ok := h.noteScope(c)
	if !ok {
		return
	}

	if err := h.notes.Delete(c.Request.Context(), user, project, task, c.Param("noteID")); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "note deleted"})
}
