package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskly/backend/internal/middleware"
	"github.com/taskly/backend/internal/models"
	"github.com/taskly/backend/internal/services"
)

// TaskHandler handles task endpoints nested under a project.
type TaskHandler struct {
	tasks *services.TaskService
	log   *slog.Logger
}

func NewTaskHandler(tasks *services.TaskService, log *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, log: log}
}

// TaskRequest is the body for creating or updating a task.
type TaskRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// StatusRequest is the body for POST .../tasks/:taskID/status.
type StatusRequest struct {
	Status models.TaskStatus `json:"status" binding:"required"`
}

// taskScope pulls the authenticated user and the resolved project (and,
// when withTask is set, the resolved task) out of the Gin context.
func (h *TaskHandler) taskScope(c *gin.Context, withTask bool) (*models.User, *models.Project, *models.Task, bool) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return nil, nil, nil, false
	}
	project, ok := middleware.GetProjectFromContext(c)
	if !ok {
		respondError(c, h.log, errMissingContext)
		return nil, nil, nil, false
	}

	var task *models.Task
	if withTask {
		if task, ok = middleware.GetTaskFromContext(c); !ok {
			respondError(c, h.log, errMissingContext)
			return nil, nil, nil, false
		}
	}
	return user, project, task, true
}

// Create adds a task to the project.
func (h *TaskHandler) Create(c *gin.Context) {
	user, project, _, ok := h.taskScope(c, false)
	if !ok {
		return
	}

	var req TaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), user, project, req.Name, req.Description)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// List returns the project's tasks.
func (h *TaskHandler) List(c *gin.Context) {
	user, project, _, ok := h.taskScope(c, false)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListByProject(c.Request.Context(), user, project)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// Get returns a single task.
func (h *TaskHandler) Get(c *gin.Context) {
	user, project, task, ok := h.taskScope(c, true)
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), user, project, task)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Update changes the task's name and description.
func (h *TaskHandler) Update(c *gin.Context) {
	user, project, task, ok := h.taskScope(c, true)
	if !ok {
		return
	}

	var req TaskRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.tasks.Update(c.Request.Context(), user, project, task, req.Name, req.Description); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task updated"})
}

// Delete removes the task and its notes.
func (h *TaskHandler) Delete(c *gin.Context) {
	user, project, task, ok := h.taskScope(c, true)
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), user, project, task); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

// UpdateStatus moves the task to a new lifecycle state.
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	user, project, task, ok := h.taskScope(c, true)
	if !ok {
		return
	}

	var req StatusRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.tasks.UpdateStatus(c.Request.Context(), user, project, task, req.Status); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task status updated"})
}
