package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskly/backend/internal/authz"
	"github.com/taskly/backend/internal/models"
	"github.com/taskly/backend/internal/store"
)

const (
	projectContextName = "project"
	taskContextName    = "task"
)

// ResolveProject loads the :projectID route param into the Gin context. An
// unknown id is a 404 before any authorization is considered.
func ResolveProject(projects store.Projects) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, err := projects.GetByID(c.Request.Context(), c.Param("projectID"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		c.Set(projectContextName, project)
		c.Next()
	}
}

// ResolveTask loads the :taskID route param and verifies it belongs to the
// already-resolved project. Existence is checked first (404), then the
// relation (400); role checks come after, in the services.
func ResolveTask(tasks store.Tasks) gin.HandlerFunc {
	return func(c *gin.Context) {
		task, err := tasks.GetByID(c.Request.Context(), c.Param("taskID"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}

		project, ok := GetProjectFromContext(c)
		if !ok || !authz.TaskBelongsToProject(task, project) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "task does not belong to this project"})
			return
		}

		c.Set(taskContextName, task)
		c.Next()
	}
}

// RequireManager rejects callers who do not manage the resolved project.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUserFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		project, ok := GetProjectFromContext(c)
		if !ok || !authz.IsManager(user, project) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// GetProjectFromContext retrieves the resolved project from the Gin context.
func GetProjectFromContext(c *gin.Context) (*models.Project, bool) {
	val, ok := c.Get(projectContextName)
	if !ok {
		return nil, false
	}
	project, ok := val.(*models.Project)
	return project, ok
}

// GetTaskFromContext retrieves the resolved task from the Gin context.
func GetTaskFromContext(c *gin.Context) (*models.Task, bool) {
	val, ok := c.Get(taskContextName)
	if !ok {
		return nil, false
	}
	task, ok := val.(*models.Task)
	return task, ok
}
