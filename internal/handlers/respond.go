// Package handlers exposes the REST API. Handlers bind and validate request
// bodies, call the services and translate sentinel errors into HTTP statuses;
// all resource resolution and authentication happens in the middleware chain
// before a handler runs.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskly/backend/internal/apperrors"
	"github.com/taskly/backend/internal/middleware"
)

// errMissingContext means a handler ran without its resolving middleware in
// front of it. That is a routing bug, surfaced as a 500.
var errMissingContext = errors.New("request context entity not resolved")

// respondError maps a service error onto its HTTP status. Unexpected errors
// are logged and masked with a generic message.
func respondError(c *gin.Context, log *slog.Logger, err error) {
	status := apperrors.Status(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", middleware.GetRequestID(c),
			"error", err,
		)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// bindJSON binds the request body into req, writing a 400 on malformed JSON
// or failed field validation.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}
