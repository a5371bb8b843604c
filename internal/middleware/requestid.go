package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDContextName = "request_id"

// RequestID tags every request with an id, honoring one supplied by an
// upstream proxy. The id is echoed in the response so clients can quote it
// when reporting a failure.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDContextName, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// GetRequestID returns the id assigned to the current request.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDContextName)
}
