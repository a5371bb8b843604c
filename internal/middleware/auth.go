package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskly/backend/internal/auth"
	"github.com/taskly/backend/internal/models"
	"github.com/taskly/backend/internal/store"
)

const userContextName = "user"

// Authenticate validates the bearer session token and sets the owning user in
// the Gin context. The user document is loaded fresh on every request, so a
// deleted account stops authenticating even while its token is still valid.
func Authenticate(sessions *auth.SessionIssuer, users store.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		userID, err := sessions.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(userContextName, user)
		c.Next()
	}
}

// GetUserFromContext retrieves the authenticated user from the Gin context.
func GetUserFromContext(c *gin.Context) (*models.User, bool) {
	val, ok := c.Get(userContextName)
	if !ok {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}

// RequireAuth returns the authenticated user, writing an error response if the
// chain somehow reached the handler without one.
func RequireAuth(c *gin.Context) (*models.User, bool) {
	user, ok := GetUserFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}
	return user, true
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
